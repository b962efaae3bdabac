package syscall

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/crypto/hash160"
	"neochain/protocol/vm"
)

// Argument is a named syscall parameter.
type Argument struct {
	Name string
	Type Type
}

// SysCall is a syscall as seen from contract source.
type SysCall struct {
	Name   string
	Args   []Argument
	Result Type

	// Rest, when set, collects every argument after Args into one
	// array.
	Rest *Argument

	// handle replaces the default argument marshalling.
	handle func(s *SysCall, c Context, call *ast.CallExpr, args []ast.Expr)
}

// Value is a synthesized syscall argument: Emit leaves one boxed value
// of static type Type on the stack.
type Value struct {
	Emit func(opts sb.VisitOptions)
	Type *types.Type
	Node ast.Node
}

// Signature renders s as a source declaration.
func (s *SysCall) Signature() string {
	parts := []string{fmt.Sprintf("name: '%s'", s.Name)}
	for _, a := range s.Args {
		parts = append(parts, a.Name+": "+a.Type.Name())
	}
	if s.Rest != nil {
		parts = append(parts, fmt.Sprintf("...%s: Array<%s>", s.Rest.Name, s.Rest.Type.Name()))
	}
	return fmt.Sprintf("function syscall(%s): %s;", strings.Join(parts, ", "), s.Result.Name())
}

// HandleCall compiles call, a call of the syscall builtin whose first
// argument names s.
func (s *SysCall) HandleCall(c Context, call *ast.CallExpr) {
	args := call.Args[1:]
	if s.handle != nil {
		s.handle(s, c, call, args)
		return
	}
	if s.Rest == nil && len(args) != len(s.Args) || s.Rest != nil && len(args) < len(s.Args) {
		c.B.Errorf(call, diag.InvalidSysCall, "%s takes %d arguments, got %d", s.Name, len(s.Args), len(args))
		return
	}
	vals := make([]Value, len(args))
	for i, arg := range args {
		arg := arg
		vals[i] = Value{
			Emit: func(opts sb.VisitOptions) { c.B.Visit(arg, opts) },
			Type: c.B.TypeOf(arg),
			Node: arg,
		}
	}
	s.Emit(c.at(call), vals)
}

// Emit marshals vals, emits the syscall and converts its result
// according to c.Opts.
//
// Arguments are evaluated left to right and then reversed so that
// the first is on top when the syscall runs.
func (s *SysCall) Emit(c Context, vals []Value) {
	argOpts := c.Opts.WithPushValue().NoCast()
	fixed := vals
	if s.Rest != nil {
		fixed = vals[:len(s.Args)]
	}
	for i, v := range fixed {
		v.Emit(argOpts)
		s.Args[i].Type.HandleArgument(c.with(argOpts).at(v.Node), v.Type, false)
	}
	n := len(fixed)
	if s.Rest != nil {
		rest := vals[len(s.Args):]
		for _, v := range rest {
			v.Emit(argOpts)
			s.Rest.Type.HandleArgument(c.with(argOpts).at(v.Node), v.Type, false)
		}
		if len(rest) == 0 {
			c.B.EmitPushInt(c.Node, 0)
			c.op(vm.OP_NEWARRAY)
		} else {
			c.emit(helper.ArgumentsArray{N: len(rest)})
		}
		n++
	}
	c.emit(helper.Reverse{N: n})
	c.B.MustSysCall(c.Node, s.Name)
	s.result(c)
}

func (s *SysCall) result(c Context) {
	if c.Opts.PushValue {
		s.Result.HandleResult(c.with(c.Opts.NoCast()), c.Opts.Cast, false)
	} else if s.Result != Void {
		c.op(vm.OP_DROP)
	}
}

func (c Context) at(n ast.Node) Context {
	if n != nil {
		c.Node = n
	}
	return c
}

// notifyValue is the type of each Neo.Runtime.Notify argument.
var notifyValue = Union(Buffer, Number, String, Boolean, Undefined)

// handleAppCall compiles syscall('Neo.Runtime.Call', Buffer.from(hex),
// method, ...args) to a static APPCALL. The callee receives the method
// name on top of the raw argument array, as from an invocation.
func handleAppCall(s *SysCall, c Context, call *ast.CallExpr, args []ast.Expr) {
	if len(args) < 2 {
		c.B.Errorf(call, diag.InvalidSysCall, "%s takes a contract hash and a method name", s.Name)
		return
	}
	hash, ok := literalHash(args[0])
	if !ok {
		c.B.Errorf(args[0], diag.InvalidSysCall, "%s needs a literal Buffer.from('<hex>', 'hex') contract hash", s.Name)
		return
	}
	opts := c.Opts.WithPushValue().NoCast()
	c.B.Visit(args[1], opts)
	String.HandleArgument(c.with(opts).at(args[1]), c.B.TypeOf(args[1]), false)
	value := Serializable.Raw()
	rest := args[2:]
	for _, arg := range rest {
		c.B.Visit(arg, opts)
		value.HandleArgument(c.with(opts).at(arg), c.B.TypeOf(arg), false)
	}
	if len(rest) == 0 {
		c.B.EmitPushInt(call, 0)
		c.B.EmitOp(call, vm.OP_NEWARRAY)
	} else {
		helper.ArgumentsArray{N: len(rest)}.Emit(c.B, call, opts)
	}
	c.B.EmitOp(call, vm.OP_SWAP)
	c.B.EmitAppCall(call, hash)
	if c.Opts.PushValue {
		value.HandleResult(c.at(call).with(c.Opts.NoCast()), c.Opts.Cast, false)
	} else {
		c.B.EmitOp(call, vm.OP_DROP)
	}
}

// literalHash extracts the script hash of Buffer.from('<hex>', 'hex').
func literalHash(e ast.Expr) (hash160.Uint160, bool) {
	var h hash160.Uint160
	call, ok := ast.Unparen(e).(*ast.CallExpr)
	if !ok || len(call.Args) < 1 {
		return h, false
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel != "from" {
		return h, false
	}
	if id, ok := sel.X.(*ast.Ident); !ok || id.Name != "Buffer" {
		return h, false
	}
	lit, ok := call.Args[0].(*ast.StringLit)
	if !ok {
		return h, false
	}
	b, err := hex.DecodeString(strings.TrimPrefix(lit.Value, "0x"))
	if err != nil || len(b) != len(h) {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

var table = map[string]*SysCall{}

func register(s *SysCall) {
	if s.Result == nil {
		s.Result = Void
	}
	table[s.Name] = s
}

// Lookup returns the syscall called name.
func Lookup(name string) (*SysCall, bool) {
	s, ok := table[name]
	return s, ok
}

// Names returns the names of every syscall in sorted order.
func Names() []string {
	var names []string
	for n := range table {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
