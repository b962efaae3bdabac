// Package sb is the script builder shared by every stage of code
// generation. It appends instructions for syntax tree nodes, records
// which source position each instruction came from, and routes
// diagnostics to the compilation's sink.
package sb

import (
	"math/big"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/types"
	"neochain/crypto/hash160"
	"neochain/errors"
	"neochain/protocol/vm"
	"neochain/protocol/vmutil"
)

// ErrUnknownSysCall is returned by EmitSysCall for names missing from
// the VM syscall table.
var ErrUnknownSysCall = vm.ErrUnknownSysCall

// Facts is what code generation needs to know from the front end.
type Facts interface {
	// TypeOf returns the static type of an expression or declaration,
	// or nil when it was not resolved.
	TypeOf(n ast.Node) *types.Type

	// SymbolOf returns the declaration an identifier or member access
	// refers to.
	SymbolOf(n ast.Node) *types.Symbol

	// HasDecorator reports whether decl carries the library
	// decorator name.
	HasDecorator(decl ast.Node, name string) bool

	// References returns every identifier that refers to decl.
	References(decl ast.Node) []*ast.Ident
}

// Visitor compiles a node. The code generator installs itself so
// that helpers and syscall marshalling can compile sub-expressions.
type Visitor interface {
	Visit(b *ScriptBuilder, node ast.Node, opts VisitOptions)
}

// Helper is a reusable emission routine with a documented stack
// effect.
type Helper interface {
	Emit(b *ScriptBuilder, node ast.Node, opts VisitOptions)
}

// HelperFunc adapts a function to the Helper interface.
type HelperFunc func(b *ScriptBuilder, node ast.Node, opts VisitOptions)

func (f HelperFunc) Emit(b *ScriptBuilder, node ast.Node, opts VisitOptions) { f(b, node, opts) }

// Label is a jump target.
type Label int

// Mapping ties the instruction at Offset, and those following it up
// to the next mapping, to a source position.
type Mapping struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Col    int `json:"col"`
}

// Program is the output of a script builder.
type Program struct {
	Script    []byte
	SourceMap []Mapping
}

// ScriptBuilder appends code for nodes. It is not safe for
// concurrent use and serves a single compilation.
type ScriptBuilder struct {
	facts   Facts
	diags   *diag.Sink
	visitor Visitor
	b       *vmutil.Builder
	smap    []Mapping
}

// New returns an empty builder.
func New(facts Facts, diags *diag.Sink) *ScriptBuilder {
	return &ScriptBuilder{facts: facts, diags: diags, b: vmutil.NewBuilder()}
}

// SetVisitor installs the node compiler used by Visit.
func (b *ScriptBuilder) SetVisitor(v Visitor) { b.visitor = v }

// Visit compiles node with opts.
func (b *ScriptBuilder) Visit(node ast.Node, opts VisitOptions) {
	if b.visitor == nil {
		panic("sb: Visit called without a visitor")
	}
	b.visitor.Visit(b, node, opts)
}

func (b *ScriptBuilder) Facts() Facts      { return b.facts }
func (b *ScriptBuilder) Diags() *diag.Sink { return b.diags }

// TypeOf returns the static type of n, or nil.
func (b *ScriptBuilder) TypeOf(n ast.Node) *types.Type {
	if b.facts == nil || n == nil {
		return nil
	}
	return b.facts.TypeOf(n)
}

// SymbolOf returns the symbol of n, or nil.
func (b *ScriptBuilder) SymbolOf(n ast.Node) *types.Symbol {
	if b.facts == nil || n == nil {
		return nil
	}
	return b.facts.SymbolOf(n)
}

// Len returns the number of bytes emitted so far.
func (b *ScriptBuilder) Len() int { return b.b.Len() }

func (b *ScriptBuilder) mark(node ast.Node) {
	if node == nil {
		return
	}
	pos := node.Pos()
	off := b.b.Len()
	if n := len(b.smap); n > 0 {
		last := &b.smap[n-1]
		if last.Line == pos.Line && last.Col == pos.Col {
			return
		}
		if last.Offset == off {
			last.Line, last.Col = pos.Line, pos.Col
			return
		}
	}
	b.smap = append(b.smap, Mapping{Offset: off, Line: pos.Line, Col: pos.Col})
}

// EmitOp appends a single opcode.
func (b *ScriptBuilder) EmitOp(node ast.Node, op vm.Op) {
	b.mark(node)
	b.b.AddOp(op)
}

// EmitPushInt pushes n with the shortest encoding.
func (b *ScriptBuilder) EmitPushInt(node ast.Node, n int64) {
	b.mark(node)
	b.b.AddInt64(n)
}

// EmitPushBigInt pushes n with the shortest encoding.
func (b *ScriptBuilder) EmitPushBigInt(node ast.Node, n *big.Int) {
	b.mark(node)
	b.b.AddBigInt(n)
}

// EmitPushBuffer pushes data with the shortest encoding.
func (b *ScriptBuilder) EmitPushBuffer(node ast.Node, data []byte) {
	b.mark(node)
	b.b.AddData(data)
}

// EmitPushString pushes the UTF-8 bytes of s.
func (b *ScriptBuilder) EmitPushString(node ast.Node, s string) {
	b.EmitPushBuffer(node, []byte(s))
}

// EmitPushBool pushes a boolean.
func (b *ScriptBuilder) EmitPushBool(node ast.Node, v bool) {
	b.mark(node)
	b.b.AddBool(v)
}

// EmitSysCall appends a SYSCALL. Names outside the VM syscall table
// are a caller error: nothing is emitted and ErrUnknownSysCall is
// returned.
func (b *ScriptBuilder) EmitSysCall(node ast.Node, name string) error {
	if _, ok := vm.SysCalls[name]; !ok {
		return errors.WithDetailf(ErrUnknownSysCall, "%q", name)
	}
	b.mark(node)
	return b.b.AddSysCall(name)
}

// MustSysCall is EmitSysCall for names fixed in the compiler itself.
func (b *ScriptBuilder) MustSysCall(node ast.Node, name string) {
	if err := b.EmitSysCall(node, name); err != nil {
		panic(err)
	}
}

// EmitHelper emits h.
func (b *ScriptBuilder) EmitHelper(node ast.Node, opts VisitOptions, h Helper) {
	h.Emit(b, node, opts)
}

// NewLabel returns a fresh, unplaced jump target.
func (b *ScriptBuilder) NewLabel() Label { return Label(b.b.NewJumpTarget()) }

// SetLabel places l at the current offset.
func (b *ScriptBuilder) SetLabel(l Label) { b.b.SetJumpTarget(int(l)) }

// EmitJump appends a jump or CALL to l.
func (b *ScriptBuilder) EmitJump(node ast.Node, op vm.Op, l Label) {
	b.mark(node)
	b.b.AddJump(op, int(l))
}

// EmitCall appends a CALL to l.
func (b *ScriptBuilder) EmitCall(node ast.Node, l Label) {
	b.EmitJump(node, vm.OP_CALL, l)
}

// EmitAppCall appends a static call into the contract with hash.
func (b *ScriptBuilder) EmitAppCall(node ast.Node, hash hash160.Uint160) {
	b.mark(node)
	b.b.AddAppCall(hash)
}

// Errorf reports an error diagnostic at node.
func (b *ScriptBuilder) Errorf(node ast.Node, code diag.Code, format string, args ...interface{}) {
	b.diags.Errorf(node, code, format, args...)
}

// Unsupported reports that node cannot be compiled.
func (b *ScriptBuilder) Unsupported(node ast.Node) {
	b.diags.Unsupported(node)
}

// Build resolves jump targets and returns the script and its source
// map.
func (b *ScriptBuilder) Build() (*Program, error) {
	script, err := b.b.Build()
	if err != nil {
		return nil, err
	}
	return &Program{Script: script, SourceMap: append([]Mapping(nil), b.smap...)}, nil
}
