package codegen

import (
	"encoding/hex"
	"fmt"
	"strings"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/syscall"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/crypto/hash160"
	"neochain/crypto/hash256"
	"neochain/protocol/vm"
)

func compileCall(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.CallExpr)
	switch fun := ast.Unparen(e.Fun).(type) {
	case *ast.SuperExpr:
		c.superCall(b, e, opts)
		helper.CreateUndefined.Emit(b, e, opts)
	case *ast.Ident:
		c.identCall(b, e, fun, opts)
	case *ast.SelectorExpr:
		c.selectorCall(b, e, fun, opts)
	default:
		b.Errorf(e, diag.UnsupportedSyntax, "unsupported call target")
		helper.CreateUndefined.Emit(b, e, opts)
	}
}

// args pushes the arguments of a call of a function declaring params,
// each cast to its parameter type, and packs them. Extra arguments are
// evaluated and dropped. [] -> [args]
func (c *compiler) args(b *sb.ScriptBuilder, node ast.Node, params []*ast.Param, args []ast.Expr) {
	n := 0
	for i, a := range args {
		if i >= len(params) {
			b.Visit(a, sb.VisitOptions{})
			continue
		}
		c.push(b, a, c.facts.TypeOf(params[i]))
		n++
	}
	helper.ArgumentsArray{N: n}.Emit(b, node, sb.VisitOptions{})
}

// superCall runs the base construction from a derived constructor,
// then the field initializers of the derived class. A class whose base
// is the contract library class has run its initializers already.
func (c *compiler) superCall(b *sb.ScriptBuilder, e *ast.CallExpr, opts sb.VisitOptions) {
	fn := c.cur
	if fn.key.kind != fnInit || fn.class == nil {
		b.Errorf(e, diag.UnsupportedSyntax, "super() outside a constructor")
		return
	}
	base, ok := c.superBase(b, e, opts)
	if !ok {
		return
	}
	if base == nil {
		for _, a := range e.Args {
			b.Visit(a, sb.VisitOptions{})
		}
		return
	}
	if c.plan.NeedsInit(base) {
		helper.LoadLocal{Slot: 0}.Emit(b, e, sb.VisitOptions{})
		c.args(b, e, c.plan.InitParams(base), e.Args)
		b.EmitCall(e, c.initOf(b, base).label)
		b.EmitOp(e, vm.OP_DROP)
	}
	c.initializers(b, fn.class)
}

// superBase returns the class super denotes in the function being
// compiled, nil when that is the contract library class. ok is false
// when the base was rejected by an earlier diagnostic. A missing base
// in an otherwise clean compilation is a compiler bug.
func (c *compiler) superBase(b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) (base *ast.ClassDecl, ok bool) {
	switch {
	case opts.SuperClass != nil:
		return opts.SuperClass, true
	case opts.IsSmartContract:
		return nil, true
	case b.Diags().HasErrors():
		return nil, false
	}
	panic(fmt.Sprintf("codegen: super at %s compiled without a resolved base class", n.Pos()))
}

func (c *compiler) identCall(b *sb.ScriptBuilder, e *ast.CallExpr, id *ast.Ident, opts sb.VisitOptions) {
	sym := b.SymbolOf(id)
	switch {
	case sym == nil:
		b.Errorf(id, diag.UnknownSymbol, "undefined: %s", id.Name)
		helper.CreateUndefined.Emit(b, e, opts)
	case sym.IsLib(frontend.SysCall):
		c.sysCall(b, e, opts)
	case sym.Kind == types.SymFunc:
		d := sym.Decl.(*ast.FuncDecl)
		helper.CreateUndefined.Emit(b, e, sb.VisitOptions{PushValue: true})
		c.args(b, e, d.Params, e.Args)
		b.EmitCall(e, c.function(b, fnKey{d, fnBody}).label)
		discard(b, e, opts)
	case sym.Kind == types.SymConst && frontend.IsEventHandler(c.facts.TypeOf(sym.Decl)):
		c.notify(b, e, sym.Decl.(*ast.VarDecl), opts)
	default:
		b.Errorf(e, diag.UnsupportedSyntax, "%s is not callable", id.Name)
		helper.CreateUndefined.Emit(b, e, opts)
	}
}

func (c *compiler) sysCall(b *sb.ScriptBuilder, e *ast.CallExpr, opts sb.VisitOptions) {
	var lit *ast.StringLit
	if len(e.Args) > 0 {
		lit, _ = e.Args[0].(*ast.StringLit)
	}
	if lit == nil {
		b.Errorf(e, diag.InvalidSysCall, "the first argument of syscall must be a string literal")
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	s, ok := syscall.Lookup(lit.Value)
	if !ok {
		b.Errorf(lit, diag.InvalidSysCall, "unknown syscall %q", lit.Value)
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	s.HandleCall(syscall.Context{B: b, Node: e, Opts: opts}, e)
}

// notify emits the event declared by decl: a Notify of the event name
// followed by the arguments.
func (c *compiler) notify(b *sb.ScriptBuilder, e *ast.CallExpr, decl *ast.VarDecl, opts sb.VisitOptions) {
	ev := c.plan.Event(decl)
	if ev == nil {
		b.Errorf(e, diag.InvalidContractEvent, "%s is not a valid event", decl.Name)
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	if len(e.Args) != len(ev.Types) {
		b.Errorf(e, diag.InvalidContractEvent, "event %s takes %d arguments, got %d", ev.ABI.Name, len(ev.Types), len(e.Args))
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	bad := false
	for i, a := range e.Args {
		if at := c.facts.TypeOf(a); !ev.Marshal[i].IsOnlyType(at) {
			b.Errorf(a, diag.InvalidContractEvent, "argument %d of event %s has type %s, want %s", i+1, ev.ABI.Name, at, ev.Types[i])
			bad = true
		}
	}
	if bad {
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	vals := []syscall.Value{{
		Emit: func(o sb.VisitOptions) {
			b.EmitPushString(e, ev.ABI.Name)
			helper.CreateString.Emit(b, e, o)
		},
		Type: types.StringType,
		Node: e,
	}}
	for i, a := range e.Args {
		a, t := a, ev.Types[i]
		vals = append(vals, syscall.Value{
			Emit: func(o sb.VisitOptions) { b.Visit(a, o.WithCast(t)) },
			Type: t,
			Node: a,
		})
	}
	s, _ := syscall.Lookup("Neo.Runtime.Notify")
	s.Emit(syscall.Context{B: b, Node: e, Opts: opts}, vals)
}

func (c *compiler) selectorCall(b *sb.ScriptBuilder, e *ast.CallExpr, sel *ast.SelectorExpr, opts sb.VisitOptions) {
	if id, ok := ast.Unparen(sel.X).(*ast.Ident); ok {
		if sym := b.SymbolOf(id); sym != nil && sym.Kind == types.SymLib {
			c.staticCall(b, e, sym.Name, sel, opts)
			return
		}
	}
	if sym := b.SymbolOf(sel.X); sym != nil && sym.Kind == types.SymMember {
		if f, ok := sym.Decl.(*ast.PropertyDecl); ok {
			switch c.plan.Field(f) {
			case transpile.MapField, transpile.SetField:
				c.structuredCall(b, e, sel, f, opts)
				return
			}
		}
	}
	if sym := b.SymbolOf(sel); sym != nil && sym.Kind == types.SymMember {
		m, ok := sym.Decl.(*ast.MethodDecl)
		if !ok || m.MethodKind != ast.Method {
			b.Errorf(e, diag.UnsupportedSyntax, "%s is not a method", sel.Sel)
			helper.CreateUndefined.Emit(b, e, opts)
			return
		}
		if target := c.findMethod(c.dispatchClass(b, sel.X, m.Class, opts), m.Name, ast.Method); target != nil {
			m = target
		}
		c.push(b, sel.X, nil)
		c.args(b, e, m.Params, e.Args)
		b.EmitCall(e, c.method(b, m).label)
		discard(b, e, opts)
		return
	}
	c.builtinCall(b, e, sel, opts)
}

// staticCall compiles the static functions of the contract library.
func (c *compiler) staticCall(b *sb.ScriptBuilder, e *ast.CallExpr, lib string, sel *ast.SelectorExpr, opts sb.VisitOptions) {
	bad := func(format string, args ...interface{}) {
		b.Errorf(e, diag.UnsupportedSyntax, format, args...)
		helper.CreateUndefined.Emit(b, e, opts)
	}
	if !opts.PushValue {
		// Library constructors have no side effects.
		for _, a := range e.Args {
			b.Visit(a, sb.VisitOptions{})
		}
		return
	}
	literal := func() (string, bool) {
		if len(e.Args) == 0 {
			return "", false
		}
		lit, ok := ast.Unparen(e.Args[0]).(*ast.StringLit)
		if !ok {
			return "", false
		}
		return lit.Value, true
	}
	pushBuffer := func(data []byte) {
		b.EmitPushBuffer(e, data)
		helper.CreateBuffer.Emit(b, e, opts)
	}

	switch {
	case lib == frontend.Buffer && sel.Sel == "from":
		c.bufferFrom(b, e, opts)
	case lib == frontend.Buffer && sel.Sel == "concat":
		c.bufferConcat(b, e, opts)
	case lib == frontend.Address && sel.Sel == "from":
		s, ok := literal()
		if !ok {
			bad("Address.from needs a literal address")
			return
		}
		h, err := hash160.FromAddress(s)
		if err != nil {
			b.Errorf(e, diag.UnsupportedSyntax, "invalid address: %v", err)
		}
		pushBuffer(h[:])
	case lib == frontend.Hash256 && sel.Sel == "from":
		s, ok := literal()
		if !ok {
			bad("Hash256.from needs a literal hash")
			return
		}
		h, err := hash256.Parse(s)
		if err != nil {
			b.Errorf(e, diag.UnsupportedSyntax, "invalid hash: %v", err)
		}
		pushBuffer(h[:])
	case (lib == frontend.PublicKey || lib == frontend.Signature) && sel.Sel == "from":
		s, ok := literal()
		if !ok {
			bad("%s.from needs a literal hex string", lib)
			return
		}
		size := 33
		if lib == frontend.Signature {
			size = 64
		}
		data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil || len(data) != size {
			b.Errorf(e, diag.UnsupportedSyntax, "%s.from needs %d hex encoded bytes", lib, size)
		}
		pushBuffer(data)
	default:
		bad("%s.%s is not supported", lib, sel.Sel)
	}
}

func (c *compiler) bufferFrom(b *sb.ScriptBuilder, e *ast.CallExpr, opts sb.VisitOptions) {
	if len(e.Args) == 0 || len(e.Args) > 2 {
		b.Errorf(e, diag.UnsupportedSyntax, "Buffer.from takes a string and an optional encoding")
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	encoding := "utf8"
	if len(e.Args) == 2 {
		enc, ok := ast.Unparen(e.Args[1]).(*ast.StringLit)
		if !ok || (enc.Value != "hex" && enc.Value != "utf8" && enc.Value != "utf-8") {
			b.Errorf(e.Args[1], diag.UnsupportedSyntax, "Buffer.from supports the 'hex' and 'utf8' encodings")
		} else if enc.Value == "hex" {
			encoding = "hex"
		}
	}
	if lit, ok := ast.Unparen(e.Args[0]).(*ast.StringLit); ok {
		data := []byte(lit.Value)
		if encoding == "hex" {
			var err error
			if data, err = hex.DecodeString(strings.TrimPrefix(lit.Value, "0x")); err != nil {
				b.Errorf(lit, diag.UnsupportedSyntax, "invalid hex string %q", lit.Value)
			}
		}
		b.EmitPushBuffer(e, data)
		helper.CreateBuffer.Emit(b, e, opts)
		return
	}
	if encoding == "hex" || !types.IsOnlyString(b.TypeOf(e.Args[0])) {
		b.Errorf(e, diag.UnsupportedSyntax, "Buffer.from only converts string values as utf8")
	}
	c.push(b, e.Args[0], nil)
	helper.GetString.Emit(b, e, opts)
	helper.CreateBuffer.Emit(b, e, opts)
}

func (c *compiler) bufferConcat(b *sb.ScriptBuilder, e *ast.CallExpr, opts sb.VisitOptions) {
	if len(e.Args) != 1 {
		b.Errorf(e, diag.UnsupportedSyntax, "Buffer.concat takes one array")
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	if arr, ok := ast.Unparen(e.Args[0]).(*ast.ArrayLit); ok {
		b.EmitPushBuffer(e, nil)
		for _, x := range arr.Elems {
			c.push(b, x, nil)
			helper.GetBuffer.Emit(b, x, opts)
			b.EmitOp(x, vm.OP_CAT)
		}
		helper.CreateBuffer.Emit(b, e, opts)
		return
	}
	// stack: [acc, arr] while iterating.
	b.EmitPushBuffer(e, nil)
	c.push(b, e.Args[0], nil)
	helper.UnwrapArray.Emit(b, e, opts)
	helper.ArrForEach{Each: func() {
		// [elem, i, arr, acc]
		helper.GetBuffer.Emit(b, e, opts)
		b.EmitPushInt(e, 3)
		b.EmitOp(e, vm.OP_ROLL)
		b.EmitOp(e, vm.OP_SWAP)
		b.EmitOp(e, vm.OP_CAT)
		b.EmitOp(e, vm.OP_ROT)
		b.EmitOp(e, vm.OP_ROT)
	}}.Emit(b, e, opts)
	helper.CreateBuffer.Emit(b, e, opts)
}

// builtinCall compiles the methods of arrays, strings and buffers.
func (c *compiler) builtinCall(b *sb.ScriptBuilder, e *ast.CallExpr, sel *ast.SelectorExpr, opts sb.VisitOptions) {
	xt := b.TypeOf(sel.X)
	arity := func(min, max int) bool {
		if len(e.Args) < min || len(e.Args) > max {
			b.Errorf(e, diag.UnsupportedSyntax, "%s takes %d to %d arguments, got %d", sel.Sel, min, max, len(e.Args))
			helper.CreateUndefined.Emit(b, e, opts)
			return false
		}
		return true
	}

	switch {
	case types.IsOnlyArray(xt) && sel.Sel == "push":
		elem := types.ArrayElem(xt)
		c.push(b, sel.X, nil)
		helper.UnwrapArray.Emit(b, e, opts)
		for _, a := range e.Args {
			b.EmitOp(e, vm.OP_DUP)
			c.push(b, a, elem)
			b.EmitOp(e, vm.OP_APPEND)
		}
		b.EmitOp(e, vm.OP_ARRAYSIZE)
		helper.CreateNumber.Emit(b, e, opts)

	case types.IsOnlyArray(xt) && sel.Sel == "pop":
		if !arity(0, 0) {
			return
		}
		c.push(b, sel.X, nil)
		helper.UnwrapArray.Emit(b, e, opts)
		b.EmitOp(e, vm.OP_DUP)
		b.EmitOp(e, vm.OP_ARRAYSIZE)
		b.EmitOp(e, vm.OP_DEC)
		helper.If{
			Condition: func() {
				b.EmitOp(e, vm.OP_DUP)
				b.EmitPushInt(e, 0)
				b.EmitOp(e, vm.OP_GTE)
			},
			WhenTrue: func() {
				// [i, arr] -> [elem]
				b.EmitOp(e, vm.OP_OVER)
				b.EmitOp(e, vm.OP_OVER)
				b.EmitOp(e, vm.OP_PICKITEM)
				b.EmitOp(e, vm.OP_ROT)
				b.EmitOp(e, vm.OP_ROT)
				b.EmitOp(e, vm.OP_REMOVE)
			},
			WhenFalse: func() {
				b.EmitOp(e, vm.OP_DROP)
				b.EmitOp(e, vm.OP_DROP)
				helper.CreateUndefined.Emit(b, e, sb.VisitOptions{PushValue: true})
			},
		}.Emit(b, e, opts)

	case types.IsOnlyArray(xt) && sel.Sel == "includes":
		if !arity(1, 1) {
			return
		}
		elem, needle := types.ArrayElem(xt), b.TypeOf(e.Args[0])
		c.push(b, e.Args[0], nil)
		c.push(b, sel.X, nil)
		helper.UnwrapArray.Emit(b, e, opts)
		helper.ArrSome{Predicate: func() {
			// [elem, i, arr, needle]
			b.EmitPushInt(e, 3)
			b.EmitOp(e, vm.OP_PICK)
			helper.StrictEquals{Left: elem, Right: needle}.Emit(b, e, opts)
		}}.Emit(b, e, opts)
		b.EmitOp(e, vm.OP_NIP)
		helper.CreateBoolean.Emit(b, e, opts)

	case types.IsOnlyBuffer(xt) && sel.Sel == "equals":
		if !arity(1, 1) {
			return
		}
		c.push(b, sel.X, nil)
		helper.GetBuffer.Emit(b, e, opts)
		c.push(b, e.Args[0], nil)
		helper.GetBuffer.Emit(b, e, opts)
		b.EmitOp(e, vm.OP_EQUAL)
		helper.CreateBoolean.Emit(b, e, opts)

	case sel.Sel == "slice" && (types.HasString(xt) || types.HasBuffer(xt)):
		if !arity(0, 2) {
			return
		}
		c.slice(b, e, sel, xt, opts)

	default:
		b.Errorf(e, diag.UnsupportedSyntax, "unsupported method %s on %s", sel.Sel, xt)
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	discard(b, e, opts)
}

// slice compiles x.slice(start, end) for strings and buffers. A
// receiver that may be either is dispatched at run time. Negative
// indexes are not supported; an end before start yields an empty
// result.
func (c *compiler) slice(b *sb.ScriptBuilder, e *ast.CallExpr, sel *ast.SelectorExpr, xt *types.Type, opts sb.VisitOptions) {
	c.push(b, sel.X, nil)
	switch {
	case types.IsOnlyString(xt):
		c.sliceTop(b, e, true, opts)
	case types.IsOnlyBuffer(xt):
		c.sliceTop(b, e, false, opts)
	default:
		helper.ForType{
			Type: xt,
			Types: []helper.TypeCase{
				{
					HasType:       types.HasString,
					IsRuntimeType: func(o sb.VisitOptions) { helper.IsString.Emit(b, e, o) },
					Process:       func(o sb.VisitOptions) { c.sliceTop(b, e, true, o) },
				},
				{
					HasType:       types.HasBuffer,
					IsRuntimeType: func(o sb.VisitOptions) { helper.IsBuffer.Emit(b, e, o) },
					Process:       func(o sb.VisitOptions) { c.sliceTop(b, e, false, o) },
				},
			},
		}.Emit(b, e, opts)
	}
}

// sliceTop slices the string or buffer on top of the stack.
// [x] -> [slice]
func (c *compiler) sliceTop(b *sb.ScriptBuilder, e *ast.CallExpr, str bool, opts sb.VisitOptions) {
	helper.Unwrap.Emit(b, e, opts)
	if len(e.Args) > 0 {
		c.push(b, e.Args[0], nil)
		helper.GetNumber.Emit(b, e, opts)
	} else {
		b.EmitPushInt(e, 0)
	}
	// stack: [start, s]
	if len(e.Args) > 1 {
		c.push(b, e.Args[1], nil)
		helper.GetNumber.Emit(b, e, opts)
	} else {
		b.EmitOp(e, vm.OP_OVER)
		b.EmitOp(e, vm.OP_SIZE)
	}
	// stack: [end, start, s]
	b.EmitOp(e, vm.OP_OVER)
	b.EmitOp(e, vm.OP_SUB)
	b.EmitPushInt(e, 0)
	b.EmitOp(e, vm.OP_MAX)
	b.EmitOp(e, vm.OP_SUBSTR)
	if str {
		helper.CreateString.Emit(b, e, opts)
	} else {
		helper.CreateBuffer.Emit(b, e, opts)
	}
}

func compileNew(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.NewExpr)
	sym := b.SymbolOf(e.Class)
	if sym == nil || sym.Kind != types.SymClass {
		b.Errorf(e, diag.UnsupportedSyntax, "%s can only be created as a contract field initializer", e.Class.Name)
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	cls := sym.Decl.(*ast.ClassDecl)
	helper.NewObject.Emit(b, e, opts)
	if c.plan.NeedsInit(cls) {
		b.EmitOp(e, vm.OP_DUP)
		c.args(b, e, c.plan.InitParams(cls), e.Args)
		b.EmitCall(e, c.initOf(b, cls).label)
		b.EmitOp(e, vm.OP_DROP)
	}
	discard(b, e, opts)
}
