package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// dispatchClass returns the class member lookups on recv start from.
// Members reached through this inside the contract chain bind to the
// most derived override in the contract; members reached through
// super bind to the base class; everything else binds statically.
func (c *compiler) dispatchClass(b *sb.ScriptBuilder, recv ast.Expr, declared *ast.ClassDecl, opts sb.VisitOptions) *ast.ClassDecl {
	x := ast.Unparen(recv)
	if _, ok := x.(*ast.ThisExpr); ok && c.cur != nil && c.plan.IsContract(c.cur.class) {
		return c.plan.Contract
	}
	if _, ok := x.(*ast.SuperExpr); ok {
		if base, _ := c.superBase(b, x, opts); base != nil {
			return base
		}
		return declared
	}
	if t := b.TypeOf(x); t != nil && t.Kind == types.Class && t.Class != nil {
		return t.Class
	}
	return declared
}

// findMethod looks up the method of the given kind named name in cls
// and its bases.
func (c *compiler) findMethod(cls *ast.ClassDecl, name string, kind ast.MethodKind) *ast.MethodDecl {
	for ; cls != nil; cls = c.facts.BaseOf(cls) {
		for _, m := range cls.Lookup(name) {
			if md, ok := m.(*ast.MethodDecl); ok && md.MethodKind == kind {
				return md
			}
		}
	}
	return nil
}

func compileSelector(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.SelectorExpr)
	sym := b.SymbolOf(e)
	if sym == nil || sym.Kind != types.SymMember {
		if e.Sel == "length" && !opts.SetValue {
			c.length(b, e, opts)
			return
		}
		b.Errorf(e, diag.UnsupportedSyntax, "unsupported member access .%s", e.Sel)
		if opts.SetValue {
			b.EmitOp(e, vm.OP_DROP)
		}
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}

	switch d := sym.Decl.(type) {
	case *ast.PropertyDecl:
		c.property(b, e, d, opts)
	case *ast.MethodDecl:
		if d.MethodKind == ast.Method {
			b.Errorf(e, diag.UnsupportedSyntax, "method %s can only be called", d.Name)
			helper.CreateUndefined.Emit(b, e, opts)
			return
		}
		c.accessor(b, e, d, opts)
	}
}

func (c *compiler) property(b *sb.ScriptBuilder, e *ast.SelectorExpr, d *ast.PropertyDecl, opts sb.VisitOptions) {
	object := c.plan.Field(d) == transpile.ObjectField
	if opts.SetValue {
		c.storeField(b, e, d, func() { c.push(b, e.X, nil) })
		return
	}
	if !opts.PushValue {
		if object {
			b.Visit(e.X, sb.VisitOptions{})
		}
		return
	}
	if object {
		c.push(b, e.X, nil)
	}
	c.loadField(b, e, d)
}

// accessor calls the getter or setter named by e.
func (c *compiler) accessor(b *sb.ScriptBuilder, e *ast.SelectorExpr, d *ast.MethodDecl, opts sb.VisitOptions) {
	cls := c.dispatchClass(b, e.X, d.Class, opts)
	if opts.SetValue {
		set := c.findMethod(cls, d.Name, ast.Setter)
		if set == nil {
			b.Errorf(e, diag.InvalidReadonlyAssignment, "%s has no setter", d.Name)
			b.EmitOp(e, vm.OP_DROP)
			return
		}
		c.push(b, e.X, nil)
		b.EmitOp(e, vm.OP_SWAP)
		helper.ArgumentsArray{N: 1}.Emit(b, e, opts)
		b.EmitCall(e, c.method(b, set).label)
		b.EmitOp(e, vm.OP_DROP)
		return
	}
	get := c.findMethod(cls, d.Name, ast.Getter)
	if get == nil {
		b.Errorf(e, diag.UnsupportedSyntax, "%s has no getter", d.Name)
		helper.CreateUndefined.Emit(b, e, opts)
		return
	}
	c.push(b, e.X, nil)
	helper.ArgumentsArray{N: 0}.Emit(b, e, opts)
	b.EmitCall(e, c.method(b, get).label)
	discard(b, e, opts)
}

// length compiles the length of an array, string or buffer.
func (c *compiler) length(b *sb.ScriptBuilder, e *ast.SelectorExpr, opts sb.VisitOptions) {
	xt := b.TypeOf(e.X)
	c.push(b, e.X, nil)
	size := func(op vm.Op) func(sb.VisitOptions) {
		return func(sb.VisitOptions) {
			helper.Unwrap.Emit(b, e, opts)
			b.EmitOp(e, op)
			helper.CreateNumber.Emit(b, e, opts)
		}
	}
	switch {
	case types.IsOnlyArray(xt) || types.IsOnlyTuple(xt):
		size(vm.OP_ARRAYSIZE)(opts)
	case types.IsOnlyString(xt) || types.IsOnlyBuffer(xt):
		size(vm.OP_SIZE)(opts)
	default:
		is := func(h sb.Helper) func(sb.VisitOptions) {
			return func(o sb.VisitOptions) { h.Emit(b, e, o) }
		}
		helper.ForType{
			Types: []helper.TypeCase{
				{HasType: types.HasArray, IsRuntimeType: is(helper.IsArray), Process: size(vm.OP_ARRAYSIZE)},
				{HasType: types.HasString, IsRuntimeType: is(helper.IsString), Process: size(vm.OP_SIZE)},
				{HasType: types.HasBuffer, IsRuntimeType: is(helper.IsBuffer), Process: size(vm.OP_SIZE)},
			},
		}.Emit(b, e, opts)
	}
	discard(b, e, opts)
}
