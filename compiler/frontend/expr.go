package frontend

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/syscall"
	"neochain/compiler/types"
)

func (c *checker) scope() *scope {
	if c.fn != nil {
		return c.fn.scope
	}
	return c.module
}

// ref resolves id in s and records the reference.
func (c *checker) ref(id *ast.Ident, s *scope) *types.Symbol {
	sym := s.lookup(id.Name)
	if sym == nil {
		c.diags.Errorf(id, diag.UnknownSymbol, "undefined: %s", id.Name)
		return nil
	}
	c.info.symbols[id] = sym
	if sym.Decl != nil {
		c.info.refs[sym.Decl] = append(c.info.refs[sym.Decl], id)
	}
	return sym
}

// expr checks e and records its type.
func (c *checker) expr(e ast.Expr) *types.Type {
	t := c.exprType(e)
	if t == nil {
		t = types.AnyType
	}
	c.info.types[e] = t
	return t
}

func (c *checker) exprs(es []ast.Expr) []*types.Type {
	ts := make([]*types.Type, len(es))
	for i, e := range es {
		ts[i] = c.expr(e)
	}
	return ts
}

func (c *checker) exprType(e ast.Expr) *types.Type {
	switch e := e.(type) {
	case *ast.NumberLit:
		return types.NumberType
	case *ast.StringLit:
		return types.StringType
	case *ast.BoolLit:
		return types.BooleanType
	case *ast.NullLit:
		return types.NullType
	case *ast.UndefinedLit:
		return types.UndefinedType
	case *ast.ArrayLit:
		if len(e.Elems) == 0 {
			return types.NewArray(types.AnyType)
		}
		return types.NewArray(types.NewUnion(c.exprs(e.Elems)...))
	case *ast.Ident:
		sym := c.ref(e, c.scope())
		if sym == nil {
			return types.AnyType
		}
		switch sym.Kind {
		case types.SymConst:
			return c.constType(sym.Decl.(*ast.VarDecl))
		case types.SymFunc, types.SymClass:
			return types.AnyType
		}
		return sym.Type
	case *ast.ThisExpr:
		if c.fn == nil || c.fn.class == nil {
			c.diags.Errorf(e, diag.UnsupportedSyntax, "this outside of a class")
			return types.AnyType
		}
		return types.NewClass(c.fn.class)
	case *ast.SuperExpr:
		if c.fn == nil || c.fn.class == nil || c.fn.class.Extends == nil {
			c.diags.Errorf(e, diag.UnsupportedSyntax, "super outside of a derived class")
			return types.AnyType
		}
		if base := c.info.bases[c.fn.class]; base != nil {
			return types.NewClass(base)
		}
		return types.AnyType
	case *ast.SelectorExpr:
		return c.selector(e)
	case *ast.IndexExpr:
		xt := c.expr(e.X)
		c.expr(e.Index)
		switch {
		case types.IsOnlyArray(xt):
			return types.ArrayElem(xt)
		case xt.Kind == types.Tuple:
			if lit, ok := e.Index.(*ast.NumberLit); ok && lit.Value.IsInt64() {
				if i := lit.Value.Int64(); i >= 0 && i < int64(len(xt.Elems)) {
					return xt.Elems[i]
				}
			}
		case types.IsOnlyBuffer(xt):
			return types.NumberType
		}
		return types.AnyType
	case *ast.CallExpr:
		return c.call(e)
	case *ast.NewExpr:
		return c.newExpr(e)
	case *ast.UnaryExpr:
		c.expr(e.X)
		if e.Op == "!" {
			return types.BooleanType
		}
		return types.NumberType
	case *ast.BinaryExpr:
		xt, yt := c.expr(e.X), c.expr(e.Y)
		switch e.Op {
		case "&&", "||":
			return types.NewUnion(xt, yt)
		case "+":
			if types.IsOnlyString(xt) || types.IsOnlyString(yt) {
				return types.StringType
			}
			return types.NumberType
		case "-", "*", "/", "%":
			return types.NumberType
		}
		return types.BooleanType
	case *ast.AssignExpr:
		c.expr(e.Target)
		return c.expr(e.Value)
	case *ast.CondExpr:
		c.expr(e.Cond)
		return types.NewUnion(c.expr(e.Then), c.expr(e.Else))
	case *ast.AsExpr:
		c.expr(e.X)
		return c.resolveType(e.Type)
	case *ast.ParenExpr:
		return c.expr(e.X)
	}
	return types.AnyType
}

func classOf(t *types.Type) *ast.ClassDecl {
	if t != nil && t.Kind == types.Class {
		return t.Class
	}
	return nil
}

// findMember looks name up in cls and its base classes.
func (c *checker) findMember(cls *ast.ClassDecl, name string) []ast.Member {
	for ; cls != nil; cls = c.info.bases[cls] {
		if ms := cls.Lookup(name); len(ms) > 0 {
			return ms
		}
	}
	return nil
}

// memberSym returns the symbol of a member name. Of an accessor pair
// the getter stands for both.
func (c *checker) memberSym(ms []ast.Member) *types.Symbol {
	m := ms[0]
	for _, x := range ms {
		if md, ok := x.(*ast.MethodDecl); ok && md.MethodKind == ast.Getter {
			m = x
		}
	}
	if sym, ok := c.members[m]; ok {
		return sym
	}
	sym := &types.Symbol{Name: m.MemberName(), Kind: types.SymMember, Decl: m}
	c.members[m] = sym
	sym.Type = c.memberType(m)
	return sym
}

func (c *checker) selector(e *ast.SelectorExpr) *types.Type {
	xt := c.expr(e.X)
	if cls := classOf(xt); cls != nil {
		ms := c.findMember(cls, e.Sel)
		if len(ms) == 0 {
			c.diags.Errorf(e, diag.UnknownSymbol, "%s has no member %s", cls.Name, e.Sel)
			return types.AnyType
		}
		sym := c.memberSym(ms)
		c.info.symbols[e] = sym
		return sym.Type
	}
	if e.Sel == "length" && types.IsOnlySized(xt) {
		return types.NumberType
	}
	return types.AnyType
}

func (c *checker) typeArgs(tes []*ast.TypeExpr) []*types.Type {
	ts := make([]*types.Type, len(tes))
	for i, te := range tes {
		ts[i] = c.resolveType(te)
	}
	return ts
}

func (c *checker) call(e *ast.CallExpr) *types.Type {
	fun := ast.Unparen(e.Fun)
	ft := c.expr(fun)
	c.exprs(e.Args)
	typeArgs := c.typeArgs(e.TypeArgs)

	switch fun := fun.(type) {
	case *ast.Ident:
		sym := c.info.symbols[fun]
		switch {
		case sym == nil:
		case sym.IsLib(SysCall):
			return sysCallType(e)
		case sym.Kind == types.SymLib:
			if t, ok := libCallType(nil, sym.Name, "", typeArgs); ok {
				return t
			}
		case sym.Kind == types.SymFunc:
			return c.resultOf(sym.Decl)
		case IsEventHandler(ft):
			return types.VoidType
		}
	case *ast.SuperExpr:
		return types.VoidType
	case *ast.SelectorExpr:
		if sym := c.info.symbols[fun]; sym != nil && sym.Kind == types.SymMember {
			return sym.Type
		}
		var static string
		if id, ok := ast.Unparen(fun.X).(*ast.Ident); ok {
			if sym := c.info.symbols[id]; sym != nil && sym.Kind == types.SymLib {
				static = sym.Name
			}
		}
		if t, ok := libCallType(c.info.types[fun.X], static, fun.Sel, typeArgs); ok {
			return t
		}
	}
	return types.AnyType
}

// sysCallType is the static result type of syscall('name', ...).
// Problems with the name are reported by code generation.
func sysCallType(e *ast.CallExpr) *types.Type {
	if len(e.Args) == 0 {
		return types.AnyType
	}
	lit, ok := e.Args[0].(*ast.StringLit)
	if !ok {
		return types.AnyType
	}
	s, ok := syscall.Lookup(lit.Value)
	if !ok {
		return types.AnyType
	}
	return s.Result.StaticType()
}

func (c *checker) newExpr(e *ast.NewExpr) *types.Type {
	sym := c.ref(e.Class, c.scope())
	c.exprs(e.Args)
	args := c.typeArgs(e.TypeArgs)
	pad := func(n int) []*types.Type {
		for len(args) < n {
			args = append(args, types.AnyType)
		}
		return args[:n]
	}
	switch {
	case sym == nil:
		return types.AnyType
	case sym.IsLib(MapStorage):
		return types.NewLib(MapStorage, pad(2)...)
	case sym.IsLib(SetStorage):
		return types.NewLib(SetStorage, pad(1)...)
	case sym.Kind == types.SymClass:
		cls := sym.Decl.(*ast.ClassDecl)
		if c.info.ExtendsSmartContract(cls) {
			c.diags.Errorf(e, diag.UnsupportedSyntax, "contract %s cannot be instantiated", cls.Name)
		}
		return types.NewClass(cls)
	}
	c.diags.Errorf(e, diag.UnsupportedSyntax, "cannot instantiate %s", sym.Name)
	return types.AnyType
}
