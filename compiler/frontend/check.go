// Package frontend resolves the names and static types of a parsed
// contract source file.
//
// Check produces an Info, which answers the questions code
// generation asks about the syntax tree: the type of an expression,
// the declaration an identifier refers to, the library decorators a
// declaration carries and the references to a declaration.
package frontend

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/types"
)

// Info holds what Check learned about a file.
type Info struct {
	File *ast.File

	// Classes lists the class declarations of the file in source
	// order.
	Classes []*ast.ClassDecl

	types   map[ast.Node]*types.Type
	symbols map[ast.Node]*types.Symbol
	refs    map[ast.Node][]*ast.Ident
	bases   map[*ast.ClassDecl]*ast.ClassDecl
}

// TypeOf returns the static type of n, or nil.
func (info *Info) TypeOf(n ast.Node) *types.Type { return info.types[n] }

// SymbolOf returns the symbol an identifier or member access refers
// to, or nil.
func (info *Info) SymbolOf(n ast.Node) *types.Symbol { return info.symbols[n] }

// References returns the identifiers referring to decl in source
// order.
func (info *Info) References(decl ast.Node) []*ast.Ident { return info.refs[decl] }

// HasDecorator reports whether the class or member decl carries the
// library decorator name.
func (info *Info) HasDecorator(decl ast.Node, name string) bool {
	if !decorators[name] {
		return false
	}
	switch d := decl.(type) {
	case *ast.ClassDecl:
		return ast.HasDecorator(d.Decorators, name)
	case *ast.PropertyDecl:
		return ast.HasDecorator(d.Decorators, name)
	case *ast.MethodDecl:
		return ast.HasDecorator(d.Decorators, name)
	}
	return false
}

// BaseOf returns the user class cls extends, or nil when it extends
// nothing or a library class.
func (info *Info) BaseOf(cls *ast.ClassDecl) *ast.ClassDecl { return info.bases[cls] }

// ExtendsSmartContract reports whether cls derives, directly or
// through user classes, from the SmartContract library class.
func (info *Info) ExtendsSmartContract(cls *ast.ClassDecl) bool {
	for ; cls != nil; cls = info.bases[cls] {
		if cls.Extends != nil && info.symbols[cls.Extends].IsLib(SmartContract) {
			return true
		}
	}
	return false
}

type checker struct {
	info    *Info
	diags   *diag.Sink
	module  *scope
	classes map[string]*ast.ClassDecl
	members map[ast.Member]*types.Symbol

	// results caches the result types of functions and methods and
	// the types of properties. Entries under construction map to nil.
	results map[ast.Node]*types.Type

	fn *funcCtx
}

// funcCtx is the function body being checked.
type funcCtx struct {
	class   *ast.ClassDecl
	scope   *scope
	returns []*types.Type
}

// Check resolves f. Problems are reported to diags; the returned
// Info is complete as far as resolution succeeded.
func Check(f *ast.File, diags *diag.Sink) *Info {
	c := &checker{
		info: &Info{
			File:    f,
			types:   map[ast.Node]*types.Type{},
			symbols: map[ast.Node]*types.Symbol{},
			refs:    map[ast.Node][]*ast.Ident{},
			bases:   map[*ast.ClassDecl]*ast.ClassDecl{},
		},
		diags:   diags,
		classes: map[string]*ast.ClassDecl{},
		members: map[ast.Member]*types.Symbol{},
		results: map[ast.Node]*types.Type{},
	}
	c.module = newScope(newUniverse())
	c.declare(f)
	c.checkAll(f)
	return c.info
}

// declare enters the module level names of f.
func (c *checker) declare(f *ast.File) {
	for _, imp := range f.Imports {
		for _, id := range imp.Names {
			sym := c.module.parent.lookup(id.Name)
			if sym == nil {
				c.diags.Errorf(id, diag.UnknownSymbol, "%s is not exported by the contract library", id.Name)
				continue
			}
			c.info.symbols[id] = sym
		}
	}
	for _, d := range f.Decls {
		var sym *types.Symbol
		switch d := d.(type) {
		case *ast.ClassDecl:
			c.classes[d.Name] = d
			c.info.Classes = append(c.info.Classes, d)
			sym = &types.Symbol{Name: d.Name, Kind: types.SymClass, Decl: d, Type: types.NewClass(d)}
		case *ast.FuncDecl:
			sym = &types.Symbol{Name: d.Name, Kind: types.SymFunc, Decl: d}
		case *ast.VarDecl:
			if !d.Const {
				c.diags.Errorf(d, diag.UnsupportedSyntax, "module level let %s: only const declarations are allowed", d.Name)
			}
			sym = &types.Symbol{Name: d.Name, Kind: types.SymConst, Decl: d}
		}
		if prev := c.module.syms[sym.Name]; prev != nil {
			c.diags.Errorf(d, diag.UnknownSymbol, "%s redeclared", sym.Name)
			continue
		}
		c.module.declare(sym)
	}
	for _, cls := range c.info.Classes {
		c.resolveBase(cls)
	}
}

func (c *checker) resolveBase(cls *ast.ClassDecl) {
	if cls.Extends == nil {
		return
	}
	sym := c.ref(cls.Extends, c.module)
	switch {
	case sym == nil:
		return
	case sym.IsLib(SmartContract):
		return
	case sym.Kind != types.SymClass:
		c.diags.Errorf(cls.Extends, diag.UnsupportedSyntax, "class %s cannot extend %s", cls.Name, sym.Name)
		return
	}
	base := sym.Decl.(*ast.ClassDecl)
	for b := base; b != nil; b = c.info.bases[b] {
		if b == cls {
			c.diags.Errorf(cls.Extends, diag.UnsupportedSyntax, "class %s extends itself", cls.Name)
			return
		}
	}
	c.info.bases[cls] = base
}

func (c *checker) checkAll(f *ast.File) {
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.VarDecl:
			c.constType(d)
		case *ast.FuncDecl:
			c.resultOf(d)
		case *ast.ClassDecl:
			for _, m := range d.Members {
				c.memberType(m)
				if md, ok := m.(*ast.MethodDecl); ok {
					c.checkBody(md, md.Class, md.Params, md.Body)
				}
			}
		}
	}
}

// constType returns the type of a module level const, checking its
// initializer on first use.
func (c *checker) constType(d *ast.VarDecl) *types.Type {
	if t, ok := c.results[d]; ok {
		if t == nil {
			c.diags.Errorf(d, diag.UnknownType, "%s is used in its own initializer", d.Name)
			return types.AnyType
		}
		return t
	}
	c.results[d] = nil
	saved := c.fn
	c.fn = &funcCtx{scope: c.module}
	t := c.varType(d)
	c.fn = saved
	c.results[d] = t
	c.info.types[d] = t
	c.module.syms[d.Name].Type = t
	return t
}

// varType checks the initializer of d and returns its declared or
// inferred type.
func (c *checker) varType(d *ast.VarDecl) *types.Type {
	var it *types.Type
	if d.Init != nil {
		it = c.expr(d.Init)
	}
	if d.Type != nil {
		return c.resolveType(d.Type)
	}
	if it == nil {
		return types.AnyType
	}
	return it
}

// memberType returns the type of a class member: the property type,
// the getter result, the setter parameter or the method result.
func (c *checker) memberType(m ast.Member) *types.Type {
	if t, ok := c.info.types[m]; ok {
		return t
	}
	var t *types.Type
	switch m := m.(type) {
	case *ast.PropertyDecl:
		t = c.propertyType(m)
	case *ast.MethodDecl:
		switch m.MethodKind {
		case ast.Setter:
			t = types.AnyType
			if len(m.Params) == 1 {
				t = c.resolveType(m.Params[0].Type)
			}
		case ast.Constructor:
			t = types.VoidType
		default:
			t = c.resultOf(m)
		}
	}
	c.info.types[m] = t
	return t
}

func (c *checker) propertyType(p *ast.PropertyDecl) *types.Type {
	if p.Type != nil {
		t := c.resolveType(p.Type)
		c.info.types[p] = t
		if p.Init != nil {
			saved := c.fn
			c.fn = &funcCtx{class: p.Class, scope: c.module}
			c.expr(p.Init)
			c.fn = saved
		}
		return t
	}
	if p.Init == nil {
		return types.AnyType
	}
	if t, ok := c.results[p]; ok {
		if t == nil {
			return types.AnyType
		}
		return t
	}
	c.results[p] = nil
	saved := c.fn
	c.fn = &funcCtx{class: p.Class, scope: c.module}
	t := c.expr(p.Init)
	c.fn = saved
	c.results[p] = t
	return t
}

// resultOf returns the result type of a function or method. Without
// an annotation it is the union of the returned values, or void.
func (c *checker) resultOf(decl ast.Node) *types.Type {
	var (
		result *ast.TypeExpr
		class  *ast.ClassDecl
		params []*ast.Param
		body   *ast.BlockStmt
	)
	switch d := decl.(type) {
	case *ast.FuncDecl:
		result, params, body = d.Result, d.Params, d.Body
	case *ast.MethodDecl:
		result, class, params, body = d.Result, d.Class, d.Params, d.Body
	}
	if result != nil {
		t := c.resolveType(result)
		c.checkBody(decl, class, params, body)
		return t
	}
	if t, ok := c.results[decl]; ok {
		if t == nil {
			// Recursive call of a function with an inferred result.
			return types.AnyType
		}
		return t
	}
	return c.checkBody(decl, class, params, body)
}

// checkBody checks a function body once and returns its inferred
// result type.
func (c *checker) checkBody(decl ast.Node, class *ast.ClassDecl, params []*ast.Param, body *ast.BlockStmt) *types.Type {
	if t, ok := c.results[decl]; ok {
		if t == nil {
			return types.AnyType
		}
		return t
	}
	c.results[decl] = nil
	saved := c.fn
	c.fn = &funcCtx{class: class, scope: newScope(c.module)}
	for _, p := range params {
		t := c.resolveType(p.Type)
		c.info.types[p] = t
		c.fn.scope.declare(&types.Symbol{Name: p.Name, Kind: types.SymParam, Decl: p, Type: t})
	}
	if body != nil {
		c.block(body.List)
	}
	t := types.VoidType
	if len(c.fn.returns) > 0 {
		t = types.NewUnion(c.fn.returns...)
	}
	c.fn = saved
	c.results[decl] = t
	return t
}

// statements

func (c *checker) block(list []ast.Stmt) {
	saved := c.fn.scope
	c.fn.scope = newScope(saved)
	for _, s := range list {
		c.stmt(s)
	}
	c.fn.scope = saved
}

func (c *checker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BlockStmt:
		c.block(s.List)
	case *ast.ExprStmt:
		c.expr(s.X)
	case *ast.VarDecl:
		t := c.varType(s)
		c.info.types[s] = t
		if prev := c.fn.scope.syms[s.Name]; prev != nil {
			c.diags.Errorf(s, diag.UnknownSymbol, "%s redeclared in this block", s.Name)
		}
		c.fn.scope.declare(&types.Symbol{Name: s.Name, Kind: types.SymLocal, Decl: s, Type: t})
	case *ast.IfStmt:
		c.expr(s.Cond)
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *ast.WhileStmt:
		c.expr(s.Cond)
		c.stmt(s.Body)
	case *ast.ForStmt:
		saved := c.fn.scope
		c.fn.scope = newScope(saved)
		if s.Init != nil {
			c.stmt(s.Init)
		}
		if s.Cond != nil {
			c.expr(s.Cond)
		}
		if s.Post != nil {
			c.expr(s.Post)
		}
		c.stmt(s.Body)
		c.fn.scope = saved
	case *ast.ReturnStmt:
		if s.Result != nil {
			c.fn.returns = append(c.fn.returns, c.expr(s.Result))
		}
	case *ast.ThrowStmt:
		c.expr(s.X)
	case *ast.BreakStmt, *ast.ContinueStmt:
	}
}
