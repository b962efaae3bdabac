package transpile

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/types"
)

// check reports class constructs that have no lowering.
func (p *Plan) check(f *ast.File) {
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.ClassDecl:
			for _, m := range d.Members {
				p.checkMember(d, m)
			}
		case *ast.FuncDecl:
			p.checkAssignments(d.Body, nil)
		}
	}
}

func (p *Plan) checkMember(cls *ast.ClassDecl, m ast.Member) {
	if m.Modifiers().Has(ast.ModStatic) {
		p.diags.Errorf(m, diag.UnsupportedSyntax, "static member %s", m.MemberName())
	}
	md, ok := m.(*ast.MethodDecl)
	if !ok {
		return
	}
	if p.IsContract(cls) && md.MethodKind == ast.Method && md.Name == DeployName {
		p.diags.Errorf(md, diag.UnsupportedSyntax, "%s is reserved for the synthesized deploy function", DeployName)
	}
	if md.MethodKind == ast.Constructor && p.facts.BaseOf(cls) != nil && SuperCall(md) == nil {
		p.diags.Errorf(md, diag.UnsupportedSyntax, "constructor of %s must start with super(...)", cls.Name)
	}
	if md.Body == nil && !md.Mods.Has(ast.ModAbstract) {
		p.diags.Errorf(md, diag.UnsupportedSyntax, "%s has no body", md.Name)
	}
	p.checkAssignments(md.Body, md)
}

// SuperCall returns the super(...) call opening the body of ctor, or
// nil.
func SuperCall(ctor *ast.MethodDecl) *ast.CallExpr {
	if ctor.Body == nil || len(ctor.Body.List) == 0 {
		return nil
	}
	st, ok := ctor.Body.List[0].(*ast.ExprStmt)
	if !ok {
		return nil
	}
	call, ok := st.X.(*ast.CallExpr)
	if !ok {
		return nil
	}
	if _, ok := ast.Unparen(call.Fun).(*ast.SuperExpr); !ok {
		return nil
	}
	return call
}

// checkAssignments reports stores to readonly fields and to accessors
// without a setter. A constructor may assign the readonly fields of
// its own class through this.
func (p *Plan) checkAssignments(body *ast.BlockStmt, in *ast.MethodDecl) {
	if body == nil {
		return
	}
	ast.Inspect(body, func(n ast.Node) bool {
		a, ok := n.(*ast.AssignExpr)
		if !ok {
			return true
		}
		sel, ok := ast.Unparen(a.Target).(*ast.SelectorExpr)
		if !ok {
			return true
		}
		sym := p.facts.SymbolOf(sel)
		if sym == nil || sym.Kind != types.SymMember {
			return true
		}
		switch d := sym.Decl.(type) {
		case *ast.PropertyDecl:
			switch {
			case p.fields[d] == MapField || p.fields[d] == SetField:
				p.diags.Errorf(a, diag.UnsupportedSyntax, "structured storage %s cannot be reassigned", d.Name)
			case d.Mods.Has(ast.ModReadonly) && !ownConstructor(in, d, sel):
				p.diags.Errorf(a, diag.InvalidReadonlyAssignment, "cannot assign to readonly field %s", d.Name)
			}
		case *ast.MethodDecl:
			if d.MethodKind == ast.Getter && !hasSetter(d) {
				p.diags.Errorf(a, diag.InvalidReadonlyAssignment, "cannot assign to %s, it has no setter", d.Name)
			}
		}
		return true
	})
}

func ownConstructor(in *ast.MethodDecl, f *ast.PropertyDecl, sel *ast.SelectorExpr) bool {
	if in == nil || in.MethodKind != ast.Constructor || in.Class != f.Class {
		return false
	}
	_, this := ast.Unparen(sel.X).(*ast.ThisExpr)
	return this
}

func hasSetter(getter *ast.MethodDecl) bool {
	for _, m := range getter.Class.Lookup(getter.Name) {
		if md, ok := m.(*ast.MethodDecl); ok && md.MethodKind == ast.Setter {
			return true
		}
	}
	return false
}
