package ast

// Inspect traverses the tree rooted at n in depth-first order,
// calling f for each node. If f returns false, the children of that
// node are skipped. Type annotations are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *ClassDecl:
		if n.Extends != nil {
			Inspect(n.Extends, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *PropertyDecl:
		inspectExpr(n.Init, f)
	case *MethodDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *FuncDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		Inspect(n.Body, f)
	case *VarDecl:
		inspectExpr(n.Init, f)
	case *ImportDecl:
		for _, id := range n.Names {
			Inspect(id, f)
		}

	case *BlockStmt:
		for _, s := range n.List {
			Inspect(s, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		inspectStmt(n.Else, f)
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *ForStmt:
		inspectStmt(n.Init, f)
		inspectExpr(n.Cond, f)
		inspectExpr(n.Post, f)
		Inspect(n.Body, f)
	case *ReturnStmt:
		inspectExpr(n.Result, f)
	case *ThrowStmt:
		Inspect(n.X, f)

	case *ArrayLit:
		for _, e := range n.Elems {
			Inspect(e, f)
		}
	case *SelectorExpr:
		Inspect(n.X, f)
	case *IndexExpr:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *CallExpr:
		Inspect(n.Fun, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *NewExpr:
		Inspect(n.Class, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *UnaryExpr:
		Inspect(n.X, f)
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *AssignExpr:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CondExpr:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *AsExpr:
		Inspect(n.X, f)
	case *ParenExpr:
		Inspect(n.X, f)
	}
}

// Nil interface values holding typed nil pointers would otherwise
// reach f.
func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

// Unparen strips any enclosing parentheses from e.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// HasDecorator reports whether ds contains @name.
func HasDecorator(ds []*Decorator, name string) bool {
	for _, d := range ds {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Constructor returns the constructor declared directly in c, if any.
func (c *ClassDecl) Constructor() *MethodDecl {
	for _, m := range c.Members {
		if md, ok := m.(*MethodDecl); ok && md.MethodKind == Constructor {
			return md
		}
	}
	return nil
}

// Lookup returns the members of c named name. A getter and setter
// pair yields two members.
func (c *ClassDecl) Lookup(name string) []Member {
	var res []Member
	for _, m := range c.Members {
		if m.MemberName() == name {
			if md, ok := m.(*MethodDecl); ok && md.MethodKind == Constructor {
				continue
			}
			res = append(res, m)
		}
	}
	return res
}
