package ast

import (
	"math/big"
	"testing"
)

func TestInspect(t *testing.T) {
	// x = f(1, y.z) + 2
	call := &CallExpr{
		Fun:  &Ident{Name: "f"},
		Args: []Expr{&NumberLit{Value: big.NewInt(1)}, &SelectorExpr{X: &Ident{Name: "y"}, Sel: "z"}},
	}
	stmt := &ExprStmt{X: &AssignExpr{
		Op:     "=",
		Target: &Ident{Name: "x"},
		Value:  &BinaryExpr{Op: "+", X: call, Y: &NumberLit{Value: big.NewInt(2)}},
	}}

	var kinds []Kind
	Inspect(stmt, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindSelector
	})
	want := []Kind{KindExprStmt, KindAssign, KindIdent, KindBinary, KindCall, KindIdent, KindNumber, KindSelector, KindNumber}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("node %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	c := &ClassDecl{Name: "C"}
	c.Members = []Member{
		&MethodDecl{Name: "constructor", MethodKind: Constructor, Class: c},
		&MethodDecl{Name: "x", MethodKind: Getter, Class: c},
		&MethodDecl{Name: "x", MethodKind: Setter, Class: c},
		&PropertyDecl{Name: "y", Mods: ModPrivate, Class: c},
	}
	if got := len(c.Lookup("x")); got != 2 {
		t.Errorf("Lookup(x) returned %d members, want 2", got)
	}
	if got := len(c.Lookup("constructor")); got != 0 {
		t.Errorf("Lookup(constructor) returned %d members, want 0", got)
	}
	if c.Constructor() == nil {
		t.Error("Constructor() = nil")
	}
	if c.Lookup("y")[0].Modifiers().IsPublic() {
		t.Error("private member reported public")
	}
}
