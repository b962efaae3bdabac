// Package ast declares the syntax tree of contract source files.
//
// Nodes are addressed by pointer identity: the front end records
// types and symbols per node, and diagnostics and the source map
// refer back to node positions.
package ast

import (
	"fmt"
	"math/big"
)

// Pos is a source position. Lines start at 1, columns at 0.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Pos
	Kind() Kind
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Modifier is a set of declaration modifiers.
type Modifier uint8

const (
	ModExport Modifier = 1 << iota
	ModPublic
	ModPrivate
	ModProtected
	ModReadonly
	ModStatic
	ModAbstract
)

// Has reports whether all of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// IsPublic reports whether a class member with modifiers m is
// visible from outside the class.
func (m Modifier) IsPublic() bool { return m&(ModPrivate|ModProtected) == 0 }

// Decorator is an @name annotation on a class or member.
type Decorator struct {
	At   Pos
	Name string
}

// TypeExpr is a type annotation. Exactly one of Name, Elem, Tuple
// and Union is set.
type TypeExpr struct {
	At    Pos
	Name  string
	Args  []*TypeExpr // type arguments of Name
	Elem  *TypeExpr   // Elem[]
	Tuple []*TypeExpr // [A, B]
	Union []*TypeExpr // A | B
}

func (t *TypeExpr) String() string {
	switch {
	case t == nil:
		return ""
	case t.Elem != nil:
		return t.Elem.String() + "[]"
	case t.Tuple != nil:
		return "[" + joinTypes(t.Tuple, ", ") + "]"
	case t.Union != nil:
		return joinTypes(t.Union, " | ")
	case len(t.Args) > 0:
		return t.Name + "<" + joinTypes(t.Args, ", ") + ">"
	}
	return t.Name
}

func joinTypes(ts []*TypeExpr, sep string) string {
	var s string
	for i, t := range ts {
		if i > 0 {
			s += sep
		}
		s += t.String()
	}
	return s
}

// File is a parsed source file.
type File struct {
	Name    string
	Imports []*ImportDecl
	Decls   []Node // *ClassDecl, *FuncDecl or *VarDecl
}

// ImportDecl is import { a, b } from 'path'.
type ImportDecl struct {
	At    Pos
	Names []*Ident
	From  string
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	At         Pos
	Name       string
	Extends    *Ident
	Mods       Modifier
	Decorators []*Decorator
	Members    []Member
}

// Member is a *PropertyDecl or a *MethodDecl.
type Member interface {
	Node
	MemberName() string
	Modifiers() Modifier
	Owner() *ClassDecl
	memberNode()
}

// PropertyDecl is a class field.
type PropertyDecl struct {
	At         Pos
	Name       string
	Mods       Modifier
	Decorators []*Decorator
	Type       *TypeExpr
	Init       Expr
	Class      *ClassDecl

	// Param is set when the property was declared as a constructor
	// parameter property.
	Param *Param
}

// MethodKind distinguishes ordinary methods from constructors and
// accessors.
type MethodKind int

const (
	Method MethodKind = iota
	Constructor
	Getter
	Setter
)

// MethodDecl is a method, constructor or accessor.
type MethodDecl struct {
	At         Pos
	Name       string
	MethodKind MethodKind
	Mods       Modifier
	Decorators []*Decorator
	Params     []*Param
	Result     *TypeExpr
	Body       *BlockStmt
	Class      *ClassDecl
}

// Param is a function or method parameter.
type Param struct {
	At   Pos
	Name string
	Mods Modifier // parameter properties only
	Type *TypeExpr
}

// FuncDecl is a top-level function.
type FuncDecl struct {
	At     Pos
	Name   string
	Mods   Modifier
	Params []*Param
	Result *TypeExpr
	Body   *BlockStmt
}

// VarDecl is a const or let declaration, at top level or in a block.
type VarDecl struct {
	At    Pos
	Const bool
	Name  string
	Mods  Modifier
	Type  *TypeExpr
	Init  Expr
}

type (
	BlockStmt struct {
		At   Pos
		List []Stmt
	}

	ExprStmt struct {
		X Expr
	}

	IfStmt struct {
		At   Pos
		Cond Expr
		Then Stmt
		Else Stmt // or nil
	}

	WhileStmt struct {
		At   Pos
		Cond Expr
		Body Stmt
	}

	// ForStmt is for (Init; Cond; Post) Body. Any of Init, Cond and
	// Post may be nil.
	ForStmt struct {
		At   Pos
		Init Stmt
		Cond Expr
		Post Expr
		Body Stmt
	}

	ReturnStmt struct {
		At     Pos
		Result Expr // or nil
	}

	ThrowStmt struct {
		At Pos
		X  Expr
	}

	BreakStmt struct {
		At Pos
	}

	ContinueStmt struct {
		At Pos
	}
)

type (
	Ident struct {
		At   Pos
		Name string
	}

	ThisExpr struct {
		At Pos
	}

	SuperExpr struct {
		At Pos
	}

	NumberLit struct {
		At    Pos
		Value *big.Int
	}

	StringLit struct {
		At    Pos
		Value string
	}

	BoolLit struct {
		At    Pos
		Value bool
	}

	NullLit struct {
		At Pos
	}

	UndefinedLit struct {
		At Pos
	}

	ArrayLit struct {
		At    Pos
		Elems []Expr
	}

	// SelectorExpr is X.Sel.
	SelectorExpr struct {
		X     Expr
		Sel   string
		SelAt Pos
	}

	// IndexExpr is X[Index].
	IndexExpr struct {
		X     Expr
		Index Expr
	}

	CallExpr struct {
		Fun      Expr
		TypeArgs []*TypeExpr
		Args     []Expr
	}

	NewExpr struct {
		At       Pos
		Class    *Ident
		TypeArgs []*TypeExpr
		Args     []Expr
	}

	UnaryExpr struct {
		At Pos
		Op string
		X  Expr
	}

	BinaryExpr struct {
		Op string
		X  Expr
		Y  Expr
	}

	// AssignExpr is Target Op Value where Op is =, += or -=.
	AssignExpr struct {
		Op     string
		Target Expr
		Value  Expr
	}

	CondExpr struct {
		Cond Expr
		Then Expr
		Else Expr
	}

	// AsExpr is X as Type.
	AsExpr struct {
		X    Expr
		Type *TypeExpr
	}

	ParenExpr struct {
		At Pos
		X  Expr
	}
)
