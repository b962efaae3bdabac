package types

import "neochain/compiler/ast"

// SymbolKind says what an identifier refers to.
type SymbolKind int

const (
	SymLocal  SymbolKind = iota // let/const inside a function body
	SymParam                    // function or method parameter
	SymConst                    // module level const
	SymFunc                     // module level function
	SymClass                    // user class
	SymMember                   // class member, reached through a selector
	SymLib                      // contract library declaration
)

// Symbol is the declaration an identifier or member access resolves
// to. Two references denote the same declaration iff they share the
// *Symbol.
type Symbol struct {
	Name string
	Kind SymbolKind

	// Decl is the declaring node: *ast.VarDecl, *ast.Param,
	// *ast.FuncDecl, *ast.ClassDecl or an ast.Member. It is nil for
	// library symbols.
	Decl ast.Node

	// Type is the declared or inferred type of the symbol's value.
	Type *Type
}

// IsLib reports whether s is the library declaration name.
func (s *Symbol) IsLib(name string) bool {
	return s != nil && s.Kind == SymLib && s.Name == name
}
