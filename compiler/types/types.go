// Package types describes the static types the front end resolves
// for expressions, and the symbols identifiers refer to.
package types

import (
	"strings"

	"neochain/compiler/ast"
)

// Kind is the shape of a Type.
type Kind int

const (
	Any Kind = iota // unresolved
	Void
	Undefined
	Null
	Boolean
	Number
	String
	ESSymbol  // ECMAScript symbol primitive
	Buffer    // Name holds a brand (Address, Hash256, ...) if any
	Array     // Elem
	Tuple     // Elems
	Union     // Elems, flattened, at least two
	Class     // user class instance; Class
	Lib       // library object; Name and Elems as type arguments
	Interface // opaque blockchain interface; Name
)

// Type is a static type. Types are compared structurally with
// Identical, never by pointer.
type Type struct {
	Kind  Kind
	Name  string
	Elem  *Type
	Elems []*Type
	Class *ast.ClassDecl
}

var (
	AnyType       = &Type{Kind: Any}
	VoidType      = &Type{Kind: Void}
	UndefinedType = &Type{Kind: Undefined}
	NullType      = &Type{Kind: Null}
	BooleanType   = &Type{Kind: Boolean}
	NumberType    = &Type{Kind: Number}
	StringType    = &Type{Kind: String}
	SymbolType    = &Type{Kind: ESSymbol}
	BufferType    = &Type{Kind: Buffer}
)

// NewBrand returns a Buffer type carrying the given brand name.
func NewBrand(name string) *Type { return &Type{Kind: Buffer, Name: name} }

func NewArray(elem *Type) *Type { return &Type{Kind: Array, Elem: elem} }

func NewTuple(elems ...*Type) *Type { return &Type{Kind: Tuple, Elems: elems} }

func NewClass(c *ast.ClassDecl) *Type { return &Type{Kind: Class, Name: c.Name, Class: c} }

func NewLib(name string, args ...*Type) *Type { return &Type{Kind: Lib, Name: name, Elems: args} }

func NewInterface(name string) *Type { return &Type{Kind: Interface, Name: name} }

// NewUnion returns the union of ts, flattening nested unions and
// dropping duplicates. A union of one type is that type, and a union
// with an unknown member is unknown.
func NewUnion(ts ...*Type) *Type {
	for _, t := range ts {
		if t == nil || t.Kind == Any {
			return AnyType
		}
	}
	var elems []*Type
	add := func(t *Type) {
		for _, e := range elems {
			if Identical(e, t) {
				return
			}
		}
		elems = append(elems, t)
	}
	for _, t := range ts {
		for _, m := range Members(t) {
			add(m)
		}
	}
	switch len(elems) {
	case 0:
		return AnyType
	case 1:
		return elems[0]
	}
	return &Type{Kind: Union, Elems: elems}
}

// Members returns the members of a union, or t itself.
func Members(t *Type) []*Type {
	if t == nil {
		return nil
	}
	if t.Kind == Union {
		return t.Elems
	}
	return []*Type{t}
}

// Identical reports whether a and b denote the same type.
func Identical(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind || a.Name != b.Name || a.Class != b.Class {
		return false
	}
	if (a.Elem == nil) != (b.Elem == nil) || (a.Elem != nil && !Identical(a.Elem, b.Elem)) {
		return false
	}
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	if a.Kind == Union {
		for _, x := range a.Elems {
			found := false
			for _, y := range b.Elems {
				if Identical(x, y) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	for i := range a.Elems {
		if !Identical(a.Elems[i], b.Elems[i]) {
			return false
		}
	}
	return true
}

// Without returns t with the members matching drop removed.
func Without(t *Type, drop func(*Type) bool) *Type {
	var keep []*Type
	for _, m := range Members(t) {
		if !drop(m) {
			keep = append(keep, m)
		}
	}
	if len(keep) == 0 {
		return t
	}
	return NewUnion(keep...)
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Any:
		return "any"
	case Void:
		return "void"
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case ESSymbol:
		return "symbol"
	case Buffer:
		if t.Name != "" {
			return t.Name
		}
		return "Buffer"
	case Array:
		if t.Elem.Kind == Union {
			return "(" + t.Elem.String() + ")[]"
		}
		return t.Elem.String() + "[]"
	case Tuple:
		return "[" + join(t.Elems, ", ") + "]"
	case Union:
		return join(t.Elems, " | ")
	case Lib:
		if len(t.Elems) > 0 {
			return t.Name + "<" + join(t.Elems, ", ") + ">"
		}
		return t.Name
	}
	return t.Name
}

func join(ts []*Type, sep string) string {
	var parts []string
	for _, t := range ts {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, sep)
}
