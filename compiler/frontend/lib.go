package frontend

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/syscall"
	"neochain/compiler/types"
)

// Library declarations visible to every contract.
const (
	SmartContract      = "SmartContract"
	MapStorage         = "MapStorage"
	SetStorage         = "SetStorage"
	Buffer             = "Buffer"
	Address            = "Address"
	Hash256            = "Hash256"
	PublicKey          = "PublicKey"
	Signature          = "Signature"
	CreateEventHandler = "createEventHandler"
	Verify             = "verify"
	Constant           = "constant"
	SysCall            = "syscall"

	// EventHandler is the library type of a createEventHandler
	// result. Its type arguments are the event parameter types.
	EventHandler = "EventHandler"
)

var libNames = []string{
	SmartContract, MapStorage, SetStorage, Buffer, Address, Hash256,
	PublicKey, Signature, CreateEventHandler, Verify, Constant, SysCall,
}

var decorators = map[string]bool{Verify: true, Constant: true}

// brands are the Buffer subtypes with a library name.
var brands = map[string]bool{Address: true, Hash256: true, PublicKey: true, Signature: true}

var interfaces = map[string]bool{}

func init() {
	for _, name := range syscall.Interfaces {
		interfaces[name] = true
	}
}

func newUniverse() *scope {
	s := newScope(nil)
	for _, name := range libNames {
		s.declare(&types.Symbol{Name: name, Kind: types.SymLib, Type: types.NewLib(name)})
	}
	return s
}

// IsEventHandler reports whether t is the type of an event handler
// created by createEventHandler.
func IsEventHandler(t *types.Type) bool {
	return t != nil && t.Kind == types.Lib && t.Name == EventHandler
}

// resolveType converts a type annotation.
func (c *checker) resolveType(te *ast.TypeExpr) *types.Type {
	switch {
	case te == nil:
		return types.AnyType
	case te.Elem != nil:
		return types.NewArray(c.resolveType(te.Elem))
	case te.Tuple != nil:
		elems := make([]*types.Type, len(te.Tuple))
		for i, t := range te.Tuple {
			elems[i] = c.resolveType(t)
		}
		return types.NewTuple(elems...)
	case te.Union != nil:
		var ms []*types.Type
		for _, t := range te.Union {
			ms = append(ms, c.resolveType(t))
		}
		return types.NewUnion(ms...)
	}

	args := make([]*types.Type, len(te.Args))
	for i, a := range te.Args {
		args[i] = c.resolveType(a)
	}
	arity := func(n int) bool {
		if len(args) != n {
			c.diags.Errorf(te, diag.UnknownType, "%s takes %d type arguments, got %d", te.Name, n, len(args))
			return false
		}
		return true
	}
	switch te.Name {
	case "any":
		return types.AnyType
	case "void":
		return types.VoidType
	case "undefined":
		return types.UndefinedType
	case "null":
		return types.NullType
	case "boolean":
		return types.BooleanType
	case "number":
		return types.NumberType
	case "string":
		return types.StringType
	case "symbol":
		return types.SymbolType
	case Buffer:
		return types.BufferType
	case "Array":
		if !arity(1) {
			return types.AnyType
		}
		return types.NewArray(args[0])
	case MapStorage:
		if !arity(2) {
			return types.AnyType
		}
		return types.NewLib(MapStorage, args...)
	case SetStorage:
		if !arity(1) {
			return types.AnyType
		}
		return types.NewLib(SetStorage, args...)
	}
	if brands[te.Name] {
		return types.NewBrand(te.Name)
	}
	if interfaces[te.Name] {
		return types.NewInterface(te.Name)
	}
	if cls, ok := c.classes[te.Name]; ok {
		return types.NewClass(cls)
	}
	c.diags.Errorf(te, diag.UnknownType, "unknown type %s", te.Name)
	return types.AnyType
}

// libCallType returns the result type of a call of a library
// function or a library method.
func libCallType(recv *types.Type, static string, name string, typeArgs []*types.Type) (*types.Type, bool) {
	switch static {
	case Buffer:
		switch name {
		case "from", "concat":
			return types.BufferType, true
		}
	case Address, Hash256, PublicKey, Signature:
		if name == "from" {
			return types.NewBrand(static), true
		}
	case CreateEventHandler:
		return types.NewLib(EventHandler, typeArgs...), true
	}
	if static != "" || recv == nil {
		return nil, false
	}

	switch {
	case types.IsOnlyLib(recv, MapStorage):
		switch name {
		case "get":
			return types.NewUnion(recv.Elems[1], types.UndefinedType), true
		case "has":
			return types.BooleanType, true
		case "set", "delete":
			return types.VoidType, true
		}
	case types.IsOnlyLib(recv, SetStorage):
		switch name {
		case "has":
			return types.BooleanType, true
		case "add", "delete":
			return types.VoidType, true
		}
	case types.IsOnlyBuffer(recv):
		switch name {
		case "equals":
			return types.BooleanType, true
		case "slice":
			return types.BufferType, true
		}
	case types.IsOnlyString(recv):
		if name == "slice" {
			return types.StringType, true
		}
	case types.IsOnlySliceable(recv):
		if name == "slice" {
			return recv, true
		}
	case types.IsOnlyArray(recv):
		switch name {
		case "push":
			return types.NumberType, true
		case "pop":
			return types.NewUnion(types.ArrayElem(recv), types.UndefinedType), true
		case "includes":
			return types.BooleanType, true
		}
	}
	return nil, false
}
