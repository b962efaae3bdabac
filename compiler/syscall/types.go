// Package syscall describes the blockchain syscalls available to
// contracts and marshals values between the compiler's boxed
// representation and the raw items the syscalls consume and produce.
//
// A Type knows, for one syscall parameter or result, how to recognise
// a static source type (IsOnlyType, HasType), how to test a value at
// run time (IsRuntimeType) and how to convert in each direction
// (HandleArgument, HandleResult). The native flag selects the storage
// encoding instead of the raw syscall form: natively every value stays
// boxed so that it serializes with its tag.
package syscall

import (
	"fmt"
	"strings"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// Context is the emission site of a marshalling step.
type Context struct {
	B    *sb.ScriptBuilder
	Node ast.Node
	Opts sb.VisitOptions
}

func (c Context) emit(h sb.Helper) { h.Emit(c.B, c.Node, c.Opts) }
func (c Context) op(op vm.Op)      { c.B.EmitOp(c.Node, op) }
func (c Context) with(o sb.VisitOptions) Context {
	c.Opts = o
	return c
}

// Type is a syscall parameter or result type. The set of
// implementations is closed.
type Type interface {
	Name() string

	// IsOnlyType reports whether every value of t is of this type.
	IsOnlyType(t *types.Type) bool

	// HasType reports whether t may hold a value of this type.
	HasType(t *types.Type) bool

	// IsRuntimeType tests the value on top of the stack.
	// [val] -> [bool]
	IsRuntimeType(c Context)

	// HandleArgument converts a boxed value of static type t for
	// passing to a syscall. [val] -> [raw]
	HandleArgument(c Context, t *types.Type, native bool)

	// HandleResult converts a syscall result to a boxed value of the
	// expected type t. [raw] -> [val]
	HandleResult(c Context, t *types.Type, native bool)

	// StaticType is the source type of a result of this type.
	StaticType() *types.Type

	sealed()
}

type voidType struct{}

func (voidType) Name() string                  { return "void" }
func (voidType) IsOnlyType(*types.Type) bool   { return false }
func (voidType) HasType(*types.Type) bool      { return false }
func (voidType) StaticType() *types.Type       { return types.VoidType }
func (voidType) sealed()                       {}
func (voidType) IsRuntimeType(Context)         { panic("syscall: void has no runtime test") }
func (voidType) HandleArgument(Context, *types.Type, bool) {
	panic("syscall: void is not an argument type")
}

func (voidType) HandleResult(c Context, t *types.Type, native bool) {
	c.emit(helper.CreateUndefined)
}

type undefinedType struct{}

func (undefinedType) Name() string                  { return "undefined" }
func (undefinedType) IsOnlyType(t *types.Type) bool { return types.IsOnlyUndefined(t) }
func (undefinedType) HasType(t *types.Type) bool    { return types.HasUndefined(t) }
func (undefinedType) StaticType() *types.Type       { return types.UndefinedType }
func (undefinedType) sealed()                       {}
func (undefinedType) IsRuntimeType(c Context)       { c.emit(helper.IsUndefined) }

func (undefinedType) HandleArgument(c Context, t *types.Type, native bool) {
	if !native {
		c.op(vm.OP_DROP)
		c.B.EmitPushInt(c.Node, 0)
	}
}

func (undefinedType) HandleResult(c Context, t *types.Type, native bool) {
	if !native {
		c.op(vm.OP_DROP)
		c.with(c.Opts.WithPushValue()).emit(helper.CreateUndefined)
	}
}

// primitive is a type whose raw form is the second element of its
// box.
type primitive struct {
	name   string
	tag    helper.Tag
	static *types.Type
	isOnly func(*types.Type) bool
	has    func(*types.Type) bool
}

func (p primitive) Name() string                  { return p.name }
func (p primitive) IsOnlyType(t *types.Type) bool { return p.isOnly(t) }
func (p primitive) HasType(t *types.Type) bool    { return p.has(t) }
func (p primitive) StaticType() *types.Type       { return p.static }
func (primitive) sealed()                         {}
func (p primitive) IsRuntimeType(c Context)       { c.emit(helper.Is{Tag: p.tag}) }

func (p primitive) HandleArgument(c Context, t *types.Type, native bool) {
	if !native {
		c.emit(helper.Unwrap)
	}
}

func (p primitive) HandleResult(c Context, t *types.Type, native bool) {
	if !native {
		c.emit(helper.Create{Tag: p.tag})
	}
}

// interfaceType is an opaque interop handle of a named blockchain
// interface.
type interfaceType struct{ name string }

func (i interfaceType) Name() string                  { return i.name }
func (i interfaceType) IsOnlyType(t *types.Type) bool { return types.IsOnlyInterface(t, i.name) }
func (i interfaceType) HasType(t *types.Type) bool    { return types.HasInterface(t, i.name) }
func (i interfaceType) StaticType() *types.Type       { return types.NewInterface(i.name) }
func (interfaceType) sealed()                         {}

func (i interfaceType) IsRuntimeType(c Context) {
	c.emit(helper.IsBlockchainInterface{Name: i.name})
}

func (i interfaceType) HandleArgument(c Context, t *types.Type, native bool) {
	if native {
		panic(fmt.Sprintf("syscall: %s cannot be stored", i.name))
	}
	c.emit(helper.UnwrapBlockchainInterface)
}

func (i interfaceType) HandleResult(c Context, t *types.Type, native bool) {
	if native {
		panic(fmt.Sprintf("syscall: %s cannot be stored", i.name))
	}
	c.emit(helper.WrapBlockchainInterface{Name: i.name})
}

type arrayType struct{ elem func() Type }

func (a arrayType) Name() string { return "Array<" + a.elem().Name() + ">" }
func (arrayType) sealed()        {}

func (a arrayType) StaticType() *types.Type { return types.NewArray(a.elem().StaticType()) }

func (a arrayType) IsOnlyType(t *types.Type) bool {
	return types.IsOnlyArray(t) && a.elem().IsOnlyType(types.ArrayElem(t))
}

func (a arrayType) HasType(t *types.Type) bool {
	if t == nil || t.Kind == types.Any {
		return true
	}
	for _, m := range types.Members(t) {
		if m.Kind == types.Array && a.elem().HasType(m.Elem) {
			return true
		}
	}
	return false
}

func (a arrayType) IsRuntimeType(c Context) { c.emit(helper.IsArray) }

func (a arrayType) HandleArgument(c Context, t *types.Type, native bool) {
	if native {
		return
	}
	elem := elemOf(t)
	c.emit(helper.UnwrapArray)
	c.emit(helper.ArrMap{Map: func() { a.elem().HandleArgument(c, elem, false) }})
}

func (a arrayType) HandleResult(c Context, t *types.Type, native bool) {
	if native {
		return
	}
	elem := elemOf(t)
	c.emit(helper.ArrMap{Map: func() { a.elem().HandleResult(c, elem, false) }})
	c.emit(helper.WrapArray)
}

func elemOf(t *types.Type) *types.Type {
	if t == nil {
		return nil
	}
	return types.ArrayElem(t)
}

// tupleType decodes fixed-length arrays. It is a result type only.
type tupleType struct{ elem func() Type }

func (tupleType) Name() string            { return "any" }
func (tupleType) sealed()                 {}
func (tupleType) StaticType() *types.Type { return types.AnyType }

func (u tupleType) IsOnlyType(t *types.Type) bool {
	if !types.IsOnlyTuple(t) {
		return false
	}
	for _, m := range types.Members(t) {
		for _, e := range m.Elems {
			if !u.elem().IsOnlyType(e) {
				return false
			}
		}
	}
	return true
}

func (u tupleType) HasType(t *types.Type) bool {
	if t == nil || t.Kind == types.Any {
		return true
	}
	for _, m := range types.Members(t) {
		if m.Kind != types.Tuple {
			continue
		}
		ok := true
		for _, e := range m.Elems {
			ok = ok && u.elem().HasType(e)
		}
		if ok {
			return true
		}
	}
	return false
}

func (tupleType) IsRuntimeType(c Context) { c.emit(helper.IsArray) }

func (tupleType) HandleArgument(c Context, t *types.Type, native bool) {
	c.B.Errorf(c.Node, diag.UnsupportedSyntax, "tuples cannot be passed to a syscall")
}

func (u tupleType) HandleResult(c Context, t *types.Type, native bool) {
	if t == nil || !types.IsOnlyTuple(t) || types.IsUnion(t) {
		c.B.Errorf(c.Node, diag.UnknownType, "syscall result must be cast to a tuple type")
		return
	}
	c.op(vm.OP_UNPACK)
	c.op(vm.OP_DROP)
	c.B.EmitPushInt(c.Node, 0)
	c.op(vm.OP_NEWARRAY)
	for _, e := range t.Elems {
		c.op(vm.OP_DUP)
		c.op(vm.OP_ROT)
		u.elem().HandleResult(c, e, native)
		c.op(vm.OP_APPEND)
	}
	c.emit(helper.WrapArray)
}

type unionType struct{ types []Type }

func (u unionType) Name() string {
	names := make([]string, len(u.types))
	for i, t := range u.types {
		names[i] = t.Name()
	}
	return strings.Join(names, " | ")
}

func (unionType) sealed() {}

func (u unionType) StaticType() *types.Type {
	var ts []*types.Type
	for _, t := range u.types {
		ts = append(ts, t.StaticType())
	}
	return types.NewUnion(ts...)
}

func (u unionType) IsOnlyType(t *types.Type) bool {
	if t == nil || t.Kind == types.Any {
		return false
	}
	for _, m := range types.Members(t) {
		if !u.some(func(v Type) bool { return v.IsOnlyType(m) }) {
			return false
		}
	}
	return true
}

func (u unionType) HasType(t *types.Type) bool {
	if t == nil || t.Kind == types.Any {
		return true
	}
	for _, m := range types.Members(t) {
		if !u.some(func(v Type) bool { return v.HasType(m) }) {
			return false
		}
	}
	return true
}

func (u unionType) some(f func(Type) bool) bool {
	for _, v := range u.types {
		if f(v) {
			return true
		}
	}
	return false
}

// only returns the single member that covers every value of t.
func (u unionType) only(t *types.Type) Type {
	for _, v := range u.types {
		if v.IsOnlyType(t) {
			return v
		}
	}
	return nil
}

func (unionType) IsRuntimeType(Context) { panic("syscall: unions have no runtime test") }

func (u unionType) HandleArgument(c Context, t *types.Type, native bool) {
	if v := u.only(t); v != nil {
		v.HandleArgument(c, t, native)
		return
	}
	if native {
		return
	}
	ladder := helper.ForType{Type: t, Default: func(opts sb.VisitOptions) {
		c.with(opts).emit(helper.GenericSerialize)
	}}
	for _, v := range u.types {
		v := v
		ladder.Types = append(ladder.Types, helper.TypeCase{
			HasType:       v.HasType,
			IsRuntimeType: func(opts sb.VisitOptions) { v.IsRuntimeType(c.with(opts)) },
			Process:       func(opts sb.VisitOptions) { v.HandleArgument(c.with(opts), t, false) },
		})
	}
	c.emit(ladder)
}

func (u unionType) HandleResult(c Context, t *types.Type, native bool) {
	if v := u.only(t); v != nil {
		v.HandleResult(c, t, native)
		return
	}
	if native {
		return
	}
	c.B.Errorf(c.Node, diag.UnknownType, "syscall result must be cast to the expected type")
}

// serializableType is a value that can be written to storage: a
// boolean, string, number, Buffer or array of those.
type serializableType struct {
	serialize  bool
	handleNull bool
	native     bool
}

func (s serializableType) inner() Type {
	return unionType{[]Type{Boolean, String, Number, Buffer, arrayType{s.inner}}}
}

func (serializableType) Name() string                    { return "SerializableValue" }
func (serializableType) sealed()                         {}
func (serializableType) StaticType() *types.Type         { return types.AnyType }
func (s serializableType) IsOnlyType(t *types.Type) bool { return s.inner().IsOnlyType(t) }
func (s serializableType) HasType(t *types.Type) bool    { return s.inner().HasType(t) }
func (s serializableType) IsRuntimeType(c Context)       { s.inner().IsRuntimeType(c) }

func (s serializableType) HandleArgument(c Context, t *types.Type, native bool) {
	s.inner().HandleArgument(c, t, s.native)
	if s.serialize {
		c.B.MustSysCall(c.Node, "Neo.Runtime.Serialize")
	}
}

func (s serializableType) HandleResult(c Context, t *types.Type, native bool) {
	if s.handleNull && types.IsUnion(t) && types.HasUndefined(t) {
		t = types.Without(t, func(m *types.Type) bool { return m.Kind == types.Undefined })
	}
	value := func() {
		if s.serialize {
			c.B.MustSysCall(c.Node, "Neo.Runtime.Deserialize")
		}
		s.inner().HandleResult(c, t, s.native)
	}
	if !s.handleNull {
		value()
		return
	}
	c.emit(helper.If{
		Condition: func() {
			c.op(vm.OP_DUP)
			c.op(vm.OP_SIZE)
			c.B.EmitPushInt(c.Node, 0)
			c.op(vm.OP_NUMEQUAL)
		},
		WhenTrue: func() {
			c.op(vm.OP_DROP)
			c.with(c.Opts.WithPushValue()).emit(helper.CreateUndefined)
		},
		WhenFalse: value,
	})
}

// AddSerialize returns s with storage serialization appended to
// arguments and prepended to results.
func (s serializableType) AddSerialize() serializableType {
	s.serialize = true
	return s
}

// HandleNull returns s with the empty byte string decoded as
// undefined.
func (s serializableType) HandleNull() serializableType {
	s.handleNull = true
	return s
}

// Raw returns s marshalling to raw syscall items instead of boxed
// values.
func (s serializableType) Raw() serializableType {
	s.native = false
	return s
}

var (
	Void      Type = voidType{}
	Undefined Type = undefinedType{}
	Number    Type = primitive{"number", helper.TagNumber, types.NumberType, types.IsOnlyNumber, types.HasNumber}
	String    Type = primitive{"string", helper.TagString, types.StringType, types.IsOnlyString, types.HasString}
	Boolean   Type = primitive{"boolean", helper.TagBoolean, types.BooleanType, types.IsOnlyBoolean, types.HasBoolean}
	Buffer    Type = primitive{"Buffer", helper.TagBuffer, types.BufferType, types.IsOnlyBuffer, types.HasBuffer}

	Serializable = serializableType{native: true}
)

// Interface returns the handle type of a blockchain interface.
func Interface(name string) Type { return interfaceType{name} }

// Array returns the array type with elements of elem.
func Array(elem Type) Type { return arrayType{func() Type { return elem }} }

// Tuple returns the tuple type whose elements are all of elem.
func Tuple(elem Type) Type { return tupleType{func() Type { return elem }} }

// Union returns the type holding a value of any of ts.
func Union(ts ...Type) Type { return unionType{ts} }
