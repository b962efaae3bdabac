// Package helper holds the reusable emission routines of the code
// generator. Each helper documents its stack effect as
// [before] -> [after] with the top of the stack first.
//
// Every value a compiled contract manipulates is boxed: an array whose
// element 0 is the type tag and element 1 the raw VM item. Blockchain
// interface values carry the interface name as a third element.
package helper

import (
	"neochain/compiler/ast"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// Tag is the runtime type tag of a boxed value. The first nine equal
// the corresponding types.Category.
type Tag int64

const (
	TagUndefined           = Tag(types.CatUndefined)
	TagNull                = Tag(types.CatNull)
	TagBoolean             = Tag(types.CatBoolean)
	TagString              = Tag(types.CatString)
	TagSymbol              = Tag(types.CatSymbol)
	TagNumber              = Tag(types.CatNumber)
	TagObject              = Tag(types.CatObject)
	TagBuffer              = Tag(types.CatBuffer)
	TagArray               = Tag(types.CatArray)
	TagBlockchainInterface Tag = 9
)

// TagOf returns the tag a value of category c carries.
func TagOf(c types.Category) Tag { return Tag(c) }

// Create boxes a raw item. [raw] -> [val]
type Create struct{ Tag Tag }

func (h Create) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushInt(node, int64(h.Tag))
	b.EmitPushInt(node, 2)
	b.EmitOp(node, vm.OP_PACK)
}

var (
	CreateBoolean = Create{TagBoolean}
	CreateString  = Create{TagString}
	CreateSymbol  = Create{TagSymbol}
	CreateNumber  = Create{TagNumber}
	CreateObject  = Create{TagObject}
	CreateBuffer  = Create{TagBuffer}
	WrapArray     = Create{TagArray}
)

// CreateUndefined pushes undefined when opts.PushValue is set.
// [] -> [val]
var CreateUndefined = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		return
	}
	b.EmitPushInt(node, 0)
	Create{TagUndefined}.Emit(b, node, opts)
})

// CreateNull pushes null when opts.PushValue is set. [] -> [val]
var CreateNull = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		return
	}
	b.EmitPushInt(node, 0)
	Create{TagNull}.Emit(b, node, opts)
})

// NewObject pushes an object with no fields. [] -> [val]
var NewObject = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitOp(node, vm.OP_NEWMAP)
	CreateObject.Emit(b, node, opts)
})

// Unwrap returns the raw item of a value. [val] -> [raw]
//
// The raw item of a blockchain interface value is its interop handle.
var Unwrap = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushInt(node, 1)
	b.EmitOp(node, vm.OP_PICKITEM)
})

var (
	GetBoolean  = Unwrap
	GetString   = Unwrap
	GetNumber   = Unwrap
	GetBuffer   = Unwrap
	GetObject   = Unwrap
	UnwrapArray = Unwrap
)

// GetTag replaces a value with its tag. [val] -> [tag]
var GetTag = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushInt(node, 0)
	b.EmitOp(node, vm.OP_PICKITEM)
})

// Is tests the tag of a value. [val] -> [bool]
type Is struct{ Tag Tag }

func (h Is) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	GetTag.Emit(b, node, opts)
	b.EmitPushInt(node, int64(h.Tag))
	b.EmitOp(node, vm.OP_NUMEQUAL)
}

var (
	IsUndefined = Is{TagUndefined}
	IsNull      = Is{TagNull}
	IsBoolean   = Is{TagBoolean}
	IsString    = Is{TagString}
	IsSymbol    = Is{TagSymbol}
	IsNumber    = Is{TagNumber}
	IsObject    = Is{TagObject}
	IsBuffer    = Is{TagBuffer}
	IsArray     = Is{TagArray}
)

// IsNullish tests for undefined or null. [val] -> [bool]
var IsNullish = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	GetTag.Emit(b, node, opts)
	b.EmitPushInt(node, int64(TagNull))
	b.EmitOp(node, vm.OP_LTE)
})

// WrapBlockchainInterface boxes an interop handle of the named
// interface. [interop] -> [val]
type WrapBlockchainInterface struct{ Name string }

func (h WrapBlockchainInterface) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushString(node, h.Name)
	b.EmitOp(node, vm.OP_SWAP)
	b.EmitPushInt(node, int64(TagBlockchainInterface))
	b.EmitPushInt(node, 3)
	b.EmitOp(node, vm.OP_PACK)
}

// UnwrapBlockchainInterface returns the interop handle. [val] -> [interop]
var UnwrapBlockchainInterface = Unwrap

// IsBlockchainInterface tests that a value is a handle of the named
// interface. [val] -> [bool]
type IsBlockchainInterface struct{ Name string }

func (h IsBlockchainInterface) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitOp(node, vm.OP_DUP)
	Is{TagBlockchainInterface}.Emit(b, node, opts)
	If{
		WhenTrue: func() {
			b.EmitPushInt(node, 2)
			b.EmitOp(node, vm.OP_PICKITEM)
			b.EmitPushString(node, h.Name)
			b.EmitOp(node, vm.OP_EQUAL)
		},
		WhenFalse: func() {
			b.EmitOp(node, vm.OP_DROP)
			b.EmitPushBool(node, false)
		},
	}.Emit(b, node, opts)
}

// GetProperty reads a field of an object value. [obj] -> [val]
type GetProperty struct{ Name string }

func (h GetProperty) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	GetObject.Emit(b, node, opts)
	b.EmitPushString(node, h.Name)
	b.EmitOp(node, vm.OP_PICKITEM)
}

// SetProperty writes a field of an object value. [obj, val] -> []
type SetProperty struct{ Name string }

func (h SetProperty) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	GetObject.Emit(b, node, opts)
	b.EmitPushString(node, h.Name)
	b.EmitOp(node, vm.OP_ROT)
	b.EmitOp(node, vm.OP_SETITEM)
}

// LoadLocal pushes slot of the current frame. [] -> [val]
//
// The frame is the array on top of the alt stack.
type LoadLocal struct{ Slot int }

func (h LoadLocal) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitOp(node, vm.OP_DUPFROMALTSTACK)
	b.EmitPushInt(node, int64(h.Slot))
	b.EmitOp(node, vm.OP_PICKITEM)
}

// StoreLocal pops a value into slot of the current frame. [val] -> []
type StoreLocal struct{ Slot int }

func (h StoreLocal) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitOp(node, vm.OP_DUPFROMALTSTACK)
	b.EmitPushInt(node, int64(h.Slot))
	b.EmitOp(node, vm.OP_ROT)
	b.EmitOp(node, vm.OP_SETITEM)
}
