package helper

import (
	"neochain/compiler/ast"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// ToBoolean converts a value to a raw boolean by JavaScript
// truthiness. [val] -> [bool]
//
// Type narrows the conversion when it is statically known.
type ToBoolean struct{ Type *types.Type }

func (h ToBoolean) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	t := h.Type
	switch {
	case types.IsOnlyBoolean(t):
		GetBoolean.Emit(b, node, opts)
	case types.IsOnlyNumber(t):
		GetNumber.Emit(b, node, opts)
		b.EmitOp(node, vm.OP_NZ)
	case types.IsOnlyString(t) || types.IsOnlyBuffer(t):
		Unwrap.Emit(b, node, opts)
		b.EmitOp(node, vm.OP_SIZE)
		b.EmitOp(node, vm.OP_NZ)
	case types.IsOnly(t, func(m *types.Type) bool { return m.Kind == types.Undefined || m.Kind == types.Null }):
		b.EmitOp(node, vm.OP_DROP)
		b.EmitPushBool(node, false)
	case types.IsOnly(t, func(m *types.Type) bool {
		switch m.Kind {
		case types.Array, types.Tuple, types.Class, types.Lib, types.Interface:
			return true
		}
		return false
	}):
		b.EmitOp(node, vm.OP_DROP)
		b.EmitPushBool(node, true)
	default:
		runtimeToBoolean(b, node)
	}
}

// runtimeToBoolean dispatches on the tag. [val] -> [bool]
func runtimeToBoolean(b *sb.ScriptBuilder, node ast.Node) {
	tagIn := func(tags ...Tag) func() {
		return func() {
			b.EmitOp(node, vm.OP_DUP)
			b.EmitPushInt(node, int64(tags[0]))
			b.EmitOp(node, vm.OP_NUMEQUAL)
			for _, t := range tags[1:] {
				b.EmitOp(node, vm.OP_OVER)
				b.EmitPushInt(node, int64(t))
				b.EmitOp(node, vm.OP_NUMEQUAL)
				b.EmitOp(node, vm.OP_BOOLOR)
			}
		}
	}
	b.EmitOp(node, vm.OP_DUP)
	GetTag.Emit(b, node, sb.VisitOptions{})
	Case{
		Cases: []CaseBranch{
			{
				Condition: tagIn(TagUndefined, TagNull),
				WhenTrue: func() {
					b.EmitOp(node, vm.OP_DROP)
					b.EmitOp(node, vm.OP_DROP)
					b.EmitPushBool(node, false)
				},
			},
			{
				Condition: tagIn(TagBoolean, TagNumber),
				WhenTrue: func() {
					b.EmitOp(node, vm.OP_DROP)
					Unwrap.Emit(b, node, sb.VisitOptions{})
					b.EmitOp(node, vm.OP_NZ)
				},
			},
			{
				Condition: tagIn(TagString, TagBuffer),
				WhenTrue: func() {
					b.EmitOp(node, vm.OP_DROP)
					Unwrap.Emit(b, node, sb.VisitOptions{})
					b.EmitOp(node, vm.OP_SIZE)
					b.EmitOp(node, vm.OP_NZ)
				},
			},
		},
		Default: func() {
			b.EmitOp(node, vm.OP_DROP)
			b.EmitOp(node, vm.OP_DROP)
			b.EmitPushBool(node, true)
		},
	}.Emit(b, node, sb.VisitOptions{})
}

// StrictEquals compares two values with ===. [right, left] -> [bool]
//
// Values are equal when their tags match and their raw items are
// EQUAL; objects and arrays compare by identity.
type StrictEquals struct{ Left, Right *types.Type }

func (h StrictEquals) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	l, r := h.Left, h.Right
	switch {
	case types.IsOnlyNumber(l) && types.IsOnlyNumber(r):
		h.unwrapBoth(b, node)
		b.EmitOp(node, vm.OP_NUMEQUAL)
		return
	case types.IsOnlyString(l) && types.IsOnlyString(r),
		types.IsOnlyBuffer(l) && types.IsOnlyBuffer(r),
		types.IsOnlyBoolean(l) && types.IsOnlyBoolean(r):
		h.unwrapBoth(b, node)
		b.EmitOp(node, vm.OP_EQUAL)
		return
	case types.IsOnlyUndefined(r):
		b.EmitOp(node, vm.OP_DROP)
		IsUndefined.Emit(b, node, opts)
		return
	case types.IsOnlyUndefined(l):
		b.EmitOp(node, vm.OP_NIP)
		IsUndefined.Emit(b, node, opts)
		return
	}
	b.EmitOp(node, vm.OP_OVER)
	GetTag.Emit(b, node, opts)
	b.EmitOp(node, vm.OP_OVER)
	GetTag.Emit(b, node, opts)
	b.EmitOp(node, vm.OP_NUMEQUAL)
	If{
		WhenTrue: func() {
			h.unwrapBoth(b, node)
			b.EmitOp(node, vm.OP_EQUAL)
		},
		WhenFalse: func() {
			b.EmitOp(node, vm.OP_DROP)
			b.EmitOp(node, vm.OP_DROP)
			b.EmitPushBool(node, false)
		},
	}.Emit(b, node, opts)
}

// unwrapBoth replaces the top two values with their raw items.
func (StrictEquals) unwrapBoth(b *sb.ScriptBuilder, node ast.Node) {
	Unwrap.Emit(b, node, sb.VisitOptions{})
	b.EmitOp(node, vm.OP_SWAP)
	Unwrap.Emit(b, node, sb.VisitOptions{})
}

// GenericSerialize encodes a boxed value, tag included, to a byte
// string. [val] -> [bytes]
var GenericSerialize = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.MustSysCall(node, "Neo.Runtime.Serialize")
})

// GenericDeserialize decodes the output of GenericSerialize.
// [bytes] -> [val]
var GenericDeserialize = sb.HelperFunc(func(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.MustSysCall(node, "Neo.Runtime.Deserialize")
})

// ArgumentsArray packs n boxed values, the last pushed on top, into a
// raw array in push order. [vn, ..., v1] -> [arr]
type ArgumentsArray struct{ N int }

func (h ArgumentsArray) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushInt(node, int64(h.N))
	b.EmitOp(node, vm.OP_PACK)
	if h.N > 1 {
		b.EmitOp(node, vm.OP_DUP)
		b.EmitOp(node, vm.OP_REVERSE)
	}
}
