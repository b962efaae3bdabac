package helper

import (
	"neochain/compiler/ast"
	"neochain/compiler/sb"
	"neochain/protocol/vm"
)

// The iteration helpers keep their index and the source array on the
// stack under the element being processed. A callback that needs an
// item pushed before the helper ran finds it at PICK 3.

// loopHead emits the bounds check of an index loop over the array at
// depth arr below the index. [i, ...] -> [i, ...]
func loopHead(b *sb.ScriptBuilder, node ast.Node, arr int64, exit sb.Label) {
	b.EmitOp(node, vm.OP_DUP)
	b.EmitPushInt(node, arr+1)
	b.EmitOp(node, vm.OP_PICK)
	b.EmitOp(node, vm.OP_ARRAYSIZE)
	b.EmitOp(node, vm.OP_LT)
	b.EmitJump(node, vm.OP_JMPIFNOT, exit)
}

// loopElem pushes arr[i]. [i, ...] -> [elem, i, ...]
func loopElem(b *sb.ScriptBuilder, node ast.Node, arr int64) {
	b.EmitOp(node, vm.OP_DUP)
	b.EmitPushInt(node, arr+1)
	b.EmitOp(node, vm.OP_PICK)
	b.EmitOp(node, vm.OP_SWAP)
	b.EmitOp(node, vm.OP_PICKITEM)
}

// ArrMap builds a new raw array by applying Map to each element of a
// raw array. [arr] -> [arr']
//
// Map sees [elem, i, out, arr] and must replace elem with its result.
type ArrMap struct{ Map func() }

func (h ArrMap) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	loop, end := b.NewLabel(), b.NewLabel()
	b.EmitOp(node, vm.OP_DUP)
	b.EmitOp(node, vm.OP_ARRAYSIZE)
	b.EmitOp(node, vm.OP_NEWARRAY)
	b.EmitPushInt(node, 0)
	b.SetLabel(loop)
	loopHead(b, node, 2, end)
	loopElem(b, node, 2)
	h.Map()
	b.EmitPushInt(node, 2)
	b.EmitOp(node, vm.OP_PICK)
	b.EmitPushInt(node, 2)
	b.EmitOp(node, vm.OP_PICK)
	b.EmitOp(node, vm.OP_ROT)
	b.EmitOp(node, vm.OP_SETITEM)
	b.EmitOp(node, vm.OP_INC)
	b.EmitJump(node, vm.OP_JMP, loop)
	b.SetLabel(end)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_NIP)
}

// ArrForEach runs Each for every element of a raw array. [arr] -> []
//
// Each sees [elem, i, arr] and must consume elem.
type ArrForEach struct{ Each func() }

func (h ArrForEach) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	loop, end := b.NewLabel(), b.NewLabel()
	b.EmitPushInt(node, 0)
	b.SetLabel(loop)
	loopHead(b, node, 1, end)
	loopElem(b, node, 1)
	h.Each()
	b.EmitOp(node, vm.OP_INC)
	b.EmitJump(node, vm.OP_JMP, loop)
	b.SetLabel(end)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_DROP)
}

// ArrSome reports whether Predicate holds for any element of a raw
// array, stopping at the first that does. [arr] -> [bool]
//
// Predicate sees [elem, i, arr] and must replace elem with a raw
// boolean.
type ArrSome struct{ Predicate func() }

func (h ArrSome) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	loop, found, none, end := b.NewLabel(), b.NewLabel(), b.NewLabel(), b.NewLabel()
	b.EmitPushInt(node, 0)
	b.SetLabel(loop)
	loopHead(b, node, 1, none)
	loopElem(b, node, 1)
	h.Predicate()
	b.EmitJump(node, vm.OP_JMPIF, found)
	b.EmitOp(node, vm.OP_INC)
	b.EmitJump(node, vm.OP_JMP, loop)
	b.SetLabel(found)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitPushBool(node, true)
	b.EmitJump(node, vm.OP_JMP, end)
	b.SetLabel(none)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitPushBool(node, false)
	b.SetLabel(end)
}

// Reverse reverses the order of the top N items.
type Reverse struct{ N int }

func (h Reverse) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	for i := 1; i < h.N; i++ {
		b.EmitPushInt(node, int64(i))
		b.EmitOp(node, vm.OP_ROLL)
	}
}
