package helper

import (
	"neochain/compiler/ast"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// If branches on a raw boolean. [bool] -> effect of the branch taken
//
// Condition, when set, is emitted first and must leave the boolean.
// Both branches must have the same stack effect.
type If struct {
	Condition func()
	WhenTrue  func()
	WhenFalse func()
}

func (h If) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	if h.Condition != nil {
		h.Condition()
	}
	end := b.NewLabel()
	if h.WhenFalse == nil {
		b.EmitJump(node, vm.OP_JMPIFNOT, end)
		if h.WhenTrue != nil {
			h.WhenTrue()
		}
		b.SetLabel(end)
		return
	}
	els := b.NewLabel()
	b.EmitJump(node, vm.OP_JMPIFNOT, els)
	if h.WhenTrue != nil {
		h.WhenTrue()
	}
	b.EmitJump(node, vm.OP_JMP, end)
	b.SetLabel(els)
	h.WhenFalse()
	b.SetLabel(end)
}

// CaseBranch is one arm of a Case ladder.
type CaseBranch struct {
	Condition func()
	WhenTrue  func()
}

// Case tests each condition in turn and runs the arm of the first
// that holds, or Default when none does. Conditions leave a raw
// boolean that the ladder consumes; every arm and Default must have
// the same stack effect.
type Case struct {
	Cases   []CaseBranch
	Default func()
}

func (h Case) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	end := b.NewLabel()
	for _, c := range h.Cases {
		next := b.NewLabel()
		c.Condition()
		b.EmitJump(node, vm.OP_JMPIFNOT, next)
		c.WhenTrue()
		b.EmitJump(node, vm.OP_JMP, end)
		b.SetLabel(next)
	}
	if h.Default != nil {
		h.Default()
	}
	b.SetLabel(end)
}

// TypeCase is a candidate of a ForType ladder.
type TypeCase struct {
	// HasType reports whether a static type can hold this candidate.
	HasType func(t *types.Type) bool

	// IsRuntimeType tests the value on top of the stack.
	// [val] -> [bool]
	IsRuntimeType func(opts sb.VisitOptions)

	// Process handles a value known to be this candidate.
	Process func(opts sb.VisitOptions)
}

// ForType dispatches on the runtime type of the value on top of the
// stack. Candidates the static Type cannot hold are skipped; a nil
// Type admits every candidate. Each arm sees [val]. Without a
// Default, a value that matches no candidate throws.
type ForType struct {
	Type    *types.Type
	Types   []TypeCase
	Default func(opts sb.VisitOptions)
}

func (h ForType) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	var cases []CaseBranch
	for _, tc := range h.Types {
		if h.Type != nil && !tc.HasType(h.Type) {
			continue
		}
		tc := tc
		cases = append(cases, CaseBranch{
			Condition: func() {
				b.EmitOp(node, vm.OP_DUP)
				tc.IsRuntimeType(opts)
			},
			WhenTrue: func() { tc.Process(opts) },
		})
	}
	def := func() { ThrowTypeError.Emit(b, node, opts) }
	if h.Default != nil {
		def = func() { h.Default(opts) }
	}
	Case{Cases: cases, Default: def}.Emit(b, node, opts)
}

// Throw aborts execution with a message left on the stack for the
// host to report.
type Throw struct{ Message string }

func (h Throw) Emit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	b.EmitPushString(node, h.Message)
	b.EmitOp(node, vm.OP_THROW)
}

var ThrowTypeError = Throw{"TypeError"}
