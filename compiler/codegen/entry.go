package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/syscall"
	"neochain/compiler/transpile"
	"neochain/protocol/vm"
)

// Trigger values of Neo.Runtime.GetTrigger.
const (
	triggerVerification = 0x00
	triggerApplication  = 0x10
)

// entryPoint emits the contract entry point. It is invoked with the
// method name on top of the raw argument array and leaves one raw
// result. The invocation is kept on the alt stack as [method, args]
// while dispatching.
func (c *compiler) entryPoint(b *sb.ScriptBuilder) {
	node := c.plan.Contract
	b.EmitPushInt(node, 2)
	b.EmitOp(node, vm.OP_PACK)
	b.EmitOp(node, vm.OP_TOALTSTACK)

	b.MustSysCall(node, "Neo.Runtime.GetTrigger")
	trigger := func(value int64) func() {
		return func() {
			b.EmitOp(node, vm.OP_DUP)
			b.EmitPushInt(node, value)
			b.EmitOp(node, vm.OP_NUMEQUAL)
		}
	}
	helper.Case{
		Cases: []helper.CaseBranch{
			{Condition: trigger(triggerApplication), WhenTrue: func() {
				b.EmitOp(node, vm.OP_DROP)
				c.application(b)
			}},
			{Condition: trigger(triggerVerification), WhenTrue: func() {
				b.EmitOp(node, vm.OP_DROP)
				c.verification(b)
			}},
		},
		Default: func() {
			b.EmitOp(node, vm.OP_DROP)
			helper.Throw{Message: "Unsupported trigger"}.Emit(b, node, sb.VisitOptions{})
		},
	}.Emit(b, node, sb.VisitOptions{})

	b.EmitOp(node, vm.OP_FROMALTSTACK)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_RET)
}

// isMethod tests the invoked method name. [] -> [bool]
func isMethod(b *sb.ScriptBuilder, node ast.Node, name string) {
	b.EmitOp(node, vm.OP_DUPFROMALTSTACK)
	b.EmitPushInt(node, 0)
	b.EmitOp(node, vm.OP_PICKITEM)
	b.EmitPushString(node, name)
	b.EmitOp(node, vm.OP_EQUAL)
}

func (c *compiler) dispatch(b *sb.ScriptBuilder, entries []*transpile.Entry, fallback func()) {
	var cases []helper.CaseBranch
	for _, e := range entries {
		e := e
		node := c.entryNode(e)
		cases = append(cases, helper.CaseBranch{
			Condition: func() { isMethod(b, node, e.ABI.Name) },
			WhenTrue:  func() { c.invoke(b, e) },
		})
	}
	helper.Case{Cases: cases, Default: fallback}.Emit(b, c.plan.Contract, sb.VisitOptions{})
}

func (c *compiler) application(b *sb.ScriptBuilder) {
	c.dispatch(b, c.plan.Entries, func() {
		helper.Throw{Message: "Unknown method"}.Emit(b, c.plan.Contract, sb.VisitOptions{})
	})
}

// verification runs a @verify method named by the invocation. Any
// other invocation is allowed only with the witness of the owner.
func (c *compiler) verification(b *sb.ScriptBuilder) {
	c.dispatch(b, c.plan.Verify(), func() {
		owner := c.plan.Owner
		if owner == nil {
			b.EmitPushBool(c.plan.Contract, false)
			return
		}
		c.loadField(b, owner, owner)
		helper.GetBuffer.Emit(b, owner, sb.VisitOptions{})
		b.MustSysCall(owner, "Neo.Runtime.CheckWitness")
	})
}

func (c *compiler) entryNode(e *transpile.Entry) ast.Node {
	switch {
	case e.Method != nil:
		return e.Method
	case e.Field != nil:
		return e.Field
	}
	return c.plan.Contract
}

// invokeArg pushes the i-th raw invocation argument converted to the
// boxed value of p. [] -> [val]
func (c *compiler) invokeArg(b *sb.ScriptBuilder, node ast.Node, i int, p transpile.Param) {
	b.EmitOp(node, vm.OP_DUPFROMALTSTACK)
	b.EmitPushInt(node, 1)
	b.EmitOp(node, vm.OP_PICKITEM)
	b.EmitPushInt(node, int64(i))
	b.EmitOp(node, vm.OP_PICKITEM)
	p.Marshal.HandleResult(c.sysCtx(b, node), p.Type, false)
}

// invoke runs entry e and leaves its raw result.
func (c *compiler) invoke(b *sb.ScriptBuilder, e *transpile.Entry) {
	node := c.entryNode(e)
	ctx := c.sysCtx(b, node)
	switch e.Kind {
	case transpile.EntryFieldGetter:
		c.loadField(b, node, e.Field)
	case transpile.EntryFieldSetter:
		c.invokeArg(b, node, 0, e.Params[0])
		c.storeField(b, node, e.Field, func() {})
		b.EmitPushInt(node, 0)
		return
	default:
		// Contract state lives in storage: the receiver is a fresh
		// object.
		helper.NewObject.Emit(b, node, sb.VisitOptions{})
		for i, p := range e.Params {
			c.invokeArg(b, node, i, p)
		}
		helper.ArgumentsArray{N: len(e.Params)}.Emit(b, node, sb.VisitOptions{})
		if e.Kind == transpile.EntryDeploy {
			b.EmitCall(node, c.function(b, fnKey{c.plan.Contract, fnDeploy}).label)
		} else {
			b.EmitCall(node, c.method(b, e.Method).label)
		}
	}
	c.marshalResult(b, ctx, e)
}

// marshalResult converts the boxed result of e for the invoker. A void
// result is returned as 0.
func (c *compiler) marshalResult(b *sb.ScriptBuilder, ctx syscall.Context, e *transpile.Entry) {
	if e.Marshal == nil {
		b.EmitOp(ctx.Node, vm.OP_DROP)
		b.EmitPushInt(ctx.Node, 0)
		return
	}
	e.Marshal.HandleArgument(ctx, e.Result, false)
}
