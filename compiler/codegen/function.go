package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/frontend"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// Compiled functions are entered with CALL on [args, this]: a raw
// array of boxed arguments on top of the receiver. The prologue moves
// both into a frame array kept on the alt stack:
//
//	slot 0         this
//	slots 1..n     parameters, undefined when not passed
//	slots n+1..    local variables
//
// Every function returns exactly one boxed value.

// deployedKey marks a deployed contract in its storage. Field names
// cannot start with 0xff, so it never collides with a field.
const deployedKey = "\xffdeployed"

type fnKind int

const (
	fnBody fnKind = iota
	fnInit
	fnDeploy
)

type fnKey struct {
	node ast.Node
	kind fnKind
}

type function struct {
	key    fnKey
	label  sb.Label
	class  *ast.ClassDecl
	params []*ast.Param
	body   *ast.BlockStmt
	result *types.Type

	// scope carries the class options every node of the body is
	// compiled with.
	scope sb.VisitOptions

	slots  map[ast.Node]int
	nslots int
	loops  []loop
}

type loop struct {
	brk, cont sb.Label
}

// function returns the function for key, queueing it for emission
// the first time it is asked for.
func (c *compiler) function(b *sb.ScriptBuilder, key fnKey) *function {
	if fn := c.fns[key]; fn != nil {
		return fn
	}
	fn := &function{key: key, label: b.NewLabel(), slots: map[ast.Node]int{}}
	switch key.kind {
	case fnBody:
		switch d := key.node.(type) {
		case *ast.FuncDecl:
			fn.params, fn.body = d.Params, d.Body
		case *ast.MethodDecl:
			fn.class, fn.params, fn.body = d.Class, d.Params, d.Body
			fn.result = c.facts.TypeOf(d)
		}
	case fnInit:
		cls := key.node.(*ast.ClassDecl)
		fn.class = cls
		fn.params = c.plan.InitParams(cls)
		if ctor := transpile.Constructor(cls); ctor != nil {
			fn.body = ctor.Body
		}
	case fnDeploy:
		fn.class = c.plan.Contract
		fn.params = c.plan.InitParams(c.plan.Contract)
	}
	c.fns[key] = fn
	c.pending = append(c.pending, fn)
	return fn
}

func (c *compiler) method(b *sb.ScriptBuilder, m *ast.MethodDecl) *function {
	return c.function(b, fnKey{m, fnBody})
}

func (c *compiler) initOf(b *sb.ScriptBuilder, cls *ast.ClassDecl) *function {
	return c.function(b, fnKey{cls, fnInit})
}

// classScope returns the options for code in the body of cls.
func (c *compiler) classScope(cls *ast.ClassDecl) sb.VisitOptions {
	var o sb.VisitOptions
	if cls == nil {
		return o
	}
	if base := c.facts.BaseOf(cls); base != nil {
		o = o.WithSuperClass(base)
	}
	if cls.Extends != nil && c.facts.SymbolOf(cls.Extends).IsLib(frontend.SmartContract) {
		o = o.WithSmartContract()
	}
	return o
}

// allocate assigns the frame slots of fn.
func (fn *function) allocate() {
	fn.nslots = 1
	for _, p := range fn.params {
		fn.slots[p] = fn.nslots
		fn.nslots++
	}
	if fn.body == nil {
		return
	}
	ast.Inspect(fn.body, func(n ast.Node) bool {
		if v, ok := n.(*ast.VarDecl); ok {
			fn.slots[v] = fn.nslots
			fn.nslots++
		}
		return true
	})
}

func (c *compiler) emitFunction(b *sb.ScriptBuilder, fn *function) {
	c.cur = fn
	defer func() { c.cur = nil }()
	fn.allocate()
	fn.scope = c.classScope(fn.class)

	node := fn.key.node
	b.SetLabel(fn.label)
	c.prologue(b, node, fn)
	switch fn.key.kind {
	case fnBody:
		if fn.body != nil {
			compileStmts(c, b, fn.body.List)
		}
	case fnInit:
		c.initBody(b, fn)
	case fnDeploy:
		c.deployBody(b)
	}
	helper.CreateUndefined.Emit(b, node, sb.VisitOptions{PushValue: true})
	c.ret(b, node)
}

// prologue builds the frame. [args, this] -> []
func (c *compiler) prologue(b *sb.ScriptBuilder, node ast.Node, fn *function) {
	b.EmitPushInt(node, int64(fn.nslots))
	b.EmitOp(node, vm.OP_NEWARRAY)
	b.EmitOp(node, vm.OP_TOALTSTACK)
	b.EmitOp(node, vm.OP_SWAP)
	helper.StoreLocal{Slot: 0}.Emit(b, node, sb.VisitOptions{})
	for i, p := range fn.params {
		i := int64(i)
		helper.If{
			Condition: func() {
				b.EmitOp(p, vm.OP_DUP)
				b.EmitOp(p, vm.OP_ARRAYSIZE)
				b.EmitPushInt(p, i)
				b.EmitOp(p, vm.OP_GT)
			},
			WhenTrue: func() {
				b.EmitOp(p, vm.OP_DUP)
				b.EmitPushInt(p, i)
				b.EmitOp(p, vm.OP_PICKITEM)
			},
			WhenFalse: func() {
				helper.CreateUndefined.Emit(b, p, sb.VisitOptions{PushValue: true})
			},
		}.Emit(b, p, sb.VisitOptions{})
		helper.StoreLocal{Slot: fn.slots[p]}.Emit(b, p, sb.VisitOptions{})
	}
	b.EmitOp(node, vm.OP_DROP)
}

// ret leaves the function with the value on top of the stack.
func (c *compiler) ret(b *sb.ScriptBuilder, node ast.Node) {
	b.EmitOp(node, vm.OP_FROMALTSTACK)
	b.EmitOp(node, vm.OP_DROP)
	b.EmitOp(node, vm.OP_RET)
}

// initBody constructs an instance of fn.class. A class without a
// constructor passes its arguments on to its base. A root class runs
// its field initializers before the constructor body; a derived
// class runs them right after super(...).
func (c *compiler) initBody(b *sb.ScriptBuilder, fn *function) {
	cls := fn.class
	base := c.facts.BaseOf(cls)
	if transpile.Constructor(cls) == nil {
		if base != nil && c.plan.NeedsInit(base) {
			c.callInit(b, cls, base, func() {
				for _, p := range fn.params {
					helper.LoadLocal{Slot: fn.slots[p]}.Emit(b, cls, sb.VisitOptions{})
				}
			}, len(fn.params))
		}
		c.initializers(b, cls)
		return
	}
	if base == nil {
		c.initializers(b, cls)
	}
	if fn.body != nil {
		compileStmts(c, b, fn.body.List)
	}
}

// callInit runs the init function of cls on this with n arguments
// pushed by args.
func (c *compiler) callInit(b *sb.ScriptBuilder, node ast.Node, cls *ast.ClassDecl, args func(), n int) {
	helper.LoadLocal{Slot: 0}.Emit(b, node, sb.VisitOptions{})
	args()
	helper.ArgumentsArray{N: n}.Emit(b, node, sb.VisitOptions{})
	b.EmitCall(node, c.initOf(b, cls).label)
	b.EmitOp(node, vm.OP_DROP)
}

// initializers stores the initial values of the fields cls declares.
func (c *compiler) initializers(b *sb.ScriptBuilder, cls *ast.ClassDecl) {
	for _, m := range cls.Members {
		f, ok := m.(*ast.PropertyDecl)
		if !ok || !c.plan.Initialized(f) {
			continue
		}
		if f.Param != nil {
			helper.LoadLocal{Slot: c.cur.slots[f.Param]}.Emit(b, f, sb.VisitOptions{})
		} else {
			c.push(b, f.Init, c.facts.TypeOf(f))
		}
		c.storeField(b, f, f, func() {
			helper.LoadLocal{Slot: 0}.Emit(b, f, sb.VisitOptions{})
		})
	}
}

// deployBody refuses a second deployment, marks the contract deployed
// and constructs it with the deploy arguments.
func (c *compiler) deployBody(b *sb.ScriptBuilder) {
	contract := c.plan.Contract
	fn := c.cur
	b.EmitPushString(contract, deployedKey)
	b.MustSysCall(contract, "Neo.Storage.GetContext")
	b.MustSysCall(contract, "Neo.Storage.Get")
	b.EmitOp(contract, vm.OP_SIZE)
	helper.If{WhenTrue: func() {
		helper.Throw{Message: "Already deployed"}.Emit(b, contract, sb.VisitOptions{})
	}}.Emit(b, contract, sb.VisitOptions{})

	b.EmitPushBuffer(contract, []byte{1})
	b.EmitPushString(contract, deployedKey)
	b.MustSysCall(contract, "Neo.Storage.GetContext")
	b.MustSysCall(contract, "Neo.Storage.Put")

	c.callInit(b, contract, contract, func() {
		for _, p := range fn.params {
			helper.LoadLocal{Slot: fn.slots[p]}.Emit(b, contract, sb.VisitOptions{})
		}
	}, len(fn.params))

	b.EmitPushBool(contract, true)
	helper.CreateBoolean.Emit(b, contract, sb.VisitOptions{})
	c.ret(b, contract)
}
