package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/protocol/vm"
)

func compileStmts(c *compiler, b *sb.ScriptBuilder, list []ast.Stmt) {
	for _, s := range list {
		b.Visit(s, sb.VisitOptions{})
	}
}

func compileBlock(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	compileStmts(c, b, n.(*ast.BlockStmt).List)
}

func compileExprStmt(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	b.Visit(n.(*ast.ExprStmt).X, sb.VisitOptions{})
}

func compileVarDecl(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	d := n.(*ast.VarDecl)
	slot, ok := c.cur.slots[d]
	if !ok {
		b.Unsupported(d)
		return
	}
	if d.Init != nil {
		c.push(b, d.Init, c.facts.TypeOf(d))
	} else {
		helper.CreateUndefined.Emit(b, d, sb.VisitOptions{PushValue: true})
	}
	helper.StoreLocal{Slot: slot}.Emit(b, d, opts)
}

// condition pushes the raw truth value of e.
func (c *compiler) condition(b *sb.ScriptBuilder, e ast.Expr) {
	c.push(b, e, nil)
	helper.ToBoolean{Type: b.TypeOf(e)}.Emit(b, e, sb.VisitOptions{})
}

func compileIf(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	s := n.(*ast.IfStmt)
	h := helper.If{
		Condition: func() { c.condition(b, s.Cond) },
		WhenTrue:  func() { b.Visit(s.Then, sb.VisitOptions{}) },
	}
	if s.Else != nil {
		h.WhenFalse = func() { b.Visit(s.Else, sb.VisitOptions{}) }
	}
	h.Emit(b, s, opts)
}

func compileWhile(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	s := n.(*ast.WhileStmt)
	l := loop{brk: b.NewLabel(), cont: b.NewLabel()}
	b.SetLabel(l.cont)
	c.condition(b, s.Cond)
	b.EmitJump(s, vm.OP_JMPIFNOT, l.brk)
	c.loopBody(b, l, s.Body)
	b.EmitJump(s, vm.OP_JMP, l.cont)
	b.SetLabel(l.brk)
}

func compileFor(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	s := n.(*ast.ForStmt)
	if s.Init != nil {
		b.Visit(s.Init, sb.VisitOptions{})
	}
	top := b.NewLabel()
	l := loop{brk: b.NewLabel(), cont: b.NewLabel()}
	b.SetLabel(top)
	if s.Cond != nil {
		c.condition(b, s.Cond)
		b.EmitJump(s, vm.OP_JMPIFNOT, l.brk)
	}
	c.loopBody(b, l, s.Body)
	b.SetLabel(l.cont)
	if s.Post != nil {
		b.Visit(s.Post, sb.VisitOptions{})
	}
	b.EmitJump(s, vm.OP_JMP, top)
	b.SetLabel(l.brk)
}

func (c *compiler) loopBody(b *sb.ScriptBuilder, l loop, body ast.Stmt) {
	fn := c.cur
	fn.loops = append(fn.loops, l)
	b.Visit(body, sb.VisitOptions{})
	fn.loops = fn.loops[:len(fn.loops)-1]
}

func compileBranch(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	loops := c.cur.loops
	if len(loops) == 0 {
		b.Unsupported(n)
		return
	}
	l := loops[len(loops)-1]
	if _, ok := n.(*ast.BreakStmt); ok {
		b.EmitJump(n, vm.OP_JMP, l.brk)
	} else {
		b.EmitJump(n, vm.OP_JMP, l.cont)
	}
}

func compileReturn(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	s := n.(*ast.ReturnStmt)
	if s.Result != nil {
		c.push(b, s.Result, c.cur.result)
	} else {
		helper.CreateUndefined.Emit(b, s, sb.VisitOptions{PushValue: true})
	}
	c.ret(b, s)
}

func compileThrow(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	s := n.(*ast.ThrowStmt)
	c.push(b, s.X, nil)
	b.EmitOp(s, vm.OP_THROW)
}
