package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

func compileNumber(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		return
	}
	b.EmitPushBigInt(n, n.(*ast.NumberLit).Value)
	helper.CreateNumber.Emit(b, n, opts)
}

func compileString(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		return
	}
	b.EmitPushString(n, n.(*ast.StringLit).Value)
	helper.CreateString.Emit(b, n, opts)
}

func compileBool(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if !opts.PushValue {
		return
	}
	b.EmitPushBool(n, n.(*ast.BoolLit).Value)
	helper.CreateBoolean.Emit(b, n, opts)
}

func compileNull(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	helper.CreateNull.Emit(b, n, opts)
}

func compileUndefined(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	helper.CreateUndefined.Emit(b, n, opts)
}

func compileArray(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.ArrayLit)
	if !opts.PushValue {
		for _, x := range e.Elems {
			b.Visit(x, sb.VisitOptions{})
		}
		return
	}
	var elem *types.Type
	if opts.Cast != nil {
		elem = types.ArrayElem(opts.Cast)
	}
	for _, x := range e.Elems {
		c.push(b, x, elem)
	}
	helper.ArgumentsArray{N: len(e.Elems)}.Emit(b, n, opts)
	helper.WrapArray.Emit(b, n, opts)
}

func compileParen(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	b.Visit(n.(*ast.ParenExpr).X, opts)
}

func compileAs(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	b.Visit(n.(*ast.AsExpr).X, opts.WithCast(b.TypeOf(n)))
}

// compileThis pushes the receiver. super as a value is the receiver
// too: only its member lookup differs.
func compileThis(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	if opts.SetValue {
		b.Unsupported(n)
		return
	}
	if opts.PushValue {
		helper.LoadLocal{Slot: 0}.Emit(b, n, opts)
	}
}

func compileIdent(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	id := n.(*ast.Ident)
	sym := b.SymbolOf(id)
	if sym == nil {
		b.Errorf(id, diag.UnknownSymbol, "undefined: %s", id.Name)
		return
	}
	switch sym.Kind {
	case types.SymLocal, types.SymParam:
		slot, ok := c.cur.slots[sym.Decl]
		if !ok {
			b.Errorf(id, diag.UnsupportedSyntax, "%s is not visible in this function", id.Name)
			return
		}
		if opts.SetValue {
			helper.StoreLocal{Slot: slot}.Emit(b, id, opts)
		} else if opts.PushValue {
			helper.LoadLocal{Slot: slot}.Emit(b, id, opts)
		}
	case types.SymConst:
		d := sym.Decl.(*ast.VarDecl)
		switch {
		case opts.SetValue:
			b.Errorf(id, diag.InvalidReadonlyAssignment, "cannot assign to const %s", id.Name)
			b.EmitOp(id, vm.OP_DROP)
		case frontend.IsEventHandler(c.facts.TypeOf(d)):
			b.Errorf(id, diag.InvalidContractEvent, "event handler %s can only be called", id.Name)
		default:
			// Module constants are evaluated where they are used.
			b.Visit(d.Init, opts.WithCast(c.facts.TypeOf(d)))
		}
	default:
		b.Errorf(id, diag.UnsupportedSyntax, "%s cannot be used as a value", id.Name)
	}
}

func compileUnary(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.UnaryExpr)
	c.push(b, e.X, nil)
	switch e.Op {
	case "!":
		helper.ToBoolean{Type: b.TypeOf(e.X)}.Emit(b, e, opts)
		b.EmitOp(e, vm.OP_NOT)
		helper.CreateBoolean.Emit(b, e, opts)
	case "-":
		helper.GetNumber.Emit(b, e, opts)
		b.EmitOp(e, vm.OP_NEGATE)
		helper.CreateNumber.Emit(b, e, opts)
	case "+":
		if !types.IsOnlyNumber(b.TypeOf(e.X)) {
			b.Errorf(e, diag.UnsupportedSyntax, "unary + only applies to numbers")
		}
	default:
		b.Errorf(e, diag.UnsupportedSyntax, "unsupported operator %s", e.Op)
	}
	discard(b, e, opts)
}

// unwrapPair replaces the two values on top of the stack by their raw
// items, keeping their order. [y, x] -> [y', x']
func unwrapPair(b *sb.ScriptBuilder, n ast.Node) {
	helper.Unwrap.Emit(b, n, sb.VisitOptions{})
	b.EmitOp(n, vm.OP_SWAP)
	helper.Unwrap.Emit(b, n, sb.VisitOptions{})
	b.EmitOp(n, vm.OP_SWAP)
}

var arithmetic = map[string]vm.Op{
	"-": vm.OP_SUB,
	"*": vm.OP_MUL,
	"/": vm.OP_DIV,
	"%": vm.OP_MOD,
}

var comparisons = map[string]vm.Op{
	"<":  vm.OP_LT,
	">":  vm.OP_GT,
	"<=": vm.OP_LTE,
	">=": vm.OP_GTE,
}

func isNullishLit(e ast.Expr) bool {
	switch ast.Unparen(e).(type) {
	case *ast.NullLit, *ast.UndefinedLit:
		return true
	}
	return false
}

func compileBinary(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.BinaryExpr)
	xt, yt := b.TypeOf(e.X), b.TypeOf(e.Y)

	switch e.Op {
	case "&&", "||":
		end := b.NewLabel()
		c.push(b, e.X, nil)
		b.EmitOp(e, vm.OP_DUP)
		helper.ToBoolean{Type: xt}.Emit(b, e, opts)
		if e.Op == "&&" {
			b.EmitJump(e, vm.OP_JMPIFNOT, end)
		} else {
			b.EmitJump(e, vm.OP_JMPIF, end)
		}
		b.EmitOp(e, vm.OP_DROP)
		c.push(b, e.Y, nil)
		b.SetLabel(end)
		discard(b, e, opts)
		return

	case "==", "!=":
		if isNullishLit(e.X) || isNullishLit(e.Y) {
			x := e.X
			if isNullishLit(e.X) {
				x = e.Y
			}
			c.push(b, x, nil)
			helper.IsNullish.Emit(b, e, opts)
			if e.Op == "!=" {
				b.EmitOp(e, vm.OP_NOT)
			}
			helper.CreateBoolean.Emit(b, e, opts)
			discard(b, e, opts)
			return
		}
		fallthrough
	case "===", "!==":
		c.push(b, e.X, nil)
		c.push(b, e.Y, nil)
		helper.StrictEquals{Left: xt, Right: yt}.Emit(b, e, opts)
		if e.Op == "!==" || e.Op == "!=" {
			b.EmitOp(e, vm.OP_NOT)
		}
		helper.CreateBoolean.Emit(b, e, opts)
		discard(b, e, opts)
		return
	}

	c.push(b, e.X, nil)
	c.push(b, e.Y, nil)
	c.binaryOp(b, e, e.Op, xt, yt)
	discard(b, e, opts)
}

// binaryOp applies an arithmetic, concatenation or comparison
// operator. [y, x] -> [x op y]
func (c *compiler) binaryOp(b *sb.ScriptBuilder, n ast.Node, op string, xt, yt *types.Type) {
	unwrapPair(b, n)
	if op == "+" {
		switch {
		case types.IsOnlyString(xt) && types.IsOnlyString(yt):
			b.EmitOp(n, vm.OP_CAT)
			helper.CreateString.Emit(b, n, sb.VisitOptions{})
		case types.IsOnlyString(xt) || types.IsOnlyString(yt):
			b.Errorf(n, diag.UnsupportedSyntax, "+ needs two strings or two numbers, got %s and %s", xt, yt)
			b.EmitOp(n, vm.OP_CAT)
			helper.CreateString.Emit(b, n, sb.VisitOptions{})
		default:
			b.EmitOp(n, vm.OP_ADD)
			helper.CreateNumber.Emit(b, n, sb.VisitOptions{})
		}
		return
	}
	if vop, ok := arithmetic[op]; ok {
		b.EmitOp(n, vop)
		helper.CreateNumber.Emit(b, n, sb.VisitOptions{})
		return
	}
	if vop, ok := comparisons[op]; ok {
		b.EmitOp(n, vop)
		helper.CreateBoolean.Emit(b, n, sb.VisitOptions{})
		return
	}
	b.Errorf(n, diag.UnsupportedSyntax, "unsupported operator %s", op)
	b.EmitOp(n, vm.OP_DROP)
}

// compileAssign evaluates the new value, keeps a copy when the
// assignment is itself used as a value and stores it into the
// target.
func compileAssign(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.AssignExpr)
	tt := b.TypeOf(e.Target)
	switch e.Op {
	case "=":
		c.push(b, e.Value, tt)
	case "+=", "-=":
		c.push(b, e.Target, nil)
		c.push(b, e.Value, nil)
		c.binaryOp(b, e, e.Op[:1], tt, b.TypeOf(e.Value))
	default:
		b.Errorf(e, diag.UnsupportedSyntax, "unsupported assignment %s", e.Op)
		return
	}
	if opts.PushValue {
		b.EmitOp(e, vm.OP_DUP)
	}
	b.Visit(e.Target, opts.NoPushValue().WithSetValue().NoCast())
}

func compileCond(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.CondExpr)
	helper.If{
		Condition: func() {
			c.push(b, e.Cond, nil)
			helper.ToBoolean{Type: b.TypeOf(e.Cond)}.Emit(b, e.Cond, opts)
		},
		WhenTrue:  func() { b.Visit(e.Then, opts) },
		WhenFalse: func() { b.Visit(e.Else, opts) },
	}.Emit(b, n, opts)
}

func compileIndex(c *compiler, b *sb.ScriptBuilder, n ast.Node, opts sb.VisitOptions) {
	e := n.(*ast.IndexExpr)
	xt := b.TypeOf(e.X)
	switch {
	case types.IsOnlyArray(xt) || types.IsOnlyTuple(xt):
		c.push(b, e.X, nil)
		helper.UnwrapArray.Emit(b, e, opts)
		c.push(b, e.Index, nil)
		helper.GetNumber.Emit(b, e, opts)
		if opts.SetValue {
			// stack: [index, array, value]
			b.EmitOp(e, vm.OP_ROT)
			b.EmitOp(e, vm.OP_SETITEM)
			return
		}
		b.EmitOp(e, vm.OP_PICKITEM)
	case types.IsOnlyBuffer(xt) && !opts.SetValue:
		c.push(b, e.X, nil)
		helper.GetBuffer.Emit(b, e, opts)
		c.push(b, e.Index, nil)
		helper.GetNumber.Emit(b, e, opts)
		b.EmitPushInt(e, 1)
		b.EmitOp(e, vm.OP_SUBSTR)
		// Append a zero byte so the byte reads as unsigned.
		b.EmitPushBuffer(e, []byte{0})
		b.EmitOp(e, vm.OP_CAT)
		b.EmitPushInt(e, 0)
		b.EmitOp(e, vm.OP_ADD)
		helper.CreateNumber.Emit(b, e, opts)
	case types.IsOnlyClass(xt) && xt.Class != nil && !c.plan.IsContract(xt.Class):
		c.computedField(b, e, xt.Class, opts)
		if opts.SetValue {
			return
		}
	default:
		b.Errorf(e, diag.UnsupportedSyntax, "cannot index a value of type %s", xt)
		if opts.SetValue {
			b.EmitOp(e, vm.OP_DROP)
		}
		return
	}
	discard(b, e, opts)
}

// computedField compiles obj[name] for an object of class cls by
// comparing name with each field of cls at run time. A name that is
// not a field throws.
func (c *compiler) computedField(b *sb.ScriptBuilder, e *ast.IndexExpr, cls *ast.ClassDecl, opts sb.VisitOptions) {
	c.push(b, e.X, nil)
	c.push(b, e.Index, nil)
	helper.GetString.Emit(b, e, opts)
	// stack: [name, obj]
	var cases []helper.CaseBranch
	seen := map[string]bool{}
	for k := cls; k != nil; k = c.facts.BaseOf(k) {
		for _, m := range k.Members {
			f, ok := m.(*ast.PropertyDecl)
			if !ok || seen[f.Name] || c.plan.Field(f) != transpile.ObjectField {
				continue
			}
			seen[f.Name] = true
			name := f.Name
			cases = append(cases, helper.CaseBranch{
				Condition: func() {
					b.EmitOp(e, vm.OP_DUP)
					b.EmitPushString(e, name)
					b.EmitOp(e, vm.OP_EQUAL)
				},
				WhenTrue: func() {
					b.EmitOp(e, vm.OP_DROP)
					if opts.SetValue {
						helper.SetProperty{Name: name}.Emit(b, e, opts)
					} else {
						helper.GetProperty{Name: name}.Emit(b, e, opts)
					}
				},
			})
		}
	}
	helper.Case{Cases: cases, Default: func() {
		helper.ThrowTypeError.Emit(b, e, opts)
	}}.Emit(b, e, opts)
}
