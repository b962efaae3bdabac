package codegen

import (
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/syscall"
	"neochain/compiler/transpile"
	"neochain/compiler/types"
	"neochain/protocol/vm"
)

// Contract fields live in storage under their name. A value is
// stored boxed and serialized so that it reads back with its type
// tag; a missing key reads back as undefined.
var (
	storedValue = syscall.Serializable.AddSerialize()
	loadedValue = syscall.Serializable.AddSerialize().HandleNull()
)

func (c *compiler) sysCtx(b *sb.ScriptBuilder, node ast.Node) syscall.Context {
	return syscall.Context{B: b, Node: node, Opts: sb.VisitOptions{PushValue: true}}
}

// loadField pushes the value of f. An object field reads from the
// object on top of the stack. [obj] -> [val] or [] -> [val]
func (c *compiler) loadField(b *sb.ScriptBuilder, node ast.Node, f *ast.PropertyDecl) {
	t := c.facts.TypeOf(f)
	switch c.plan.Field(f) {
	case transpile.ObjectField:
		helper.GetProperty{Name: f.Name}.Emit(b, node, sb.VisitOptions{})
	case transpile.StorageField:
		b.EmitPushString(node, f.Name)
		b.MustSysCall(node, "Neo.Storage.GetContext")
		b.MustSysCall(node, "Neo.Storage.Get")
		loadedValue.HandleResult(c.sysCtx(b, node), t, true)
	case transpile.ConstantField:
		c.push(b, f.Init, t)
	default:
		b.Errorf(node, diag.UnsupportedSyntax, "%s can only be used through its methods", f.Name)
		helper.CreateUndefined.Emit(b, node, sb.VisitOptions{PushValue: true})
	}
}

// storeField pops the value on top of the stack into f. recv pushes
// the object of an object field. [val] -> []
func (c *compiler) storeField(b *sb.ScriptBuilder, node ast.Node, f *ast.PropertyDecl, recv func()) {
	switch c.plan.Field(f) {
	case transpile.ObjectField:
		recv()
		helper.SetProperty{Name: f.Name}.Emit(b, node, sb.VisitOptions{})
	case transpile.StorageField:
		storedValue.HandleArgument(c.sysCtx(b, node), c.facts.TypeOf(f), true)
		b.EmitPushString(node, f.Name)
		b.MustSysCall(node, "Neo.Storage.GetContext")
		b.MustSysCall(node, "Neo.Storage.Put")
	default:
		b.Errorf(node, diag.InvalidReadonlyAssignment, "cannot assign to %s", f.Name)
		b.EmitOp(node, vm.OP_DROP)
	}
}

// structuredPrefix is the key prefix of the entries of a MapStorage or
// SetStorage field. It starts with a serialization type byte, which
// no field name does.
func structuredPrefix(name string) []byte {
	p, err := vm.Serialize(vm.ByteArray(name))
	if err != nil {
		panic(err)
	}
	return p
}

// entryKey pushes the storage key of the entry key of structured
// field f. [] -> [key]
//
// Numbers and booleans are normalized first: the VM represents zero
// and false by either an empty byte string or a typed item, which
// serialize differently.
func (c *compiler) entryKey(b *sb.ScriptBuilder, f *ast.PropertyDecl, key ast.Expr, keyType *types.Type) {
	b.EmitPushBuffer(key, structuredPrefix(f.Name))
	c.push(b, key, keyType)
	switch {
	case types.IsOnlyNumber(keyType):
		helper.GetNumber.Emit(b, key, sb.VisitOptions{})
		b.EmitPushInt(key, 0)
		b.EmitOp(key, vm.OP_ADD)
		helper.CreateNumber.Emit(b, key, sb.VisitOptions{})
	case types.IsOnlyBoolean(keyType):
		helper.GetBoolean.Emit(b, key, sb.VisitOptions{})
		b.EmitOp(key, vm.OP_NOT)
		b.EmitOp(key, vm.OP_NOT)
		helper.CreateBoolean.Emit(b, key, sb.VisitOptions{})
	}
	storedValue.HandleArgument(c.sysCtx(b, key), keyType, true)
	b.EmitOp(key, vm.OP_CAT)
}

// structuredCall compiles a method call on a MapStorage or SetStorage
// field.
func (c *compiler) structuredCall(b *sb.ScriptBuilder, call *ast.CallExpr, sel *ast.SelectorExpr, f *ast.PropertyDecl, opts sb.VisitOptions) {
	t := c.facts.TypeOf(f)
	isMap := c.plan.Field(f) == transpile.MapField
	keyType := t.Elems[0]
	want := 1
	if isMap && sel.Sel == "set" {
		want = 2
	}
	if len(call.Args) != want {
		b.Errorf(call, diag.UnsupportedSyntax, "%s.%s takes %d arguments, got %d", f.Name, sel.Sel, want, len(call.Args))
		helper.CreateUndefined.Emit(b, call, opts)
		return
	}
	key := call.Args[0]

	switch {
	case isMap && sel.Sel == "get":
		c.entryKey(b, f, key, keyType)
		b.MustSysCall(call, "Neo.Storage.GetContext")
		b.MustSysCall(call, "Neo.Storage.Get")
		loadedValue.HandleResult(c.sysCtx(b, call), types.NewUnion(t.Elems[1], types.UndefinedType), true)
		discard(b, call, opts)
		return
	case sel.Sel == "has":
		c.entryKey(b, f, key, keyType)
		b.MustSysCall(call, "Neo.Storage.GetContext")
		b.MustSysCall(call, "Neo.Storage.Get")
		b.EmitOp(call, vm.OP_SIZE)
		b.EmitOp(call, vm.OP_NZ)
		helper.CreateBoolean.Emit(b, call, opts)
		discard(b, call, opts)
		return
	case sel.Sel == "delete":
		c.entryKey(b, f, key, keyType)
		b.MustSysCall(call, "Neo.Storage.GetContext")
		b.MustSysCall(call, "Neo.Storage.Delete")
	case isMap && sel.Sel == "set":
		c.entryKey(b, f, key, keyType)
		// stack: [key]
		c.push(b, call.Args[1], t.Elems[1])
		storedValue.HandleArgument(c.sysCtx(b, call.Args[1]), t.Elems[1], true)
		// stack: [value, key]
		b.EmitOp(call, vm.OP_SWAP)
		b.MustSysCall(call, "Neo.Storage.GetContext")
		b.MustSysCall(call, "Neo.Storage.Put")
	case !isMap && sel.Sel == "add":
		c.entryKey(b, f, key, keyType)
		b.EmitPushBuffer(call, []byte{1})
		b.EmitOp(call, vm.OP_SWAP)
		b.MustSysCall(call, "Neo.Storage.GetContext")
		b.MustSysCall(call, "Neo.Storage.Put")
	default:
		b.Errorf(sel, diag.UnsupportedSyntax, "%s has no method %s", t, sel.Sel)
	}
	helper.CreateUndefined.Emit(b, call, opts)
}
