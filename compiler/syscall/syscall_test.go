package syscall

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/helper"
	"neochain/compiler/sb"
	"neochain/compiler/types"
	"neochain/protocol/vm"
	"neochain/protocol/vm/vmtest"
	"neochain/protocol/vmutil"
	"neochain/testutil"
)

type facts map[ast.Node]*types.Type

func (f facts) TypeOf(n ast.Node) *types.Type      { return f[n] }
func (f facts) SymbolOf(ast.Node) *types.Symbol    { return nil }
func (f facts) HasDecorator(ast.Node, string) bool { return false }
func (f facts) References(ast.Node) []*ast.Ident   { return nil }

// visitor compiles the handful of expressions the tests use.
type visitor struct{}

func (v visitor) Visit(b *sb.ScriptBuilder, node ast.Node, opts sb.VisitOptions) {
	switch n := node.(type) {
	case *ast.CallExpr:
		s, _ := Lookup(n.Args[0].(*ast.StringLit).Value)
		s.HandleCall(Context{B: b, Node: n, Opts: opts}, n)
		return
	case *ast.StringLit:
		b.EmitPushString(n, n.Value)
		helper.CreateString.Emit(b, n, opts)
	case *ast.NumberLit:
		b.EmitPushBigInt(n, n.Value)
		helper.CreateNumber.Emit(b, n, opts)
	case *ast.BoolLit:
		b.EmitPushBool(n, n.Value)
		helper.CreateBoolean.Emit(b, n, opts)
	case *ast.ArrayLit:
		for _, e := range n.Elems {
			v.Visit(b, e, opts.WithPushValue())
		}
		helper.ArgumentsArray{N: len(n.Elems)}.Emit(b, n, opts)
		helper.WrapArray.Emit(b, n, opts)
	case *ast.Ident:
		b.MustSysCall(n, "Neo.Storage.GetContext")
		helper.WrapBlockchainInterface{Name: StorageContextBase}.Emit(b, n, opts)
	}
	if !opts.PushValue {
		b.EmitOp(node, vm.OP_DROP)
	}
}

func str(s string) *ast.StringLit { return &ast.StringLit{Value: s} }
func num(n int64) *ast.NumberLit  { return &ast.NumberLit{Value: big.NewInt(n)} }

func sysCall(name string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: &ast.Ident{Name: "syscall"}, Args: append([]ast.Expr{str(name)}, args...)}
}

// compile emits node into a fresh builder.
// sameItem compares items by value, descending into arrays. Integers
// and byte arrays with the same encoding are the same.
func sameItem(a, b vm.Item) bool {
	aa, aok := a.(*vm.Array)
	ba, bok := b.(*vm.Array)
	if !aok || !bok {
		return !aok && !bok && vm.Equal(a, b)
	}
	if len(aa.Items) != len(ba.Items) {
		return false
	}
	for i := range aa.Items {
		if !sameItem(aa.Items[i], ba.Items[i]) {
			return false
		}
	}
	return true
}

func compile(t *testing.T, f facts, node ast.Node, opts sb.VisitOptions) ([]byte, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink("t.ts")
	b := sb.New(f, sink)
	b.SetVisitor(visitor{})
	b.Visit(node, opts)
	prog, err := b.Build()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return prog.Script, sink
}

func TestTableMatchesVM(t *testing.T) {
	for _, name := range Names() {
		s, _ := Lookup(name)
		if s.handle != nil {
			continue
		}
		info, ok := vm.SysCalls[name]
		if !ok {
			t.Errorf("%s is not a VM syscall", name)
			continue
		}
		args := len(s.Args)
		if s.Rest != nil {
			args++
		}
		results := 1
		if s.Result == Void {
			results = 0
		}
		if info.Args != args || info.Results != results {
			t.Errorf("%s: got %d args %d results, VM has %v", name, args, results, info)
		}
	}
}

func TestStoragePutScenario(t *testing.T) {
	key, val := str("key"), str("val")
	f := facts{key: types.StringType, val: types.StringType}
	call := sysCall("Neo.Storage.Put", &ast.Ident{Name: "ctx"}, key, val)
	script, sink := compile(t, f, call, sb.VisitOptions{})
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}

	// ctx, its interop handle, the key, the serialized value, then
	// the arguments reversed for the syscall.
	want, err := vm.Assemble(strings.Join([]string{
		"SYSCALL:Neo.Storage.GetContext 'StorageContextBase' SWAP 9 3 PACK",
		"1 PICKITEM",
		"'key' 3 2 PACK 1 PICKITEM",
		"'val' 3 2 PACK SYSCALL:Neo.Runtime.Serialize",
		"1 ROLL 2 ROLL",
		"SYSCALL:Neo.Storage.Put",
	}, " "))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectScriptEqual(t, script, want, "Storage.Put")

	depth, err := vmutil.StackDepth(script)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if depth != 0 {
		t.Errorf("got depth %d, want 0", depth)
	}
}

func countOps(t *testing.T, script []byte, op vm.Op) int {
	t.Helper()
	insts, err := vm.ParseProgram(script)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	n := 0
	for _, inst := range insts {
		if inst.Op == op {
			n++
		}
	}
	return n
}

func TestUnionFastPath(t *testing.T) {
	cases := []struct {
		typ  *types.Type
		want int
	}{
		{types.NumberType, 0},
		{types.BufferType, 0},
		{types.NewUnion(types.NumberType, types.BufferType), 2},
		{types.NewUnion(types.NumberType, types.StringType), 1},
	}
	for _, c := range cases {
		arg := num(1)
		call := sysCall("Neo.Blockchain.GetHeader", arg)
		script, sink := compile(t, facts{arg: c.typ}, call, sb.VisitOptions{})
		if sink.HasErrors() {
			t.Errorf("%s: unexpected diagnostics %v", c.typ, sink.Diagnostics())
			continue
		}
		if got := countOps(t, script, vm.OP_JMPIFNOT); got != c.want {
			t.Errorf("%s: got %d guarded branches, want %d", c.typ, got, c.want)
		}
		if _, err := vmutil.StackDepth(script); err != nil {
			t.Errorf("%s: %v", c.typ, err)
		}
	}
}

func TestResultNeedsCast(t *testing.T) {
	it := sysCall("Neo.Storage.Find", &ast.Ident{Name: "ctx"}, str("p"))
	call := sysCall("Neo.Iterator.Key", it)
	f := facts{it: types.NewInterface(StorageIteratorBase)}

	_, sink := compile(t, f, call, sb.VisitOptions{PushValue: true})
	if !sink.Has(diag.UnknownType) {
		t.Error("expected UNKNOWN_TYPE without a cast")
	}
	_, sink = compile(t, f, call, sb.VisitOptions{PushValue: true, Cast: types.StringType})
	if sink.HasErrors() {
		t.Errorf("unexpected diagnostics %v", sink.Diagnostics())
	}
}

func TestArity(t *testing.T) {
	_, sink := compile(t, nil, sysCall("Neo.Runtime.Log"), sb.VisitOptions{})
	if !sink.Has(diag.InvalidSysCall) {
		t.Error("expected INVALID_SYS_CALL")
	}
}

func TestTupleArgumentUnsupported(t *testing.T) {
	sink := diag.NewSink("t.ts")
	b := sb.New(nil, sink)
	Tuple(Number).HandleArgument(Context{B: b}, types.NewTuple(types.NumberType), false)
	if !sink.Has(diag.UnsupportedSyntax) {
		t.Error("expected UNSUPPORTED_SYNTAX")
	}
}

func TestTupleResult(t *testing.T) {
	b := sb.New(nil, diag.NewSink("t.ts"))
	Tuple(Number).HandleResult(Context{B: b}, types.NewTuple(types.NumberType, types.NumberType), false)
	prog, err := b.Build()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	m, err := vm.Execute(prog.Script, nil, vm.NewArray(vm.NewInt(1), vm.NewInt(2)))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	got, _ := m.Result()
	box := func(n int64) vm.Item { return vm.NewArray(vm.NewInt(int64(helper.TagNumber)), vm.NewInt(n)) }
	want := vm.NewArray(vm.NewInt(int64(helper.TagArray)), vm.NewArray(box(1), box(2)))
	if !sameItem(got, want) {
		t.Errorf("got %s, want %s", vm.Format(got), vm.Format(want))
	}
}

// TestStorageRoundTrip stores a value and reads it back through the
// storage marshalling of Neo.Storage.Put and Neo.Storage.Get.
func TestStorageRoundTrip(t *testing.T) {
	numbers := &ast.ArrayLit{Elems: []ast.Expr{num(1), num(2)}}
	cases := []struct {
		name string
		val  ast.Expr
		typ  *types.Type
	}{
		{"number", num(7), types.NumberType},
		{"string", str("hello"), types.StringType},
		{"boolean", &ast.BoolLit{Value: true}, types.BooleanType},
		{"array", numbers, types.NewArray(types.NumberType)},
		{"union", num(-3), types.NewUnion(types.NumberType, types.StringType)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := facts{c.val: c.typ}
			sink := diag.NewSink("t.ts")
			b := sb.New(f, sink)
			b.SetVisitor(visitor{})
			ctx := func() *ast.Ident { return &ast.Ident{Name: "ctx"} }
			b.Visit(sysCall("Neo.Storage.Put", ctx(), str("k"), c.val), sb.VisitOptions{})
			b.Visit(c.val, sb.VisitOptions{PushValue: true})
			b.Visit(sysCall("Neo.Storage.Get", ctx(), str("k")), sb.VisitOptions{PushValue: true, Cast: c.typ})
			prog, err := b.Build()
			if err != nil {
				testutil.FatalErr(t, err)
			}
			if sink.HasErrors() {
				t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
			}

			m, err := vm.Execute(prog.Script, vmtest.New())
			if err != nil {
				testutil.FatalErr(t, err)
			}
			stack := m.Stack()
			if len(stack) != 2 {
				t.Fatalf("got %d stack items, want 2", len(stack))
			}
			if !sameItem(stack[1], stack[0]) {
				t.Errorf("got %s, want %s", vm.Format(stack[1]), vm.Format(stack[0]))
			}
		})
	}
}

func TestStorageGetMissing(t *testing.T) {
	typ := types.NewUnion(types.NumberType, types.UndefinedType)
	script, sink := compile(t, nil, sysCall("Neo.Storage.Get", &ast.Ident{Name: "ctx"}, str("nope")), sb.VisitOptions{PushValue: true, Cast: typ})
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	m, err := vm.Execute(script, vmtest.New())
	if err != nil {
		testutil.FatalErr(t, err)
	}
	got, _ := m.Result()
	want := vm.NewArray(vm.NewInt(int64(helper.TagUndefined)), vm.NewInt(0))
	if !sameItem(got, want) {
		t.Errorf("got %s, want %s", vm.Format(got), vm.Format(want))
	}
}

func TestNotify(t *testing.T) {
	name, amount := str("transfer"), num(5)
	f := facts{name: types.StringType, amount: types.NumberType}
	script, sink := compile(t, f, sysCall("Neo.Runtime.Notify", name, amount), sb.VisitOptions{})
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	h := vmtest.New()
	if _, err := vm.Execute(script, h); err != nil {
		testutil.FatalErr(t, err)
	}
	if len(h.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(h.Notifications))
	}
	want := vm.NewArray(vm.ByteArray("transfer"), vm.NewInt(5))
	if got := h.Notifications[0].State; !sameItem(got, want) {
		t.Errorf("got %s, want %s", vm.Format(got), vm.Format(want))
	}
}

func TestAppCall(t *testing.T) {
	h := vmtest.New()
	callee, err := vm.Assemble("DROP DROP 42 RET")
	if err != nil {
		testutil.FatalErr(t, err)
	}
	hash := h.Deploy(callee)

	from := &ast.CallExpr{
		Fun:  &ast.SelectorExpr{X: &ast.Ident{Name: "Buffer"}, Sel: "from"},
		Args: []ast.Expr{str(hex.EncodeToString(hash[:])), str("hex")},
	}
	method, arg := str("answer"), num(1)
	f := facts{method: types.StringType, arg: types.NumberType}
	call := sysCall("Neo.Runtime.Call", from, method, arg)
	script, sink := compile(t, f, call, sb.VisitOptions{PushValue: true, Cast: types.NumberType})
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	m, err := vm.Execute(script, h)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	got, _ := m.Result()
	want := vm.NewArray(vm.NewInt(int64(helper.TagNumber)), vm.NewInt(42))
	if !sameItem(got, want) {
		t.Errorf("got %s, want %s", vm.Format(got), vm.Format(want))
	}

	_, sink = compile(t, nil, sysCall("Neo.Runtime.Call", str("x"), method), sb.VisitOptions{})
	if !sink.Has(diag.InvalidSysCall) {
		t.Error("expected INVALID_SYS_CALL for a computed hash")
	}
}

func TestSignature(t *testing.T) {
	s, _ := Lookup("Neo.Storage.Put")
	want := "function syscall(name: 'Neo.Storage.Put', context: StorageContextBase, key: Buffer | string, value: SerializableValue): void;"
	if got := s.Signature(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
