package codegen

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/parser"
	"neochain/compiler/sb"
	"neochain/compiler/transpile"
	"neochain/crypto/hash160"
	"neochain/protocol/vm"
	"neochain/protocol/vm/vmtest"
	"neochain/protocol/vmutil"
	"neochain/testutil"
)

const header = `import { SmartContract, MapStorage, SetStorage, Address, Buffer, createEventHandler, constant, verify, syscall } from '@neo-one/smart-contract';
`

func compile(t *testing.T, src string) (*sb.Program, *diag.Sink) {
	t.Helper()
	f, err := parser.Parse("contract.ts", []byte(header+src))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	sink := diag.NewSink("contract.ts")
	info := frontend.Check(f, sink)
	plan := transpile.Build(info, f, sink)
	if sink.HasErrors() {
		return nil, sink
	}
	prog, err := Compile(info, f, plan, sink)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	return prog, sink
}

func mustCompile(t *testing.T, src string) []byte {
	t.Helper()
	prog, sink := compile(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	return prog.Script
}

func invoke(t *testing.T, h *vmtest.Host, script []byte, method string, args ...vm.Item) vm.Item {
	t.Helper()
	m, err := vm.Invoke(script, h, method, args...)
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	if n := len(m.Stack()); n != 1 {
		t.Fatalf("%s left %d items: %s", method, n, spew.Sdump(m.Stack()))
	}
	res, _ := m.Result()
	return res
}

type call struct {
	method string
	args   []vm.Item
	want   vm.Item
}

func runCalls(t *testing.T, h *vmtest.Host, script []byte, calls []call) {
	t.Helper()
	for _, c := range calls {
		got := invoke(t, h, script, c.method, c.args...)
		if !vm.Equal(got, c.want) {
			t.Errorf("%s(%v) = %s, want %s", c.method, c.args, vm.Format(got), vm.Format(c.want))
		}
	}
}

func num(n int64) vm.Item { return vm.NewInt(n) }
func str(s string) vm.Item { return vm.ByteArray(s) }

const calc = `
function square(x: number): number {
  return x * x;
}

export class Calc extends SmartContract {
  public add(a: number, b: number): number { return a + b; }

  public sum(n: number): number {
    let total = 0;
    for (let i = 1; i <= n; i += 1) {
      total += i;
    }
    return total;
  }

  public fact(n: number): number {
    let r = 1;
    while (n > 1) {
      r = r * n;
      n -= 1;
    }
    return r;
  }

  public firstAbove(limit: number): number {
    let i = 0;
    while (true) {
      i += 1;
      if (i % 2 === 0) {
        continue;
      }
      if (i > limit) {
        break;
      }
    }
    return i;
  }

  public max(a: number, b: number): number { return a > b ? a : b; }
  public neg(a: number): number { return -a; }
  public greet(name: string): string { return 'hello ' + name; }
  public both(a: boolean, b: boolean): boolean { return a && b; }
  public either(a: boolean, b: boolean): boolean { return a || !b; }
  public same(a: string, b: string): boolean { return a === b; }
  public squared(x: number): number { return square(x) - 1; }
  public nothing(): void {}
}
`

func TestEntryStackDepth(t *testing.T) {
	script := mustCompile(t, calc)
	depth, err := vmutil.StackDepth(script)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if depth != -1 {
		t.Errorf("entry point leaves depth %d, want -1", depth)
	}
}

func TestExpressions(t *testing.T) {
	script := mustCompile(t, calc)
	runCalls(t, vmtest.New(), script, []call{
		{"add", []vm.Item{num(2), num(40)}, num(42)},
		{"sum", []vm.Item{num(10)}, num(55)},
		{"fact", []vm.Item{num(5)}, num(120)},
		{"firstAbove", []vm.Item{num(4)}, num(5)},
		{"max", []vm.Item{num(3), num(9)}, num(9)},
		{"max", []vm.Item{num(9), num(3)}, num(9)},
		{"neg", []vm.Item{num(7)}, num(-7)},
		{"greet", []vm.Item{str("bob")}, str("hello bob")},
		{"both", []vm.Item{vm.Boolean(true), vm.Boolean(false)}, vm.Boolean(false)},
		{"both", []vm.Item{vm.Boolean(true), vm.Boolean(true)}, vm.Boolean(true)},
		{"either", []vm.Item{vm.Boolean(false), vm.Boolean(false)}, vm.Boolean(true)},
		{"same", []vm.Item{str("a"), str("a")}, vm.Boolean(true)},
		{"same", []vm.Item{str("a"), str("b")}, vm.Boolean(false)},
		{"squared", []vm.Item{num(6)}, num(35)},
		{"nothing", nil, num(0)},
	})
}

func TestUnknownMethod(t *testing.T) {
	script := mustCompile(t, calc)
	if _, err := vm.Invoke(script, vmtest.New(), "missing"); err == nil {
		t.Error("expected unknown method to fault")
	}
	h := vmtest.New()
	h.Trigger = 0x20
	if _, err := vm.Invoke(script, h, "add", num(1), num(2)); err == nil {
		t.Error("expected unsupported trigger to fault")
	}
}

const counter = `
export class Counter extends SmartContract {
  private count: number = 0;
  public note: string = 'none';
  public readonly decimals = 8;

  public constructor(public readonly owner: Address) {
    super();
  }

  public bump(by: number): number {
    this.count += by;
    return this.count;
  }

  public get current(): number {
    return this.count;
  }

  public set current(v: number) {
    this.count = v;
  }
}
`

func TestStorageFields(t *testing.T) {
	script := mustCompile(t, counter)
	h := vmtest.New()
	owner := vm.ByteArray(testutil.TestOwner[:])
	runCalls(t, h, script, []call{
		{"deploy", []vm.Item{owner}, vm.Boolean(true)},
		{"bump", []vm.Item{num(5)}, num(5)},
		{"bump", []vm.Item{num(2)}, num(7)},
		{"current", nil, num(7)},
		{"setCurrent", []vm.Item{num(40)}, num(0)},
		{"current", nil, num(40)},
		{"note", nil, str("none")},
		{"setNote", []vm.Item{str("hi")}, num(0)},
		{"note", nil, str("hi")},
		{"decimals", nil, num(8)},
		{"owner", nil, owner},
	})

	hash := hash160.Sum(script)
	for _, key := range []string{"count", "note", "owner", deployedKey} {
		if _, ok := h.Get(hash, []byte(key)); !ok {
			t.Errorf("storage key %q missing", key)
		}
	}
	if _, ok := h.Get(hash, []byte("decimals")); ok {
		t.Error("constant field was stored")
	}
	if _, err := vm.Invoke(script, h, "deploy", owner); err == nil {
		t.Error("second deploy succeeded")
	}
}

func TestVerification(t *testing.T) {
	script := mustCompile(t, counter)
	h := vmtest.New()
	invoke(t, h, script, "deploy", vm.ByteArray(testutil.TestOwner[:]))

	h.Trigger = vmtest.TriggerVerification
	if got := invoke(t, h, script, "transfer"); vm.Bool(got) {
		t.Error("verified without the owner witness")
	}
	h.Witnesses[testutil.TestOwner] = true
	if got := invoke(t, h, script, "transfer"); !vm.Bool(got) {
		t.Error("owner witness not accepted")
	}
}

const token = `
const transferred = createEventHandler<Address, number>('transfer', 'to', 'amount');

export class Token extends SmartContract {
  private readonly balances = new MapStorage<Address, number>();
  private readonly holders = new SetStorage<Address>();

  public mint(to: Address, amount: number): number {
    const current = this.balances.get(to);
    const next = current === undefined ? amount : current + amount;
    this.balances.set(to, next);
    this.holders.add(to);
    transferred(to, amount);
    return next;
  }

  public balanceOf(who: Address): number {
    const v = this.balances.get(who);
    return v === undefined ? 0 : v;
  }

  public isHolder(who: Address): boolean {
    return this.holders.has(who);
  }

  public forget(who: Address): void {
    this.balances.delete(who);
    this.holders.delete(who);
  }

  @verify
  public check(who: Address): boolean {
    return syscall('Neo.Runtime.CheckWitness', who);
  }
}
`

func TestStructuredStorage(t *testing.T) {
	script := mustCompile(t, token)
	h := vmtest.New()
	alice := vm.ByteArray(testutil.TestOwner[:])
	bob := vm.ByteArray(make([]byte, 20))
	runCalls(t, h, script, []call{
		{"balanceOf", []vm.Item{alice}, num(0)},
		{"isHolder", []vm.Item{alice}, vm.Boolean(false)},
		{"mint", []vm.Item{alice, num(10)}, num(10)},
		{"mint", []vm.Item{alice, num(5)}, num(15)},
		{"mint", []vm.Item{bob, num(1)}, num(1)},
		{"balanceOf", []vm.Item{alice}, num(15)},
		{"isHolder", []vm.Item{alice}, vm.Boolean(true)},
		{"forget", []vm.Item{alice}, num(0)},
		{"balanceOf", []vm.Item{alice}, num(0)},
		{"isHolder", []vm.Item{alice}, vm.Boolean(false)},
		{"balanceOf", []vm.Item{bob}, num(1)},
	})
}

func TestEvents(t *testing.T) {
	script := mustCompile(t, token)
	h := vmtest.New()
	to := vm.ByteArray(testutil.TestOwner[:])
	invoke(t, h, script, "mint", to, num(3))
	if len(h.Notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(h.Notifications))
	}
	state, ok := h.Notifications[0].State.(*vm.Array)
	if !ok || len(state.Items) != 3 {
		t.Fatalf("notification state %s", spew.Sdump(h.Notifications[0].State))
	}
	want := []vm.Item{str("transfer"), to, num(3)}
	for i, it := range state.Items {
		if !vm.Equal(it, want[i]) {
			t.Errorf("state[%d] = %s, want %s", i, vm.Format(it), vm.Format(want[i]))
		}
	}
}

func TestVerifyMethod(t *testing.T) {
	script := mustCompile(t, token)
	h := vmtest.New()
	h.Trigger = vmtest.TriggerVerification
	who := vm.ByteArray(testutil.TestOwner[:])
	if vm.Bool(invoke(t, h, script, "check", who)) {
		t.Error("check passed without witness")
	}
	h.Witnesses[testutil.TestOwner] = true
	if !vm.Bool(invoke(t, h, script, "check", who)) {
		t.Error("check failed with witness")
	}
	// No owner field: anything else is refused.
	if vm.Bool(invoke(t, h, script, "mint", who, num(1))) {
		t.Error("verification of a non @verify method passed")
	}
}

func TestVerifyAccessors(t *testing.T) {
	script := mustCompile(t, `
export class Gate extends SmartContract {
  @verify
  public readonly open = true;

  @verify
  public get always(): boolean {
    return true;
  }

  public check(): boolean {
    return true;
  }
}
`)
	h := vmtest.New()
	h.Trigger = vmtest.TriggerVerification
	for _, method := range []string{"open", "always"} {
		if !vm.Bool(invoke(t, h, script, method)) {
			t.Errorf("verification through @verify member %s failed", method)
		}
	}
	if vm.Bool(invoke(t, h, script, "check")) {
		t.Error("verification of a non @verify method passed")
	}
}

func TestVirtualDispatch(t *testing.T) {
	script := mustCompile(t, `
abstract class Named extends SmartContract {
  public describe(): string {
    return 'I am ' + this.name();
  }
  protected name(): string {
    return 'base';
  }
}

export class Child extends Named {
  protected name(): string {
    return 'child';
  }
  public parent(): string {
    return super.name();
  }
}
`)
	runCalls(t, vmtest.New(), script, []call{
		{"describe", nil, str("I am child")},
		{"parent", nil, str("base")},
	})
}

const shapes = `
class Point {
  public x: number;
  public y: number;
  public constructor(x: number, y: number) {
    this.x = x;
    this.y = y;
  }
  public norm(): number {
    return this.x * this.x + this.y * this.y;
  }
}

class Point3 extends Point {
  public z: number = 0;
  public constructor(x: number, y: number, z: number) {
    super(x, y);
    this.z = z;
  }
  public norm(): number {
    return super.norm() + this.z * this.z;
  }
}

export class Shapes extends SmartContract {
  public norm3(x: number, y: number, z: number): number {
    const p = new Point3(x, y, z);
    return p.norm();
  }
}
`

func TestSuperClass(t *testing.T) {
	script := mustCompile(t, shapes)
	runCalls(t, vmtest.New(), script, []call{
		{"norm3", []vm.Item{num(1), num(2), num(3)}, num(14)},
	})

	f, err := parser.Parse("contract.ts", []byte(header+shapes))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	sink := diag.NewSink("contract.ts")
	info := frontend.Check(f, sink)
	c := &compiler{facts: info, plan: transpile.Build(info, f, sink), diags: sink, fns: map[fnKey]*function{}}
	classes := map[string]*ast.ClassDecl{}
	for _, d := range f.Decls {
		if cls, ok := d.(*ast.ClassDecl); ok {
			classes[cls.Name] = cls
		}
	}

	cases := []struct {
		class    string
		super    string
		contract bool
	}{
		{"Point", "", false},
		{"Point3", "Point", false},
		{"Shapes", "", true},
	}
	for _, tc := range cases {
		o := c.classScope(classes[tc.class])
		var got string
		if o.SuperClass != nil {
			got = o.SuperClass.Name
		}
		if got != tc.super || o.IsSmartContract != tc.contract {
			t.Errorf("classScope(%s) = {%q, %v}, want {%q, %v}", tc.class, got, o.IsSmartContract, tc.super, tc.contract)
		}
	}

	b := sb.New(info, sink)
	at := classes["Point3"]
	if base, ok := c.superBase(b, at, c.classScope(classes["Point3"])); !ok || base != classes["Point"] {
		t.Errorf("superBase in Point3 = %v, %v", base, ok)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("super without a base class in a clean compilation did not panic")
			}
		}()
		c.superBase(b, at, sb.VisitOptions{})
	}()
	sink.Errorf(at, diag.UnknownSymbol, "undefined: Base")
	if _, ok := c.superBase(b, at, sb.VisitOptions{}); ok {
		t.Error("superBase succeeded without a base class")
	}
}

func TestObjectsAndArrays(t *testing.T) {
	script := mustCompile(t, `
class Point {
  public x: number;
  public y: number = 0;
  public constructor(x: number, y: number) {
    this.x = x;
    this.y = y;
  }
  public norm(): number {
    return this.x * this.x + this.y * this.y;
  }
}

export class Lists extends SmartContract {
  public build(n: number): number {
    const xs: number[] = [];
    for (let i = 0; i < n; i += 1) {
      xs.push(i * 2);
    }
    const last = xs.pop();
    return xs.length * 100 + (last === undefined ? 0 : last);
  }

  public has(n: number): boolean {
    const xs = [1, 2, 3];
    return xs.includes(n);
  }

  public at(i: number): number {
    const xs = [10, 20, 30];
    xs[1] = 25;
    return xs[i];
  }

  public norm(x: number, y: number): number {
    const p = new Point(x, y);
    p.x += 1;
    return p.norm();
  }

  public field(name: string): number {
    const p = new Point(7, 8);
    p[name] = 9;
    return p.x * 10 + p.y;
  }

  public slice(s: string): string {
    return s.slice(1, 3);
  }

  public size(s: string): number {
    return s.length;
  }

  public byte(b: Buffer, i: number): number {
    return b[i];
  }

  public mixed(useBuf: boolean): number {
    const x: string | Buffer = useBuf ? Buffer.from('0102', 'hex') : 'hello';
    return x.slice(1).length;
  }
}
`)
	runCalls(t, vmtest.New(), script, []call{
		{"build", []vm.Item{num(4)}, num(306)},
		{"build", []vm.Item{num(0)}, num(0)},
		{"has", []vm.Item{num(2)}, vm.Boolean(true)},
		{"has", []vm.Item{num(5)}, vm.Boolean(false)},
		{"at", []vm.Item{num(1)}, num(25)},
		{"at", []vm.Item{num(2)}, num(30)},
		{"norm", []vm.Item{num(2), num(3)}, num(18)},
		{"field", []vm.Item{str("y")}, num(79)},
		{"field", []vm.Item{str("x")}, num(98)},
		{"slice", []vm.Item{str("abcdef")}, str("bc")},
		{"size", []vm.Item{str("abcdef")}, num(6)},
		{"byte", []vm.Item{vm.ByteArray{0x01, 0xff}, num(1)}, num(255)},
		{"mixed", []vm.Item{vm.Boolean(true)}, num(1)},
		{"mixed", []vm.Item{vm.Boolean(false)}, num(4)},
	})
}

func TestLibraryValues(t *testing.T) {
	script := mustCompile(t, `
const fee = 3;

export class Lib extends SmartContract {
  public hex(): Buffer {
    return Buffer.concat([Buffer.from('0102', 'hex'), Buffer.from('a')]);
  }
  public owner(): Address {
    return Address.from('`+testutil.TestOwner.Address()+`');
  }
  public withFee(x: number): number {
    return x + fee;
  }
  public time(): number {
    return syscall('Neo.Runtime.GetTime');
  }
}
`)
	h := vmtest.New()
	h.Time = 1234
	runCalls(t, h, script, []call{
		{"hex", nil, vm.ByteArray{1, 2, 'a'}},
		{"owner", nil, vm.ByteArray(testutil.TestOwner[:])},
		{"withFee", []vm.Item{num(1)}, num(4)},
		{"time", nil, vm.Integer{Value: big.NewInt(1234)}},
	})
}

func TestSourceMap(t *testing.T) {
	prog, sink := compile(t, calc)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	if len(prog.SourceMap) == 0 {
		t.Fatal("empty source map")
	}
	prev := -1
	for _, m := range prog.SourceMap {
		if m.Offset <= prev || m.Offset >= len(prog.Script) || m.Line < 1 {
			t.Fatalf("bad mapping %+v after offset %d", m, prev)
		}
		prev = m.Offset
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unknown syscall", `
export class C extends SmartContract {
  public f(): void { syscall('Neo.Nope'); }
}`, diag.InvalidSysCall},
		{"syscall name", `
const name = 'Neo.Runtime.GetTime';
export class C extends SmartContract {
  public f(): number { return syscall(name); }
}`, diag.InvalidSysCall},
		{"syscall arity", `
export class C extends SmartContract {
  public f(): void { syscall('Neo.Runtime.Log'); }
}`, diag.InvalidSysCall},
		{"event arity", `
const ev = createEventHandler<number>('ev', 'a');
export class C extends SmartContract {
  public f(): void { ev(1, 2); }
}`, diag.InvalidContractEvent},
		{"event argument type", `
const ev = createEventHandler<number, string>('ev', 'a', 'b');
export class C extends SmartContract {
  public f(): void { ev('a', 1); }
}`, diag.InvalidContractEvent},
		{"mixed plus", `
export class C extends SmartContract {
  public f(a: string, b: number): string { return a + b; }
}`, diag.UnsupportedSyntax},
		{"break outside loop", `
export class C extends SmartContract {
  public f(): void { break; }
}`, diag.UnsupportedSyntax},
		{"const assignment", `
const k = 1;
export class C extends SmartContract {
  public f(): void { k = 2; }
}`, diag.InvalidReadonlyAssignment},
		{"method value", `
export class C extends SmartContract {
  public g(): number { return 1; }
  public f(): void { const x = this.g; }
}`, diag.UnsupportedSyntax},
	}
	for _, c := range cases {
		_, sink := compile(t, c.src)
		if !sink.Has(c.code) {
			t.Errorf("%s: got %v, want %s", c.name, sink.Diagnostics(), c.code)
		}
	}
}
