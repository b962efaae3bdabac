package transpile

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"neochain/compiler/abi"
	"neochain/compiler/ast"
	"neochain/compiler/diag"
	"neochain/compiler/frontend"
	"neochain/compiler/parser"
	"neochain/testutil"
)

const header = `import { SmartContract, MapStorage, SetStorage, Address, Buffer, createEventHandler, constant, verify, syscall } from '@neo-one/smart-contract';
`

const token = header + `
const transferred = createEventHandler<Address, number>('transfer', 'to', 'amount');

class Base extends SmartContract {
  protected count: number = 0;
  public bump(): void {
    this.count += 1;
  }
  public name(): string {
    return 'base';
  }
}

export class Token extends Base {
  private readonly balances = new MapStorage<Address, number>();
  private readonly holders = new SetStorage<Address>();
  public readonly decimals = 8;
  public note: string = '';

  public constructor(public readonly owner: Address) {
    super();
  }

  @constant
  public get total(): number {
    return this.count;
  }

  @verify
  public mint(to: Address, amount: number) {
    const current = this.balances.get(to);
    this.balances.set(to, amount);
    this.holders.add(to);
    transferred(to, amount);
    return current;
  }

  public name(): string {
    return 'token';
  }
}
`

func plan(t *testing.T, src string) (*ast.File, *Plan, *diag.Sink) {
	t.Helper()
	f, err := parser.Parse("token.ts", []byte(src))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	sink := diag.NewSink("token.ts")
	info := frontend.Check(f, sink)
	return f, Build(info, f, sink), sink
}

func classNamed(f *ast.File, name string) *ast.ClassDecl {
	for _, d := range f.Decls {
		if cls, ok := d.(*ast.ClassDecl); ok && cls.Name == name {
			return cls
		}
	}
	return nil
}

func TestBuildEntries(t *testing.T) {
	f, p, sink := plan(t, token)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	if p.Contract != classNamed(f, "Token") {
		t.Fatalf("contract = %v", p.Contract)
	}

	var got []string
	for _, fn := range p.Functions() {
		var ps []string
		for _, param := range fn.Parameters {
			ps = append(ps, param.Name+":"+string(param.Type))
		}
		got = append(got, fn.Name+"("+strings.Join(ps, ",")+")"+string(fn.ReturnType))
	}
	want := []string{
		"deploy(owner:Hash160)Boolean",
		"decimals()Integer",
		"note()String",
		"setNote(value:String)Void",
		"owner()Hash160",
		"total()Integer",
		"mint(to:Hash160,amount:Integer)Integer",
		"name()String",
		"bump()Void",
	}
	testutil.ExpectEqual(t, got, want, "entries")

	if p.Deploy == nil || p.Deploy != p.Entries[0] || p.Deploy.Kind != EntryDeploy {
		t.Errorf("deploy entry %s", spew.Sdump(p.Deploy))
	}
	// name() is taken from Token, not Base.
	for _, e := range p.Entries {
		if e.ABI.Name == "name" && e.Method.Class != p.Contract {
			t.Errorf("name() dispatches to %s", e.Method.Class.Name)
		}
	}
	verify := p.Verify()
	if len(verify) != 1 || verify[0].ABI.Name != "mint" {
		t.Errorf("verify entries %s", spew.Sdump(verify))
	}
	fns := p.Functions()
	if !fns[1].Constant || !fns[5].Constant || fns[6].Constant {
		t.Errorf("constant flags %s", spew.Sdump(fns))
	}
	if p.Owner == nil || p.Owner.Name != "owner" {
		t.Errorf("owner = %v", p.Owner)
	}
}

func TestBuildVerifyMembers(t *testing.T) {
	_, p, sink := plan(t, header+`
export class Gate extends SmartContract {
  @verify
  public open: boolean = false;
  private secret: number = 0;

  @verify
  public get code(): number {
    return this.secret;
  }

  public set code(v: number) {
    this.secret = v;
  }

  public check(): boolean {
    return this.open;
  }
}
`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics %v", sink.Diagnostics())
	}
	var got []string
	for _, e := range p.Verify() {
		got = append(got, e.ABI.Name)
	}
	testutil.ExpectEqual(t, got, []string{"open", "setOpen", "code"}, "verify entries")
}

func TestBuildFields(t *testing.T) {
	f, p, _ := plan(t, token)
	base, tok := classNamed(f, "Base"), classNamed(f, "Token")
	cases := []struct {
		cls  *ast.ClassDecl
		name string
		want FieldKind
	}{
		{base, "count", StorageField},
		{tok, "balances", MapField},
		{tok, "holders", SetField},
		{tok, "decimals", ConstantField},
		{tok, "note", StorageField},
		{tok, "owner", StorageField},
	}
	for _, c := range cases {
		fd := c.cls.Lookup(c.name)[0].(*ast.PropertyDecl)
		if got := p.Field(fd); got != c.want {
			t.Errorf("field %s is %s, want %s", c.name, got, c.want)
		}
	}
	if !p.NeedsInit(tok) || !p.NeedsInit(base) {
		t.Error("both classes run initializers")
	}
	if got := len(p.InitParams(tok)); got != 1 {
		t.Errorf("got %d init params, want 1", got)
	}
	if got := len(p.InitParams(base)); got != 0 {
		t.Errorf("got %d base init params, want 0", got)
	}
}

func TestBuildEvents(t *testing.T) {
	f, p, _ := plan(t, token)
	if len(p.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(p.Events))
	}
	want := abi.Event{Name: "transfer", Parameters: []abi.Parameter{
		{Name: "to", Type: abi.Hash160},
		{Name: "amount", Type: abi.Integer},
	}}
	testutil.ExpectEqual(t, p.ABIEvents()[0], want, "event")
	var decl *ast.VarDecl
	for _, d := range f.Decls {
		if v, ok := d.(*ast.VarDecl); ok && v.Name == "transferred" {
			decl = v
		}
	}
	if decl == nil {
		t.Fatal("no transferred declaration")
	}
	if p.Event(decl) != p.Events[0] {
		t.Error("event not found by declaration")
	}
}

func TestBuildProperties(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want abi.Properties
	}{
		{"token", token, abi.Properties{Storage: true}},
		{"pure", header + `
export class C extends SmartContract {
  public add(a: number, b: number): number { return a + b; }
}`, abi.Properties{}},
		{"map write", header + `
export class C extends SmartContract {
  private readonly m = new MapStorage<string, number>();
  public put(k: string): void { this.m.set(k, 1); }
}`, abi.Properties{Storage: true}},
		{"map read", header + `
export class C extends SmartContract {
  private readonly m = new MapStorage<string, number>();
  public get(k: string): number | undefined { return this.m.get(k); }
}`, abi.Properties{}},
		{"syscall", header + `
export class C extends SmartContract {
  public wipe(k: string): void {
    syscall('Neo.Storage.Delete', syscall('Neo.Storage.GetContext'), k);
  }
  public paid(): number {
    return syscall('Neo.Transaction.GetOutputs', syscall('System.ExecutionEngine.GetScriptContainer')).length;
  }
}`, abi.Properties{Storage: true, Payable: true}},
	}
	for _, c := range cases {
		_, p, sink := plan(t, c.src)
		if sink.HasErrors() {
			t.Errorf("%s: unexpected diagnostics %v", c.name, sink.Diagnostics())
			continue
		}
		testutil.ExpectEqual(t, p.Properties, c.want, c.name)
	}
}

func TestOverride(t *testing.T) {
	yes, no := true, false
	_, p, sink := plan(t, token)
	p.Override(abi.PropertyOverrides{Payable: &yes})
	if !p.Properties.Payable || sink.HasErrors() {
		t.Errorf("payable override: %+v %v", p.Properties, sink.Diagnostics())
	}
	p.Override(abi.PropertyOverrides{Storage: &no})
	if !sink.Has(diag.InvalidContractProperties) || !p.Properties.Storage {
		t.Errorf("storage cannot be switched off: %+v %v", p.Properties, sink.Diagnostics())
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"no contract", header + `class A {}`, diag.InvalidContract},
		{"two contracts", header + `export class A extends SmartContract {} export class B extends SmartContract {}`, diag.InvalidContract},
		{"readonly store", header + `
export class C extends SmartContract {
  public readonly x: number = 1;
  public f(): void { this.x = 2; }
}`, diag.InvalidReadonlyAssignment},
		{"getter store", header + `
export class C extends SmartContract {
  public get x(): number { return 1; }
  public f(): void { this.x = 2; }
}`, diag.InvalidReadonlyAssignment},
		{"map reassign", header + `
export class C extends SmartContract {
  private m = new MapStorage<string, number>();
  public f(): void { this.m = new MapStorage<string, number>(); }
}`, diag.UnsupportedSyntax},
		{"public map", header + `
export class C extends SmartContract {
  public readonly m = new MapStorage<string, number>();
}`, diag.InvalidContractType},
		{"map without new", header + `
export class C extends SmartContract {
  private readonly m: MapStorage<string, number>;
}`, diag.InvalidContractType},
		{"duplicate method", header + `
export class C extends SmartContract {
  public setX(v: number): void {}
  public set x(v: number) {}
  public get x(): number { return 1; }
}`, diag.InvalidContractMethod},
		{"union param", header + `
export class C extends SmartContract {
  public f(v: number | string): void {}
}`, diag.InvalidContractType},
		{"reserved deploy", header + `
export class C extends SmartContract {
  public deploy(): boolean { return true; }
}`, diag.UnsupportedSyntax},
		{"missing super", header + `
abstract class B extends SmartContract { public x: number = 1; }
export class C extends B {
  public constructor() { this.x = 2; }
}`, diag.UnsupportedSyntax},
		{"static", header + `
export class C extends SmartContract {
  public static f(): void {}
}`, diag.UnsupportedSyntax},
		{"event arity", header + `
const ev = createEventHandler<number, number>('ev', 'a');
export class C extends SmartContract {}`, diag.InvalidContractEvent},
		{"event name", header + `
const n = 'ev';
const ev = createEventHandler<number>(n, 'a');
export class C extends SmartContract {}`, diag.InvalidContractEvent},
		{"duplicate event", header + `
const a = createEventHandler<number>('ev', 'a');
const b = createEventHandler<number>('ev', 'a');
export class C extends SmartContract {}`, diag.InvalidContractEvent},
		{"unstorable", header + `
class P { x: number = 1; }
export class C extends SmartContract {
  private p: P = new P();
}`, diag.InvalidContractType},
	}
	for _, c := range cases {
		_, _, sink := plan(t, c.src)
		if !sink.Has(c.code) {
			t.Errorf("%s: got %v, want %s", c.name, sink.Diagnostics(), c.code)
		}
	}
}
