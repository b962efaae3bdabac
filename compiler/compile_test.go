package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"neochain/compiler/abi"
	"neochain/compiler/diag"
	"neochain/crypto/hash160"
	"neochain/errors"
	"neochain/log"
	"neochain/protocol/vm"
	"neochain/protocol/vm/vmtest"
	"neochain/testutil"
)

const token = `import { SmartContract, MapStorage, Address, createEventHandler, constant } from '@neo-one/smart-contract';

const notifyTransfer = createEventHandler<Address, number>('transfer', 'to', 'amount');

export class Token extends SmartContract {
  public readonly decimals = 8;
  private readonly balances = new MapStorage<Address, number>();

  public mint(to: Address, amount: number): boolean {
    this.balances.set(to, this.balanceOf(to) + amount);
    notifyTransfer(to, amount);
    return true;
  }

  @constant
  public balanceOf(who: Address): number {
    const b = this.balances.get(who);
    return b === undefined ? 0 : b;
  }
}
`

func quiet(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}

func TestCompile(t *testing.T) {
	quiet(t)
	ctx := log.WithRunID(context.Background(), "test-run")
	res, err := Compile(ctx, "token.ts", []byte(token), Options{})
	if err != nil {
		t.Fatalf("unexpected error %v\n%s", err, spew.Sdump(res.Diagnostics))
	}
	if res.Name != "Token" {
		t.Errorf("got name %q, want Token", res.Name)
	}
	m := res.Manifest
	if m.Hash != hash160.Sum(res.Script).String() {
		t.Errorf("got hash %s, want the hash of the script", m.Hash)
	}
	if !m.Properties.Storage {
		t.Error("contract using storage lacks the storage property")
	}
	for _, name := range []string{"mint", "balanceOf", "decimals"} {
		if _, ok := m.Function(name); !ok {
			t.Errorf("manifest lacks function %s", name)
		}
	}
	if f, _ := m.Function("balanceOf"); !f.Constant {
		t.Error("balanceOf is not constant")
	}
	wantEvents := []abi.Event{{
		Name: "transfer",
		Parameters: []abi.Parameter{
			{Name: "to", Type: abi.Hash160},
			{Name: "amount", Type: abi.Integer},
		},
	}}
	testutil.ExpectEqual(t, m.ABI.Events, wantEvents, "events")
	if len(res.SourceMap) == 0 {
		t.Error("empty source map")
	}

	h := vmtest.New()
	owner := vm.ByteArray(testutil.TestOwner[:])
	if _, err := vm.Invoke(res.Script, h, "mint", owner, vm.NewInt(5)); err != nil {
		testutil.FatalErr(t, err)
	}
	mach, err := vm.Invoke(res.Script, h, "balanceOf", owner)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if got, _ := mach.Result(); !vm.Equal(got, vm.NewInt(5)) {
		t.Errorf("balanceOf: got %s, want 5", vm.Format(got))
	}
}

func TestCompileMetadata(t *testing.T) {
	quiet(t)
	meta, err := abi.ParseMetadata([]byte("name: Coin\nauthor: Jane\nproperties:\n  payable: true\n"))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	res, err := Compile(context.Background(), "token.ts", []byte(token), Options{Metadata: meta})
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if res.Manifest.Name != "Coin" || res.Manifest.Author != "Jane" {
		t.Errorf("got name %q author %q, want Coin Jane", res.Manifest.Name, res.Manifest.Author)
	}
	if !res.Manifest.Properties.Payable {
		t.Error("payable override ignored")
	}
	if res.Name != "Token" {
		t.Errorf("got contract name %q, want Token", res.Name)
	}
}

func TestCompileErrors(t *testing.T) {
	quiet(t)
	cases := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"syntax", "export class {", diag.SyntaxError},
		{"no contract", "const x = 1;", diag.InvalidContract},
		{"unknown symbol", strings.Replace(token, "this.balanceOf(to)", "missing(to)", 1), diag.UnknownSymbol},
		{"event argument order", strings.Replace(token, "notifyTransfer(to, amount)", "notifyTransfer(amount, to)", 1), diag.InvalidContractEvent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := Compile(context.Background(), "bad.ts", []byte(c.src), Options{})
			if errors.Root(err) != ErrCompile {
				t.Fatalf("got error %v, want %v", err, ErrCompile)
			}
			if res.Script != nil || res.Manifest != nil {
				t.Error("failed compilation produced output")
			}
			found := false
			for _, d := range res.Diagnostics {
				if d.Code == c.code {
					found = true
				}
				if d.File != "bad.ts" {
					t.Errorf("diagnostic %s names file %q", d, d.File)
				}
			}
			if !found {
				t.Errorf("no %s among %s", c.code, spew.Sdump(res.Diagnostics))
			}
		})
	}
}

func TestCompileReportsEveryStage(t *testing.T) {
	quiet(t)
	src := `import { SmartContract, syscall } from '@neo-one/smart-contract';

export class C extends SmartContract {
  public pair(p: [number, string]): number {
    return 1;
  }

  public log(): void {
    syscall('Neo.Nope');
  }
}
`
	res, err := Compile(context.Background(), "bad.ts", []byte(src), Options{})
	if errors.Root(err) != ErrCompile {
		t.Fatalf("got error %v, want %v", err, ErrCompile)
	}
	for _, code := range []diag.Code{diag.InvalidContractType, diag.InvalidSysCall} {
		found := false
		for _, d := range res.Diagnostics {
			found = found || d.Code == code
		}
		if !found {
			t.Errorf("no %s among %s", code, spew.Sdump(res.Diagnostics))
		}
	}
	if res.Script != nil {
		t.Error("failed compilation produced a script")
	}
}

func TestCompileLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ctx := log.WithRunID(context.Background(), "abc-123")
	if _, err := Compile(ctx, "token.ts", []byte(token), Options{}); err != nil {
		testutil.FatalErr(t, err)
	}
	if !strings.Contains(buf.String(), "run=abc-123") || !strings.Contains(buf.String(), "contract=Token") {
		t.Errorf("log output %q lacks run id or contract", buf.String())
	}
}

func TestOutputs(t *testing.T) {
	quiet(t)
	res, err := Compile(context.Background(), "token.ts", []byte(token), Options{})
	if err != nil {
		testutil.FatalErr(t, err)
	}

	m := res.SourceMapFor("token.ts")
	b, err := json.Marshal(m)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	var back SourceMap
	if err := json.Unmarshal(b, &back); err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectScriptEqual(t, back.Script, res.Script, "source map script")
	if back.Hash != res.Manifest.Hash {
		t.Errorf("got hash %s, want %s", back.Hash, res.Manifest.Hash)
	}

	listing, err := res.Listing()
	if err != nil {
		testutil.FatalErr(t, err)
	}
	lines := strings.Split(strings.TrimSpace(listing), "\n")
	if !strings.HasPrefix(lines[0], "0000  ") {
		t.Errorf("first listing line %q does not start at offset 0", lines[0])
	}
	if !strings.Contains(listing, "SYSCALL Neo.Runtime.GetTrigger") {
		t.Errorf("listing lacks the trigger syscall:\n%s", listing)
	}
	if !strings.Contains(listing, "SYSCALL Neo.Runtime.Notify") {
		t.Errorf("listing lacks the notification:\n%s", listing)
	}
}
