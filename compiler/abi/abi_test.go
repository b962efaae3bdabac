package abi

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"neochain/crypto/hash160"
	"neochain/testutil"
)

func TestManifest(t *testing.T) {
	script := []byte{0x51, 0x66}
	meta := &Metadata{Name: "Token", Author: "dev", Version: "1.0"}
	fns := []Function{{Name: "balanceOf", Constant: true, Parameters: []Parameter{{"owner", Hash160}}, ReturnType: Integer}}
	m := NewManifest("Contract", script, meta, fns, nil, Properties{Storage: true})

	if m.Name != "Token" || m.Author != "dev" || m.Version != "1.0" {
		t.Errorf("metadata not applied: %s", spew.Sdump(m))
	}
	hash := hash160.Sum(script)
	if m.Hash != hash.String() || m.ABI.Hash != m.Hash {
		t.Errorf("hash = %s, want %s", m.Hash, hash)
	}
	got, err := hash160.FromAddress(m.Address)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if got != hash {
		t.Errorf("address decodes to %x, want %x", got[:], hash[:])
	}
	if f, ok := m.Function("balanceOf"); !ok || !f.Constant {
		t.Errorf("Function(balanceOf) = %+v, %v", f, ok)
	}
	if _, ok := m.Function("transfer"); ok {
		t.Error("found a function that was never declared")
	}

	b, err := json.Marshal(m)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	for _, want := range []string{
		`"entryPoint":"Main"`,
		`"events":[]`,
		`"parameters":["String","Array"]`,
		`"returnType":"ByteArray"`,
		`{"name":"balanceOf","constant":true,"parameters":[{"name":"owner","type":"Hash160"}],"returnType":"Integer"}`,
		`"properties":{"storage":true,"dynamicInvoke":false,"payable":false}`,
	} {
		if !strings.Contains(string(b), want) {
			t.Errorf("manifest JSON lacks %s\n%s", want, b)
		}
	}
}

func TestParseMetadata(t *testing.T) {
	src := `
name: Token
email: dev@example.com
properties:
  payable: true
`
	meta, err := ParseMetadata([]byte(src))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if meta.Name != "Token" || meta.Email != "dev@example.com" {
		t.Errorf("got %+v", meta)
	}
	p := meta.Properties
	if p.Payable == nil || !*p.Payable || p.Storage != nil || p.DynamicInvoke != nil {
		t.Errorf("properties = %s", spew.Sdump(p))
	}

	if _, err := ParseMetadata(nil); err != nil {
		t.Errorf("empty metadata: %v", err)
	}
	if _, err := ParseMetadata([]byte("nmae: Token\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}
