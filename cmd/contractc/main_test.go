package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neochain/compiler/abi"
	"neochain/crypto/hash160"
	"neochain/log"
	"neochain/testutil"
)

const counter = `import { SmartContract } from '@neo-one/smart-contract';

export class Counter extends SmartContract {
  private count = 0;

  public bump(): number {
    this.count += 1;
    return this.count;
  }
}
`

func setup(t *testing.T, src string) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "counter.ts")
	if err := ioutil.WriteFile(file, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	log.SetOutput(ioutil.Discard)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		*flagOut, *flagMeta, *flagList = ".", "", false
	})
	*flagOut = dir
	return dir, file
}

func TestRun(t *testing.T) {
	dir, file := setup(t, counter)
	meta := filepath.Join(dir, "counter.yaml")
	if err := ioutil.WriteFile(meta, []byte("author: Jane\nversion: 1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagMeta = meta
	*flagList = true

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), file, &stdout, &stderr); code != 0 {
		t.Fatalf("exit status %d, stderr:\n%s", code, stderr.String())
	}

	avm, err := ioutil.ReadFile(filepath.Join(dir, "Counter.avm"))
	if err != nil {
		t.Fatal(err)
	}
	script, err := hex.DecodeString(string(avm))
	if err != nil {
		testutil.FatalErr(t, err)
	}

	b, err := ioutil.ReadFile(filepath.Join(dir, "Counter.manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var m abi.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m.Hash != hash160.Sum(script).String() {
		t.Errorf("manifest hash %s does not match the written script", m.Hash)
	}
	if m.Author != "Jane" || m.Version != "1.0.0" {
		t.Errorf("got author %q version %q, want Jane 1.0.0", m.Author, m.Version)
	}
	if _, ok := m.Function("bump"); !ok {
		t.Error("manifest lacks bump")
	}

	if _, err := os.Stat(filepath.Join(dir, "Counter.map.json")); err != nil {
		t.Error(err)
	}
	if !strings.HasPrefix(stdout.String(), "0000") {
		t.Errorf("listing does not start at offset 0:\n%s", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	_, file := setup(t, strings.Replace(counter, "this.count += 1;", "this.count += ;", 1))
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), file, &stdout, &stderr); code != 1 {
		t.Errorf("got exit status %d, want 1", code)
	}
	want := file + ":7:"
	if !strings.HasPrefix(stderr.String(), want) || !strings.Contains(stderr.String(), "error SYNTAX_ERROR:") {
		t.Errorf("got diagnostics %q, want a syntax error at %s", stderr.String(), want)
	}
}
