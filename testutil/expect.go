// Package testutil holds helpers shared by the repository's tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"neochain/errors"
	"neochain/protocol/vm"
)

var wd, _ = os.Getwd()

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// ExpectEqual reports a test error showing both values in full when
// actual and expected differ under DeepEqual.
func ExpectEqual(t testing.TB, actual, expected interface{}, msg string) {
	t.Helper()
	if !DeepEqual(actual, expected) {
		t.Errorf("%s:\ngot:\n%s\nwant:\n%s", msg, dumper.Sdump(actual), dumper.Sdump(expected))
	}
}

// ExpectScriptEqual compares two programs and reports a mismatch
// as disassembly.
func ExpectScriptEqual(t testing.TB, actual, expected []byte, msg string) {
	t.Helper()
	if !bytes.Equal(expected, actual) {
		expectedStr, _ := vm.Disassemble(expected)
		actualStr, _ := vm.Disassemble(actual)
		t.Errorf("%s: got [%s], want [%s]\n%s", msg, actualStr, expectedStr, stackTrace())
	}
}

// ExpectError calls fn and checks the root of its error.
func ExpectError(t testing.TB, expected error, msg string, fn func() error) {
	t.Helper()
	actual := fn()
	if expected != errors.Root(actual) {
		t.Errorf("%s: got error %v, want %v\n%s", msg, actual, expected, stackTrace())
	}
}

// FatalErr fails the test, printing err and the stack recorded when
// it was created or wrapped.
func FatalErr(t testing.TB, err error) {
	t.Helper()
	args := []interface{}{err}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.IndexByte(frame.Func, '.')+1:]
		args = append(args, fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname))
	}
	t.Fatal(args...)
}

func stackTrace() []byte {
	buf := make([]byte, 16384)
	n := runtime.Stack(buf, false)
	return buf[:n]
}
