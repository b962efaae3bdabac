package diag

import (
	"testing"

	"neochain/compiler/ast"
)

func TestSink(t *testing.T) {
	s := NewSink("token.ts")
	s.Warnf(&ast.Ident{At: ast.Pos{Line: 3, Col: 4}, Name: "x"}, UnknownType, "unused %s", "x")
	s.Errorf(&ast.Ident{At: ast.Pos{Line: 1, Col: 2}, Name: "y"}, InvalidSysCall, "unknown syscall %q", "Neo.Nope")
	s.Unsupported(&ast.ThrowStmt{At: ast.Pos{Line: 3, Col: 0}})

	if !s.HasErrors() || s.ErrorCount() != 2 {
		t.Errorf("got %d errors, want 2", s.ErrorCount())
	}
	if !s.Has(UnsupportedSyntax) || s.Has(InvalidContract) {
		t.Error("Has reported the wrong codes")
	}

	got := s.Diagnostics()
	want := []string{
		`token.ts:1:2: error INVALID_SYS_CALL: unknown syscall "Neo.Nope"`,
		`token.ts:3:0: error UNSUPPORTED_SYNTAX: unsupported syntax: throw`,
		`token.ts:3:4: warning UNKNOWN_TYPE: unused x`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d diagnostics, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("diagnostic %d:\ngot  %s\nwant %s", i, got[i], want[i])
		}
	}
}

func TestWarningsDoNotFail(t *testing.T) {
	s := NewSink("a.ts")
	s.Warnf(nil, UnknownType, "w")
	if s.HasErrors() {
		t.Error("warning counted as error")
	}
}

func TestSinkDropsRepeats(t *testing.T) {
	s := NewSink("a.ts")
	id := &ast.Ident{At: ast.Pos{Line: 2, Col: 5}, Name: "missing"}
	s.Errorf(id, UnknownSymbol, "undefined: %s", id.Name)
	s.Errorf(id, UnknownSymbol, "undefined: %s", id.Name)
	s.Errorf(id, InvalidSysCall, "undefined: %s", id.Name)
	if n := len(s.Diagnostics()); n != 2 {
		t.Errorf("got %d diagnostics, want 2", n)
	}
}
