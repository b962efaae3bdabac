package vm

import (
	"bytes"
	"encoding/hex"
	"testing"

	"neochain/errors"
)

func TestAssemble(t *testing.T) {
	cases := []struct {
		plain   string
		want    []byte
		wantErr error
	}{
		{"2 3 ADD 5 NUMEQUAL", mustDecodeHex("525393559c"), nil},
		{"0x02 3 ADD 5 NUMEQUAL", mustDecodeHex("01025393559c"), nil},
		{"19 14 SUB 5 NUMEQUAL", mustDecodeHex("01135e94559c"), nil},
		{"-1 0 PUSHT PUSHF", mustDecodeHex("4f005100"), nil},
		{"'Hello' 'WORLD' CAT 'HELLOWORLD' EQUAL", mustDecodeHex("0548656c6c6f05574f524c447e0a48454c4c4f574f524c4487"), nil},
		{`'H\'E' 'W' CAT 'H\'EW' EQUAL`, mustDecodeHex("0348274501577e044827455787"), nil},
		{"$a JMP:$a", mustDecodeHex("620000"), nil},
		{"JMPIFNOT:$b NOP $b", mustDecodeHex("64040061"), nil},
		{"SYSCALL:Neo.Runtime.Log", append([]byte{0x68, 15}, "Neo.Runtime.Log"...), nil},
		{`0x1`, nil, hex.ErrLength},
		{`BADTOKEN`, nil, ErrToken},
		{`JMP`, nil, ErrToken},
		{`JMP:$nowhere`, nil, ErrToken},
		{`'Unterminated quote`, nil, ErrToken},
	}

	for _, c := range cases {
		got, gotErr := Assemble(c.plain)

		if errors.Root(gotErr) != c.wantErr {
			t.Errorf("Assemble(%s) err = %v want %v", c.plain, errors.Root(gotErr), c.wantErr)
			continue
		}

		if c.wantErr != nil {
			continue
		}

		if !bytes.Equal(got, c.want) {
			t.Errorf("Assemble(%s) = %x want %x", c.plain, got, c.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	cases := []struct {
		raw     []byte
		want    string
		wantErr error
	}{
		{mustDecodeHex("525393559c"), "PUSH2 PUSH3 ADD PUSH5 NUMEQUAL", nil},
		{mustDecodeHex("01135e94559c"), "0x13 PUSH14 SUB PUSH5 NUMEQUAL", nil},
		{mustDecodeHex("620000"), "$a JMP:$a", nil},
		{mustDecodeHex("64040061"), "JMPIFNOT:$a NOP $a", nil},
		{mustDecodeHex("62ff7f"), "JMP:+32767", nil},
		{[]byte{0xff}, "", ErrUnknownOpcode},
		{[]byte{0x05, 0x01}, "", ErrShortProgram},
	}

	for _, c := range cases {
		got, gotErr := Disassemble(c.raw)

		if errors.Root(gotErr) != c.wantErr {
			t.Errorf("Disassemble(%x) err = %v want %v", c.raw, errors.Root(gotErr), c.wantErr)
			continue
		}

		if c.wantErr != nil {
			continue
		}

		if got != c.want {
			t.Errorf("Disassemble(%x) = %s want %s", c.raw, got, c.want)
		}
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	srcs := []string{
		"PUSH1 JMPIF:$a 0x0102 SYSCALL:Neo.Storage.Get $a RET",
		"CALL:$b RET $b 0x61 DROP RET",
	}
	for _, src := range srcs {
		prog, err := Assemble(src)
		if err != nil {
			t.Fatal(err)
		}
		dis, err := Disassemble(prog)
		if err != nil {
			t.Fatal(err)
		}
		again, err := Assemble(dis)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(prog, again) {
			t.Errorf("round trip of %q: got %x, want %x", src, again, prog)
		}
	}
}

func mustDecodeHex(h string) []byte {
	bits, err := hex.DecodeString(h)
	if err != nil {
		panic(err)
	}
	return bits
}
