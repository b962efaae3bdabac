package vm

import (
	"strings"
	"testing"

	"neochain/errors"
)

// formatStack renders the stack bottom first.
func formatStack(stack []Item) string {
	parts := make([]string, len(stack))
	for i, it := range stack {
		parts[i] = Format(it)
	}
	return strings.Join(parts, " ")
}

func TestOps(t *testing.T) {
	cases := []struct {
		src     string
		want    string
		wantErr error
	}{
		// numeric
		{"2 3 ADD", "5", nil},
		{"19 14 SUB", "5", nil},
		{"-7 2 DIV", "-3", nil},
		{"-7 2 MOD", "-1", nil},
		{"1 0 DIV", "", ErrDivZero},
		{"1 3 SHL", "8", nil},
		{"16 2 SHR", "4", nil},
		{"5 INC DEC NEGATE ABS", "5", nil},
		{"-9 SIGN", "-1", nil},
		{"1 2 LT", "true", nil},
		{"2 1 LT", "false", nil},
		{"3 3 LTE 3 3 GTE BOOLAND", "true", nil},
		{"3 1 5 WITHIN", "true", nil},
		{"5 1 5 WITHIN", "false", nil},
		{"4 9 MIN 4 9 MAX", "4 9", nil},
		{"0 NOT 7 NZ", "true true", nil},
		{"6 3 AND 6 3 OR 6 3 XOR", "2 7 5", nil},
		{"5 5 NUMEQUAL 5 6 NUMNOTEQUAL", "true true", nil},

		// splice
		{"'ab' 'cd' CAT", "0x61626364", nil},
		{"'abcdef' 1 3 SUBSTR", "0x626364", nil},
		{"'abc' 2 9 SUBSTR", "0x63", nil},
		{"'abc' 2 LEFT 'abc' 2 RIGHT", "0x6162 0x6263", nil},
		{"'abc' 4 RIGHT", "", ErrRange},
		{"'abc' SIZE 0 SIZE 300 SIZE", "3 0 2", nil},
		{"'a' 'a' EQUAL 1 0x01 EQUAL", "true true", nil},

		// stack
		{"1 2 SWAP", "2 1", nil},
		{"1 2 3 ROT", "2 3 1", nil},
		{"1 2 3 2 ROLL", "2 3 1", nil},
		{"1 2 3 0 ROLL", "1 2 3", nil},
		{"1 2 3 2 PICK", "1 2 3 1", nil},
		{"1 2 OVER", "1 2 1", nil},
		{"1 2 NIP", "2", nil},
		{"1 2 TUCK", "2 1 2", nil},
		{"1 2 3 2 XSWAP", "3 2 1", nil},
		{"1 2 3 1 XDROP", "1 3", nil},
		{"1 2 3 2 XTUCK", "1 3 2 3", nil},
		{"1 2 DEPTH", "1 2 2", nil},
		{"DROP", "", ErrDataStackUnderflow},
		{"1 TOALTSTACK 2 DUPFROMALTSTACK FROMALTSTACK", "2 1 1", nil},
		{"FROMALTSTACK", "", ErrAltStackUnderflow},

		// collections
		{"1 2 2 PACK", "[2, 1]", nil},
		{"1 2 2 PACK DUP REVERSE", "[1, 2]", nil},
		{"1 2 2 PACK UNPACK", "1 2 2", nil},
		{"1 2 2 PACK 0 PICKITEM", "2", nil},
		{"1 2 2 PACK 2 PICKITEM", "", ErrRange},
		{"2 NEWARRAY", "[false, false]", nil},
		{"2 NEWARRAY DUP 1 7 SETITEM", "[false, 7]", nil},
		{"0 NEWARRAY DUP 5 APPEND ARRAYSIZE", "1", nil},
		{"NEWMAP DUP 'k' 1 SETITEM DUP 'k' HASKEY SWAP 'x' HASKEY", "true false", nil},
		{"NEWMAP DUP 'k' 1 SETITEM DUP KEYS SWAP VALUES", "[0x6b] [1]", nil},
		{"NEWMAP DUP 'k' 1 SETITEM DUP 'k' REMOVE ARRAYSIZE", "0", nil},
		{"1 2 2 PACK DUP 0 REMOVE", "[1]", nil},

		// control
		{"1 JMP:$a 2 $a 3", "1 3", nil},
		{"0 JMPIF:$a 2 $a", "2", nil},
		{"1 JMPIFNOT:$a 2 $a", "2", nil},
		{"CALL:$f 9 RET $f 7 RET", "7 9", nil},
		{"1 RET 2", "1", nil},
		{"THROW", "", ErrThrow},
		{"0 THROWIFNOT", "", ErrThrow},
		{"1 THROWIFNOT 4", "4", nil},
		{"JMP:+100", "", ErrBadJump},

		// crypto
		{"'abc' SHA256 SIZE", "32", nil},
		{"'abc' HASH160 SIZE 'abc' HASH256 SIZE 'abc' SHA1 SIZE", "20 32 20", nil},

		// native syscalls
		{"7 SYSCALL:Neo.Runtime.Serialize SYSCALL:Neo.Runtime.Deserialize", "7", nil},
		{"SYSCALL:Neo.Nope", "", ErrUnknownSysCall},
	}

	for _, c := range cases {
		prog, err := Assemble(c.src)
		if err != nil {
			t.Fatalf("Assemble(%q): %v", c.src, err)
		}
		m, err := Execute(prog, nil)
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) {
				t.Errorf("%s: err = %v, want %v", c.src, err, c.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.src, err)
			continue
		}
		if got := formatStack(m.Stack()); got != c.want {
			t.Errorf("%s: got stack %s, want %s", c.src, got, c.want)
		}
	}
}

func TestRunLimit(t *testing.T) {
	prog, err := Assemble("$loop JMP:$loop")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Execute(prog, nil)
	if !errors.Is(err, ErrRunLimitExceeded) {
		t.Errorf("got error %v, want %v", err, ErrRunLimitExceeded)
	}
}

func TestStructCopiedOnStore(t *testing.T) {
	// a struct stored into an array is copied, so the later SETITEM on
	// the original is not visible through the array
	prog, err := Assemble("1 NEWARRAY DUP 1 NEWSTRUCT DUP TOALTSTACK 0 SWAP SETITEM FROMALTSTACK 0 9 SETITEM")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Execute(prog, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := formatStack(m.Stack()), "[struct[false]]"; got != want {
		t.Errorf("got stack %s, want %s", got, want)
	}
}

func TestInvokeArguments(t *testing.T) {
	// the entry point sees the method on top and the argument array below
	prog, err := Assemble("SWAP ARRAYSIZE")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Invoke(prog, nil, "transfer", NewInt(1), NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := formatStack(m.Stack()), "0x7472616e73666572 2"; got != want {
		t.Errorf("got stack %s, want %s", got, want)
	}
}
