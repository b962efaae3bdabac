package vm

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"neochain/errors"
)

// Assemble converts a string like "2 3 ADD 5 NUMEQUAL" into 0x525393559c.
//
// Notation:
//
//	WORD              mnemonic
//	12345             number, pushed in its shortest form
//	0x0102            hex data
//	'foo'             string data, with \' and \\ escapes
//	$loop             label definition
//	JMPIF:$loop       jump or call to a label
//	JMP:+3            jump by a literal offset
//	SYSCALL:Neo.X.Y   syscall by name
//	APPCALL:0x...     call the contract with the given 20-byte hash
func Assemble(s string) (res []byte, err error) {
	type fixup struct {
		label string
		at    int // index of the jump opcode
	}
	var (
		labels = make(map[string]int)
		fixups []fixup
	)

	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	for _, tok := range toks {
		switch {
		case strings.HasPrefix(tok, "$"):
			if _, ok := labels[tok]; ok {
				return nil, errors.WithDetailf(ErrToken, "label %s defined twice", tok)
			}
			labels[tok] = len(res)

		case strings.HasPrefix(tok, "'"):
			res = append(res, PushdataBytes([]byte(tok[1:]))...)

		case strings.HasPrefix(tok, "0x"):
			b, err := hex.DecodeString(tok[2:])
			if err != nil {
				return nil, err
			}
			res = append(res, PushdataBytes(b)...)

		case strings.Contains(tok, ":"):
			i := strings.Index(tok, ":")
			name, arg := tok[:i], tok[i+1:]
			info, ok := opsByName[name]
			if !ok {
				return nil, errors.WithDetailf(ErrToken, "unknown mnemonic %s", name)
			}
			switch {
			case info.op.IsJump():
				if strings.HasPrefix(arg, "$") {
					fixups = append(fixups, fixup{arg, len(res)})
					res = append(res, byte(info.op), 0, 0)
					break
				}
				off, err := strconv.ParseInt(arg, 10, 16)
				if err != nil {
					return nil, errors.WithDetailf(ErrToken, "bad offset %s", arg)
				}
				res = append(res, byte(info.op), 0, 0)
				binary.LittleEndian.PutUint16(res[len(res)-2:], uint16(int16(off)))
			case info.op == OP_SYSCALL:
				if len(arg) == 0 || len(arg) > math.MaxUint8 {
					return nil, errors.WithDetailf(ErrToken, "bad syscall name %q", arg)
				}
				res = append(res, byte(OP_SYSCALL), byte(len(arg)))
				res = append(res, arg...)
			case info.op == OP_APPCALL || info.op == OP_TAILCALL:
				b, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
				if err != nil {
					return nil, err
				}
				if len(b) != 20 {
					return nil, errors.WithDetailf(ErrToken, "script hash %s is not 20 bytes", arg)
				}
				res = append(res, byte(info.op))
				res = append(res, b...)
			default:
				return nil, errors.WithDetailf(ErrToken, "%s takes no operand", name)
			}

		case isNumber(tok):
			n, ok := new(big.Int).SetString(tok, 10)
			if !ok {
				return nil, errors.WithDetailf(ErrToken, "bad number %s", tok)
			}
			res = append(res, PushdataInt(n)...)

		default:
			info, ok := opsByName[tok]
			if !ok {
				return nil, errors.WithDetailf(ErrToken, "unknown mnemonic %s", tok)
			}
			if info.op.IsJump() || info.op == OP_SYSCALL || info.op == OP_APPCALL || info.op == OP_TAILCALL {
				return nil, errors.WithDetailf(ErrToken, "%s needs an operand", tok)
			}
			if info.op >= OP_PUSHBYTES1 && info.op <= OP_PUSHDATA4 {
				return nil, errors.WithDetailf(ErrToken, "use hex or string data instead of %s", tok)
			}
			res = append(res, byte(info.op))
		}
	}

	for _, f := range fixups {
		target, ok := labels[f.label]
		if !ok {
			return nil, errors.WithDetailf(ErrToken, "undefined label %s", f.label)
		}
		off := target - f.at
		if off < math.MinInt16 || off > math.MaxInt16 {
			return nil, errors.WithDetailf(ErrRange, "jump to %s is too far", f.label)
		}
		binary.LittleEndian.PutUint16(res[f.at+1:], uint16(int16(off)))
	}
	return res, nil
}

func isNumber(tok string) bool {
	if strings.HasPrefix(tok, "-") {
		tok = tok[1:]
	}
	if tok == "" {
		return false
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// tokenize splits on whitespace. String tokens keep their leading
// quote and lose the trailing one, with escapes resolved.
func tokenize(s string) ([]string, error) {
	var toks []string
	r := []rune(s)
	for i := 0; i < len(r); {
		if unicode.IsSpace(r[i]) {
			i++
			continue
		}
		if r[i] == '\'' {
			var b strings.Builder
			b.WriteRune('\'')
			i++
			closed := false
			for i < len(r) {
				if r[i] == '\\' && i+1 < len(r) {
					b.WriteRune(r[i+1])
					i += 2
					continue
				}
				if r[i] == '\'' {
					closed = true
					i++
					break
				}
				b.WriteRune(r[i])
				i++
			}
			if !closed {
				return nil, errors.WithDetail(ErrToken, "unterminated string")
			}
			toks = append(toks, b.String())
			continue
		}
		start := i
		for i < len(r) && !unicode.IsSpace(r[i]) {
			i++
		}
		toks = append(toks, string(r[start:i]))
	}
	return toks, nil
}

// Disassemble renders prog in the notation accepted by Assemble.
// Jump targets that fall on instruction boundaries get labels.
func Disassemble(prog []byte) (string, error) {
	insts, err := ParseProgram(prog)
	if err != nil {
		return "", err
	}

	boundary := map[int]bool{len(prog): true}
	pc := 0
	for _, inst := range insts {
		boundary[pc] = true
		pc += int(inst.Len)
	}
	var targets []int
	seen := make(map[int]bool)
	pc = 0
	for _, inst := range insts {
		if inst.Op.IsJump() {
			t := pc + inst.Offset()
			if boundary[t] && !seen[t] {
				seen[t] = true
				targets = append(targets, t)
			}
		}
		pc += int(inst.Len)
	}
	sort.Ints(targets)
	labels := make(map[int]string)
	for i, t := range targets {
		labels[t] = labelName(i)
	}

	var words []string
	pc = 0
	for _, inst := range insts {
		if l, ok := labels[pc]; ok {
			words = append(words, l)
		}
		words = append(words, formatInst(inst, pc, labels))
		pc += int(inst.Len)
	}
	if l, ok := labels[pc]; ok {
		words = append(words, l)
	}
	return strings.Join(words, " "), nil
}

func labelName(i int) string {
	name := ""
	for {
		name = string(rune('a'+i%26)) + name
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return "$" + name
}

func formatInst(inst Instruction, pc int, labels map[int]string) string {
	switch {
	case inst.Op == OP_PUSH0, inst.Op == OP_PUSHM1, inst.Op >= OP_PUSH1 && inst.Op <= OP_PUSH16:
		return inst.Op.String()
	case inst.IsPushdata():
		return fmt.Sprintf("0x%x", inst.Data)
	case inst.Op.IsJump():
		if l, ok := labels[pc+inst.Offset()]; ok {
			return inst.Op.String() + ":" + l
		}
		return fmt.Sprintf("%s:%+d", inst.Op, inst.Offset())
	case inst.Op == OP_SYSCALL:
		return "SYSCALL:" + string(inst.Data)
	case inst.Op == OP_APPCALL || inst.Op == OP_TAILCALL:
		return fmt.Sprintf("%s:0x%x", inst.Op, inst.Data)
	}
	return inst.Op.String()
}
