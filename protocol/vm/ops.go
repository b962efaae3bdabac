package vm

import (
	"encoding/binary"
	"fmt"
	"math"
)

type Op uint8

func (op Op) String() string {
	if name := ops[op].name; name != "" {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(op))
}

// Instruction is one decoded instruction. Data holds push data,
// the syscall name, the script hash of an APPCALL, or the raw
// two-byte offset of a jump.
type Instruction struct {
	Op   Op
	Len  uint32
	Data []byte
}

// Offset returns the signed jump offset of a jump or call.
func (inst Instruction) Offset() int {
	return int(int16(binary.LittleEndian.Uint16(inst.Data)))
}

// IsPushdata reports whether the instruction pushes a constant.
func (inst Instruction) IsPushdata() bool {
	return inst.Op <= OP_PUSH16 && inst.Op != OP_RESERVED
}

const (
	OP_PUSH0      Op = 0x00
	OP_PUSHBYTES1 Op = 0x01
	// 0x02 through 0x4a push that many bytes as well
	OP_PUSHBYTES75 Op = 0x4b
	OP_PUSHDATA1   Op = 0x4c
	OP_PUSHDATA2   Op = 0x4d
	OP_PUSHDATA4   Op = 0x4e
	OP_PUSHM1      Op = 0x4f
	OP_RESERVED    Op = 0x50
	OP_PUSH1       Op = 0x51
	OP_PUSH2       Op = 0x52
	OP_PUSH3       Op = 0x53
	OP_PUSH4       Op = 0x54
	OP_PUSH5       Op = 0x55
	OP_PUSH6       Op = 0x56
	OP_PUSH7       Op = 0x57
	OP_PUSH8       Op = 0x58
	OP_PUSH9       Op = 0x59
	OP_PUSH10      Op = 0x5a
	OP_PUSH11      Op = 0x5b
	OP_PUSH12      Op = 0x5c
	OP_PUSH13      Op = 0x5d
	OP_PUSH14      Op = 0x5e
	OP_PUSH15      Op = 0x5f
	OP_PUSH16      Op = 0x60

	OP_NOP      Op = 0x61
	OP_JMP      Op = 0x62
	OP_JMPIF    Op = 0x63
	OP_JMPIFNOT Op = 0x64
	OP_CALL     Op = 0x65
	OP_RET      Op = 0x66
	OP_APPCALL  Op = 0x67
	OP_SYSCALL  Op = 0x68
	OP_TAILCALL Op = 0x69

	OP_DUPFROMALTSTACK Op = 0x6a
	OP_TOALTSTACK      Op = 0x6b
	OP_FROMALTSTACK    Op = 0x6c
	OP_XDROP           Op = 0x6d
	OP_XSWAP           Op = 0x72
	OP_XTUCK           Op = 0x73
	OP_DEPTH           Op = 0x74
	OP_DROP            Op = 0x75
	OP_DUP             Op = 0x76
	OP_NIP             Op = 0x77
	OP_OVER            Op = 0x78
	OP_PICK            Op = 0x79
	OP_ROLL            Op = 0x7a
	OP_ROT             Op = 0x7b
	OP_SWAP            Op = 0x7c
	OP_TUCK            Op = 0x7d

	OP_CAT    Op = 0x7e
	OP_SUBSTR Op = 0x7f
	OP_LEFT   Op = 0x80
	OP_RIGHT  Op = 0x81
	OP_SIZE   Op = 0x82

	OP_INVERT Op = 0x83
	OP_AND    Op = 0x84
	OP_OR     Op = 0x85
	OP_XOR    Op = 0x86
	OP_EQUAL  Op = 0x87

	OP_INC         Op = 0x8b
	OP_DEC         Op = 0x8c
	OP_SIGN        Op = 0x8d
	OP_NEGATE      Op = 0x8f
	OP_ABS         Op = 0x90
	OP_NOT         Op = 0x91
	OP_NZ          Op = 0x92
	OP_ADD         Op = 0x93
	OP_SUB         Op = 0x94
	OP_MUL         Op = 0x95
	OP_DIV         Op = 0x96
	OP_MOD         Op = 0x97
	OP_SHL         Op = 0x98
	OP_SHR         Op = 0x99
	OP_BOOLAND     Op = 0x9a
	OP_BOOLOR      Op = 0x9b
	OP_NUMEQUAL    Op = 0x9c
	OP_NUMNOTEQUAL Op = 0x9e
	OP_LT          Op = 0x9f
	OP_GT          Op = 0xa0
	OP_LTE         Op = 0xa1
	OP_GTE         Op = 0xa2
	OP_MIN         Op = 0xa3
	OP_MAX         Op = 0xa4
	OP_WITHIN      Op = 0xa5

	OP_SHA1    Op = 0xa7
	OP_SHA256  Op = 0xa8
	OP_HASH160 Op = 0xa9
	OP_HASH256 Op = 0xaa

	OP_ARRAYSIZE Op = 0xc0
	OP_PACK      Op = 0xc1
	OP_UNPACK    Op = 0xc2
	OP_PICKITEM  Op = 0xc3
	OP_SETITEM   Op = 0xc4
	OP_NEWARRAY  Op = 0xc5
	OP_NEWSTRUCT Op = 0xc6
	OP_NEWMAP    Op = 0xc7
	OP_APPEND    Op = 0xc8
	OP_REVERSE   Op = 0xc9
	OP_REMOVE    Op = 0xca
	OP_HASKEY    Op = 0xcb
	OP_KEYS      Op = 0xcc
	OP_VALUES    Op = 0xcd

	OP_THROW      Op = 0xf0
	OP_THROWIFNOT Op = 0xf1
)

type opInfo struct {
	op   Op
	name string
	fn   func(*Machine) error
}

var (
	ops = [256]opInfo{
		OP_PUSH0:     {OP_PUSH0, "PUSH0", opPushdata},
		OP_PUSHDATA1: {OP_PUSHDATA1, "PUSHDATA1", opPushdata},
		OP_PUSHDATA2: {OP_PUSHDATA2, "PUSHDATA2", opPushdata},
		OP_PUSHDATA4: {OP_PUSHDATA4, "PUSHDATA4", opPushdata},
		OP_PUSHM1:    {OP_PUSHM1, "PUSHM1", opPushInt},

		OP_NOP:      {OP_NOP, "NOP", opNop},
		OP_JMP:      {OP_JMP, "JMP", opJmp},
		OP_JMPIF:    {OP_JMPIF, "JMPIF", opJmpIf},
		OP_JMPIFNOT: {OP_JMPIFNOT, "JMPIFNOT", opJmpIfNot},
		OP_CALL:     {OP_CALL, "CALL", opCall},
		OP_RET:      {OP_RET, "RET", opRet},
		OP_APPCALL:  {OP_APPCALL, "APPCALL", opAppCall},
		OP_SYSCALL:  {OP_SYSCALL, "SYSCALL", opSysCall},
		OP_TAILCALL: {OP_TAILCALL, "TAILCALL", opTailCall},

		OP_DUPFROMALTSTACK: {OP_DUPFROMALTSTACK, "DUPFROMALTSTACK", opDupFromAltStack},
		OP_TOALTSTACK:      {OP_TOALTSTACK, "TOALTSTACK", opToAltStack},
		OP_FROMALTSTACK:    {OP_FROMALTSTACK, "FROMALTSTACK", opFromAltStack},
		OP_XDROP:           {OP_XDROP, "XDROP", opXDrop},
		OP_XSWAP:           {OP_XSWAP, "XSWAP", opXSwap},
		OP_XTUCK:           {OP_XTUCK, "XTUCK", opXTuck},
		OP_DEPTH:           {OP_DEPTH, "DEPTH", opDepth},
		OP_DROP:            {OP_DROP, "DROP", opDrop},
		OP_DUP:             {OP_DUP, "DUP", opDup},
		OP_NIP:             {OP_NIP, "NIP", opNip},
		OP_OVER:            {OP_OVER, "OVER", opOver},
		OP_PICK:            {OP_PICK, "PICK", opPick},
		OP_ROLL:            {OP_ROLL, "ROLL", opRoll},
		OP_ROT:             {OP_ROT, "ROT", opRot},
		OP_SWAP:            {OP_SWAP, "SWAP", opSwap},
		OP_TUCK:            {OP_TUCK, "TUCK", opTuck},

		OP_CAT:    {OP_CAT, "CAT", opCat},
		OP_SUBSTR: {OP_SUBSTR, "SUBSTR", opSubstr},
		OP_LEFT:   {OP_LEFT, "LEFT", opLeft},
		OP_RIGHT:  {OP_RIGHT, "RIGHT", opRight},
		OP_SIZE:   {OP_SIZE, "SIZE", opSize},

		OP_INVERT: {OP_INVERT, "INVERT", opInvert},
		OP_AND:    {OP_AND, "AND", opAnd},
		OP_OR:     {OP_OR, "OR", opOr},
		OP_XOR:    {OP_XOR, "XOR", opXor},
		OP_EQUAL:  {OP_EQUAL, "EQUAL", opEqual},

		OP_INC:         {OP_INC, "INC", opInc},
		OP_DEC:         {OP_DEC, "DEC", opDec},
		OP_SIGN:        {OP_SIGN, "SIGN", opSign},
		OP_NEGATE:      {OP_NEGATE, "NEGATE", opNegate},
		OP_ABS:         {OP_ABS, "ABS", opAbs},
		OP_NOT:         {OP_NOT, "NOT", opNot},
		OP_NZ:          {OP_NZ, "NZ", opNz},
		OP_ADD:         {OP_ADD, "ADD", opAdd},
		OP_SUB:         {OP_SUB, "SUB", opSub},
		OP_MUL:         {OP_MUL, "MUL", opMul},
		OP_DIV:         {OP_DIV, "DIV", opDiv},
		OP_MOD:         {OP_MOD, "MOD", opMod},
		OP_SHL:         {OP_SHL, "SHL", opShl},
		OP_SHR:         {OP_SHR, "SHR", opShr},
		OP_BOOLAND:     {OP_BOOLAND, "BOOLAND", opBoolAnd},
		OP_BOOLOR:      {OP_BOOLOR, "BOOLOR", opBoolOr},
		OP_NUMEQUAL:    {OP_NUMEQUAL, "NUMEQUAL", opNumEqual},
		OP_NUMNOTEQUAL: {OP_NUMNOTEQUAL, "NUMNOTEQUAL", opNumNotEqual},
		OP_LT:          {OP_LT, "LT", opLt},
		OP_GT:          {OP_GT, "GT", opGt},
		OP_LTE:         {OP_LTE, "LTE", opLte},
		OP_GTE:         {OP_GTE, "GTE", opGte},
		OP_MIN:         {OP_MIN, "MIN", opMin},
		OP_MAX:         {OP_MAX, "MAX", opMax},
		OP_WITHIN:      {OP_WITHIN, "WITHIN", opWithin},

		OP_SHA1:    {OP_SHA1, "SHA1", opSha1},
		OP_SHA256:  {OP_SHA256, "SHA256", opSha256},
		OP_HASH160: {OP_HASH160, "HASH160", opHash160},
		OP_HASH256: {OP_HASH256, "HASH256", opHash256},

		OP_ARRAYSIZE: {OP_ARRAYSIZE, "ARRAYSIZE", opArraySize},
		OP_PACK:      {OP_PACK, "PACK", opPack},
		OP_UNPACK:    {OP_UNPACK, "UNPACK", opUnpack},
		OP_PICKITEM:  {OP_PICKITEM, "PICKITEM", opPickItem},
		OP_SETITEM:   {OP_SETITEM, "SETITEM", opSetItem},
		OP_NEWARRAY:  {OP_NEWARRAY, "NEWARRAY", opNewArray},
		OP_NEWSTRUCT: {OP_NEWSTRUCT, "NEWSTRUCT", opNewStruct},
		OP_NEWMAP:    {OP_NEWMAP, "NEWMAP", opNewMap},
		OP_APPEND:    {OP_APPEND, "APPEND", opAppend},
		OP_REVERSE:   {OP_REVERSE, "REVERSE", opReverse},
		OP_REMOVE:    {OP_REMOVE, "REMOVE", opRemove},
		OP_HASKEY:    {OP_HASKEY, "HASKEY", opHasKey},
		OP_KEYS:      {OP_KEYS, "KEYS", opKeys},
		OP_VALUES:    {OP_VALUES, "VALUES", opValues},

		OP_THROW:      {OP_THROW, "THROW", opThrow},
		OP_THROWIFNOT: {OP_THROWIFNOT, "THROWIFNOT", opThrowIfNot},
	}

	opsByName map[string]opInfo
)

// IsJump reports whether op carries a two-byte relative offset.
func (op Op) IsJump() bool {
	switch op {
	case OP_JMP, OP_JMPIF, OP_JMPIFNOT, OP_CALL:
		return true
	}
	return false
}

// ParseOp parses the op at position pc in prog, returning the parsed
// instruction (opcode plus any associated data).
func ParseOp(prog []byte, pc uint32) (inst Instruction, err error) {
	if len(prog) > math.MaxInt32 {
		return inst, ErrRange
	}
	l := uint32(len(prog))
	if pc >= l {
		return inst, ErrShortProgram
	}
	op := Op(prog[pc])
	inst.Op = op
	inst.Len = 1

	need := func(n uint32) error {
		if pc+1+n > l || pc+1+n < pc {
			return ErrShortProgram
		}
		return nil
	}

	switch {
	case op >= OP_PUSHBYTES1 && op <= OP_PUSHBYTES75:
		n := uint32(op)
		if err = need(n); err != nil {
			return inst, err
		}
		inst.Data = prog[pc+1 : pc+1+n]
		inst.Len = 1 + n
		return inst, nil

	case op == OP_PUSHDATA1 || op == OP_PUSHDATA2 || op == OP_PUSHDATA4:
		var prefix uint32
		switch op {
		case OP_PUSHDATA1:
			prefix = 1
		case OP_PUSHDATA2:
			prefix = 2
		default:
			prefix = 4
		}
		if err = need(prefix); err != nil {
			return inst, err
		}
		var n uint32
		switch prefix {
		case 1:
			n = uint32(prog[pc+1])
		case 2:
			n = uint32(binary.LittleEndian.Uint16(prog[pc+1:]))
		default:
			n = binary.LittleEndian.Uint32(prog[pc+1:])
		}
		if err = need(prefix + n); err != nil {
			return inst, err
		}
		inst.Data = prog[pc+1+prefix : pc+1+prefix+n]
		inst.Len = 1 + prefix + n
		return inst, nil

	case op >= OP_PUSH1 && op <= OP_PUSH16:
		inst.Data = []byte{uint8(op-OP_PUSH1) + 1}
		return inst, nil

	case op == OP_PUSHM1:
		inst.Data = []byte{0xff}
		return inst, nil

	case op.IsJump():
		if err = need(2); err != nil {
			return inst, err
		}
		inst.Data = prog[pc+1 : pc+3]
		inst.Len = 3
		return inst, nil

	case op == OP_APPCALL || op == OP_TAILCALL:
		if err = need(20); err != nil {
			return inst, err
		}
		inst.Data = prog[pc+1 : pc+21]
		inst.Len = 21
		return inst, nil

	case op == OP_SYSCALL:
		if err = need(1); err != nil {
			return inst, err
		}
		n := uint32(prog[pc+1])
		if err = need(1 + n); err != nil {
			return inst, err
		}
		inst.Data = prog[pc+2 : pc+2+n]
		inst.Len = 2 + n
		return inst, nil
	}

	if ops[op].fn == nil {
		return inst, ErrUnknownOpcode
	}
	return inst, nil
}

// ParseProgram decodes every instruction in prog.
func ParseProgram(prog []byte) ([]Instruction, error) {
	var result []Instruction
	for pc := uint32(0); pc < uint32(len(prog)); {
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
		pc += inst.Len
	}
	return result, nil
}

func init() {
	for i := 1; i <= 75; i++ {
		ops[i] = opInfo{Op(i), fmt.Sprintf("PUSHBYTES%d", i), opPushdata}
	}
	for i := 1; i <= 16; i++ {
		op := OP_PUSH1 - 1 + Op(i)
		ops[op] = opInfo{op, fmt.Sprintf("PUSH%d", i), opPushInt}
	}

	opsByName = make(map[string]opInfo)
	for _, info := range ops {
		if info.name != "" {
			opsByName[info.name] = info
		}
	}
	opsByName["PUSHF"] = ops[OP_PUSH0]
	opsByName["PUSHT"] = ops[OP_PUSH1]
}
