package vmutil

import (
	"encoding/binary"
	"math"
	"math/big"

	"neochain/crypto/hash160"
	"neochain/errors"
	"neochain/protocol/vm"
)

var (
	ErrUnresolvedJump = errors.New("unresolved jump target")
	ErrJumpRange      = errors.New("jump target out of range")
)

type Builder struct {
	program     []byte
	jumpCounter int

	// Maps a jump target number to its absolute address.
	jumpAddr map[int]uint32

	// Maps a jump target number to the list of jump instructions
	// whose relative offset must be filled in once it is known.
	jumpPlaceholders map[int][]int
}

func NewBuilder() *Builder {
	return &Builder{
		jumpAddr:         make(map[int]uint32),
		jumpPlaceholders: make(map[int][]int),
	}
}

// Len returns the current program length, which is the offset of the
// next instruction added.
func (b *Builder) Len() int { return len(b.program) }

// AddInt64 adds a pushdata instruction for an integer value.
func (b *Builder) AddInt64(n int64) *Builder {
	b.program = append(b.program, vm.PushdataInt64(n)...)
	return b
}

// AddBigInt adds a pushdata instruction for an arbitrary integer.
func (b *Builder) AddBigInt(n *big.Int) *Builder {
	b.program = append(b.program, vm.PushdataInt(n)...)
	return b
}

// AddData adds a pushdata instruction for a given byte string.
func (b *Builder) AddData(data []byte) *Builder {
	b.program = append(b.program, vm.PushdataBytes(data)...)
	return b
}

// AddBool pushes PUSH1 for true and PUSH0 for false.
func (b *Builder) AddBool(v bool) *Builder {
	if v {
		return b.AddOp(vm.OP_PUSH1)
	}
	return b.AddOp(vm.OP_PUSH0)
}

// AddRawBytes simply appends the given bytes to the program. (It does
// not introduce a pushdata opcode.)
func (b *Builder) AddRawBytes(data []byte) *Builder {
	b.program = append(b.program, data...)
	return b
}

// AddOp adds the given opcode to the program.
func (b *Builder) AddOp(op vm.Op) *Builder {
	b.program = append(b.program, byte(op))
	return b
}

// AddSysCall adds a SYSCALL instruction. Names missing from
// vm.SysCalls are rejected and nothing is added.
func (b *Builder) AddSysCall(name string) error {
	if _, ok := vm.SysCalls[name]; !ok {
		return errors.WithDetailf(vm.ErrUnknownSysCall, "%q", name)
	}
	if len(name) > math.MaxUint8 {
		return errors.WithDetailf(vm.ErrUnknownSysCall, "name of %d bytes", len(name))
	}
	b.AddOp(vm.OP_SYSCALL)
	b.program = append(b.program, byte(len(name)))
	b.program = append(b.program, name...)
	return nil
}

// AddAppCall adds an APPCALL to the contract with the given script hash.
func (b *Builder) AddAppCall(hash hash160.Uint160) *Builder {
	b.AddOp(vm.OP_APPCALL)
	b.program = append(b.program, hash[:]...)
	return b
}

// NewJumpTarget allocates a number that can be used as a jump target
// in AddJump. Call SetJumpTarget to associate the number with a
// program location.
func (b *Builder) NewJumpTarget() int {
	b.jumpCounter++
	return b.jumpCounter
}

// AddJump adds a jump or call opcode (JMP, JMPIF, JMPIFNOT or CALL)
// whose target is the given target number. The actual program location
// of the target does not need to be known yet, as long as
// SetJumpTarget is called before Build.
func (b *Builder) AddJump(op vm.Op, target int) *Builder {
	if !op.IsJump() {
		panic("vmutil: AddJump with " + op.String())
	}
	b.jumpPlaceholders[target] = append(b.jumpPlaceholders[target], len(b.program))
	b.AddOp(op)
	b.AddRawBytes([]byte{0, 0})
	return b
}

// SetJumpTarget associates the given jump-target number with the
// current position in the program - namely, the program's length,
// such that the first instruction executed by a jump using this
// target will be whatever instruction is added next. It is legal for
// SetJumpTarget to be called at the end of the program, causing jumps
// using that target to fall off the end. There must be a call to
// SetJumpTarget for every jump target used before any call to Build.
func (b *Builder) SetJumpTarget(target int) *Builder {
	b.jumpAddr[target] = uint32(len(b.program))
	return b
}

// JumpTargetSet reports whether SetJumpTarget has been called for target.
func (b *Builder) JumpTargetSet(target int) bool {
	_, ok := b.jumpAddr[target]
	return ok
}

// Build produces the bytecode of the program. It first resolves any
// jumps in the program by filling in the offsets of their targets,
// relative to the jump instruction. If any target's address hasn't
// been set, this function produces ErrUnresolvedJump; a target more
// than 32KiB away produces ErrJumpRange.
func (b *Builder) Build() ([]byte, error) {
	for target, placeholders := range b.jumpPlaceholders {
		addr, ok := b.jumpAddr[target]
		if !ok {
			return nil, errors.Wrapf(ErrUnresolvedJump, "target %d", target)
		}
		for _, at := range placeholders {
			off := int(addr) - at
			if off < math.MinInt16 || off > math.MaxInt16 {
				return nil, errors.Wrapf(ErrJumpRange, "target %d at offset %d", target, off)
			}
			binary.LittleEndian.PutUint16(b.program[at+1:at+3], uint16(int16(off)))
		}
	}
	return b.program, nil
}
