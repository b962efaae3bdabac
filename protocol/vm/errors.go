package vm

import "neochain/errors"

var (
	ErrAltStackUnderflow  = errors.New("alt stack underflow")
	ErrBadValue           = errors.New("bad value")
	ErrDataStackUnderflow = errors.New("data stack underflow")
	ErrDivZero            = errors.New("division by zero")
	ErrRange              = errors.New("range error")
	ErrRunLimitExceeded   = errors.New("run limit exceeded")
	ErrShortProgram       = errors.New("unexpected end of program")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrToken              = errors.New("unrecognized token")
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrUnknownSysCall     = errors.New("unknown syscall")
	ErrUnknownScript      = errors.New("unknown script hash")
	ErrThrow              = errors.New("THROW executed")
	ErrBadJump            = errors.New("jump out of program")
	ErrNotSerializable    = errors.New("item not serializable")
	ErrBadEncoding        = errors.New("bad serialized item")
)
