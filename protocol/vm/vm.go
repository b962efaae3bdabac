package vm

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"neochain/crypto/hash160"
	"neochain/errors"
)

const (
	initialRunLimit = 1 << 20
	maxStackSize    = 2 * 1024
	maxItemSize     = 1024 * 1024
	maxIntSize      = 32
)

// Host services the syscalls the machine does not implement itself.
// args[0] is the first argument, which was on top of the stack.
// Results are pushed in order, so the last result ends up on top.
type Host interface {
	SysCall(m *Machine, name string, args []Item) ([]Item, error)
}

// ScriptLoader is implemented by hosts able to resolve APPCALL and
// TAILCALL targets.
type ScriptLoader interface {
	Script(hash hash160.Uint160) ([]byte, error)
}

type frame struct {
	script []byte
	pc     uint32
}

// Machine is one execution of a script.
type Machine struct {
	script     []byte // the script currently executing
	entry      []byte // the outermost script
	pc, nextPC uint32
	runLimit   int64
	halted     bool

	// Stores the data parsed out of an opcode. Used as input to
	// data-pushing opcodes.
	data []byte

	// In each of these stacks, stack[len(stack)-1] is the top element.
	dataStack  []Item
	altStack   []Item
	invocation []frame

	host Host
}

// TraceOut - if non-nil - will receive trace output during
// execution.
var TraceOut io.Writer

// NewMachine prepares script for execution against host.
// The host may be nil for scripts that make no syscalls.
func NewMachine(script []byte, host Host) *Machine {
	return &Machine{
		script:   script,
		entry:    script,
		runLimit: initialRunLimit,
		host:     host,
	}
}

// Execute runs script with args pushed in order, so the last
// argument is on top when execution starts.
func Execute(script []byte, host Host, args ...Item) (*Machine, error) {
	m := NewMachine(script, host)
	for _, a := range args {
		if err := m.push(a); err != nil {
			return m, err
		}
	}
	return m, m.Run()
}

// Invoke calls a contract entry point the way the chain does:
// the argument array is pushed first and the method name on top.
func Invoke(script []byte, host Host, method string, args ...Item) (*Machine, error) {
	return Execute(script, host, NewArray(args...), ByteArray(method))
}

// Run executes until the outermost script returns.
func (m *Machine) Run() error {
	for !m.halted {
		if err := m.step(); err != nil {
			return m.wrapErr(err)
		}
	}
	return nil
}

func (m *Machine) step() error {
	if m.pc >= uint32(len(m.script)) {
		// falling off the end of a script is an implicit RET
		m.nextPC = m.pc
		return opRet(m)
	}
	inst, err := ParseOp(m.script, m.pc)
	if err != nil {
		return err
	}
	m.nextPC = m.pc + inst.Len

	if TraceOut != nil {
		fmt.Fprintf(TraceOut, "vm depth %d pc %d limit %d %s", len(m.invocation), m.pc, m.runLimit, inst.Op)
		if len(inst.Data) > 0 {
			fmt.Fprintf(TraceOut, " %x", inst.Data)
		}
		fmt.Fprint(TraceOut, "\n")
	}

	if err := m.applyCost(1); err != nil {
		return err
	}
	m.data = inst.Data
	if err := ops[inst.Op].fn(m); err != nil {
		return err
	}
	m.pc = m.nextPC

	if TraceOut != nil {
		for i := len(m.dataStack) - 1; i >= 0; i-- {
			fmt.Fprintf(TraceOut, "  stack %d: %s\n", len(m.dataStack)-1-i, Format(m.dataStack[i]))
		}
	}
	return nil
}

// Stack returns the evaluation stack, bottom first.
func (m *Machine) Stack() []Item { return m.dataStack }

// Result returns the item on top of the evaluation stack.
func (m *Machine) Result() (Item, error) {
	return m.peek(0)
}

// ScriptHash returns the script hash of the executing script.
func (m *Machine) ScriptHash() hash160.Uint160 {
	return hash160.Sum(m.script)
}

// EntryScriptHash returns the script hash of the outermost script.
func (m *Machine) EntryScriptHash() hash160.Uint160 {
	return hash160.Sum(m.entry)
}

// CallingScriptHash returns the hash of the script that invoked the
// executing script with APPCALL, or the zero hash.
func (m *Machine) CallingScriptHash() hash160.Uint160 {
	for i := len(m.invocation) - 1; i >= 0; i-- {
		if !sameScript(m.invocation[i].script, m.script) {
			return hash160.Sum(m.invocation[i].script)
		}
	}
	return hash160.Uint160{}
}

func sameScript(a, b []byte) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func (m *Machine) applyCost(n int64) error {
	if n > m.runLimit {
		return ErrRunLimitExceeded
	}
	m.runLimit -= n
	return nil
}

func (m *Machine) push(it Item) error {
	if len(m.dataStack) >= maxStackSize {
		return ErrStackOverflow
	}
	if b, ok := it.(ByteArray); ok && len(b) > maxItemSize {
		return errors.WithDetailf(ErrRange, "item of %d bytes", len(b))
	}
	m.dataStack = append(m.dataStack, it)
	return nil
}

func (m *Machine) pushBool(b bool) error { return m.push(Boolean(b)) }

func (m *Machine) pushInt(n *big.Int) error {
	if len(IntBytes(n)) > maxIntSize {
		return errors.WithDetailf(ErrRange, "integer of %d bytes", len(IntBytes(n)))
	}
	return m.push(Integer{n})
}

func (m *Machine) pushInt64(n int64) error { return m.push(NewInt(n)) }

func (m *Machine) pop() (Item, error) {
	if len(m.dataStack) == 0 {
		return nil, ErrDataStackUnderflow
	}
	res := m.dataStack[len(m.dataStack)-1]
	m.dataStack = m.dataStack[:len(m.dataStack)-1]
	return res, nil
}

func (m *Machine) popInt() (*big.Int, error) {
	it, err := m.pop()
	if err != nil {
		return nil, err
	}
	n, err := BigInt(it)
	if err != nil {
		return nil, errors.WithDetailf(err, "want integer, got %s", Format(it))
	}
	return n, nil
}

// popIndex pops a non-negative integer small enough to index the stack
// or a collection.
func (m *Machine) popIndex() (int, error) {
	n, err := m.popInt()
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsInt64() || n.Int64() > maxItemSize {
		return 0, errors.WithDetailf(ErrRange, "index %s", n)
	}
	return int(n.Int64()), nil
}

func (m *Machine) popBytes() ([]byte, error) {
	it, err := m.pop()
	if err != nil {
		return nil, err
	}
	switch it.(type) {
	case ByteArray, Integer, Boolean:
		return Bytes(it), nil
	}
	return nil, errors.WithDetailf(ErrBadValue, "want byte string, got %s", Format(it))
}

func (m *Machine) popBool() (bool, error) {
	it, err := m.pop()
	if err != nil {
		return false, err
	}
	return Bool(it), nil
}

func (m *Machine) peek(n int) (Item, error) {
	if n < 0 || n >= len(m.dataStack) {
		return nil, ErrDataStackUnderflow
	}
	return m.dataStack[len(m.dataStack)-1-n], nil
}

// Error is returned by Run. It records where execution stopped.
type Error struct {
	Err    error
	Script []byte
	PC     uint32
}

func (e Error) Error() string {
	dis, err := Disassemble(e.Script)
	if err != nil {
		dis = "???"
	}
	if len(dis) > 256 {
		dis = dis[:256] + "..."
	}
	return fmt.Sprintf("%s [pc %d; script %s]", e.Err.Error(), e.PC, strings.TrimSpace(dis))
}

// Unwrap lets errors.Is and errors.Root reach the underlying error.
func (e Error) Unwrap() error { return e.Err }

func (m *Machine) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return Error{
		Err:    err,
		Script: m.script,
		PC:     m.pc,
	}
}
