package vmutil

import (
	"neochain/errors"
	"neochain/protocol/vm"
)

var (
	ErrDepthMismatch = errors.New("stack depth differs between paths")
	ErrUnknownDepth  = errors.New("stack effect not statically known")
)

// StackDepth simulates prog on an abstract stack and returns the net
// change in evaluation stack depth between entry and exit. Items the
// program consumes from below its starting depth count negatively.
//
// Every path to a RET or to the end of the program must agree on the
// depth, and every join point must be reached with a single depth.
// Paths ending in THROW or TAILCALL are ignored. A CALL is assumed to
// follow the calling convention of compiled code: it consumes the
// receiver and the argument array and leaves one result.
//
// PACK, PICK, ROLL, XDROP, XSWAP and XTUCK need their count to have
// been pushed as a constant. UNPACK and DEPTH leave a count that is
// unknown and so cannot be fed to those.
func StackDepth(prog []byte) (int, error) {
	type work struct {
		pc uint32
		st absStack
	}
	var (
		queue  = []work{{0, absStack{}}}
		seen   = make(map[uint32]int)
		exit   int
		exited bool
	)
	for len(queue) > 0 {
		w := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		pc, st := w.pc, w.st
		for {
			if pc == uint32(len(prog)) {
				if err := setExit(&exit, &exited, st.depth(), pc); err != nil {
					return 0, err
				}
				break
			}
			if d, ok := seen[pc]; ok {
				if d != st.depth() {
					return 0, errors.WithDetailf(ErrDepthMismatch, "at offset %d: %d and %d", pc, d, st.depth())
				}
				break
			}
			seen[pc] = st.depth()

			inst, err := vm.ParseOp(prog, pc)
			if err != nil {
				return 0, errors.Wrapf(err, "offset %d", pc)
			}
			next := pc + inst.Len
			ended := false
			switch {
			case inst.Op == vm.OP_RET:
				if err := setExit(&exit, &exited, st.depth(), pc); err != nil {
					return 0, err
				}
				ended = true
			case inst.Op == vm.OP_THROW || inst.Op == vm.OP_TAILCALL:
				ended = true
			case inst.Op == vm.OP_JMP:
				next = uint32(int(pc) + inst.Offset())
			case inst.Op == vm.OP_JMPIF || inst.Op == vm.OP_JMPIFNOT:
				st = st.apply(1, 0)
				target := uint32(int(pc) + inst.Offset())
				if target > uint32(len(prog)) {
					return 0, errors.WithDetailf(vm.ErrBadJump, "at offset %d", pc)
				}
				queue = append(queue, work{target, st.clone()})
			default:
				st, err = st.step(inst)
				if err != nil {
					return 0, errors.Wrapf(err, "offset %d (%s)", pc, inst.Op)
				}
			}
			if ended {
				break
			}
			if next > uint32(len(prog)) {
				return 0, errors.WithDetailf(vm.ErrBadJump, "at offset %d", pc)
			}
			pc = next
		}
	}
	return exit, nil
}

func setExit(exit *int, exited *bool, depth int, pc uint32) error {
	if *exited && *exit != depth {
		return errors.WithDetailf(ErrDepthMismatch, "exit at offset %d has depth %d, earlier exit %d", pc, depth, *exit)
	}
	*exit, *exited = depth, true
	return nil
}

// absVal is an abstract stack item. Constants pushed by the program
// are tracked so that count operands can be resolved.
type absVal struct {
	known bool
	n     int64
}

type absStack struct {
	items []absVal
	below int // items consumed from beneath the starting depth
}

func (s absStack) depth() int { return len(s.items) - s.below }

func (s absStack) clone() absStack {
	return absStack{items: append([]absVal(nil), s.items...), below: s.below}
}

// ensure makes at least n items addressable, materializing unknown
// items from below the starting depth.
func (s *absStack) ensure(n int) {
	if len(s.items) >= n {
		return
	}
	k := n - len(s.items)
	s.items = append(make([]absVal, k), s.items...)
	s.below += k
}

func (s absStack) apply(pops, pushes int) absStack {
	s.ensure(pops)
	s.items = s.items[:len(s.items)-pops]
	for i := 0; i < pushes; i++ {
		s.items = append(s.items, absVal{})
	}
	return s
}

func (s *absStack) popCount() (int, error) {
	s.ensure(1)
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	if !v.known || v.n < 0 {
		return 0, ErrUnknownDepth
	}
	return int(v.n), nil
}

func (s *absStack) push(v absVal) { s.items = append(s.items, v) }

// at returns the slice index of item n counted from the top.
func (s *absStack) at(n int) int {
	s.ensure(n + 1)
	return len(s.items) - 1 - n
}

// fixed lists the ops whose effect is a constant number of pops and
// pushes.
var fixed = map[vm.Op][2]int{
	vm.OP_NOP:             {0, 0},
	vm.OP_DUPFROMALTSTACK: {0, 1},
	vm.OP_TOALTSTACK:      {1, 0},
	vm.OP_FROMALTSTACK:    {0, 1},
	vm.OP_DROP:            {1, 0},
	vm.OP_CAT:             {2, 1},
	vm.OP_SUBSTR:          {3, 1},
	vm.OP_LEFT:            {2, 1},
	vm.OP_RIGHT:           {2, 1},
	vm.OP_SIZE:            {1, 1},
	vm.OP_INVERT:          {1, 1},
	vm.OP_AND:             {2, 1},
	vm.OP_OR:              {2, 1},
	vm.OP_XOR:             {2, 1},
	vm.OP_EQUAL:           {2, 1},
	vm.OP_INC:             {1, 1},
	vm.OP_DEC:             {1, 1},
	vm.OP_SIGN:            {1, 1},
	vm.OP_NEGATE:          {1, 1},
	vm.OP_ABS:             {1, 1},
	vm.OP_NOT:             {1, 1},
	vm.OP_NZ:              {1, 1},
	vm.OP_ADD:             {2, 1},
	vm.OP_SUB:             {2, 1},
	vm.OP_MUL:             {2, 1},
	vm.OP_DIV:             {2, 1},
	vm.OP_MOD:             {2, 1},
	vm.OP_SHL:             {2, 1},
	vm.OP_SHR:             {2, 1},
	vm.OP_BOOLAND:         {2, 1},
	vm.OP_BOOLOR:          {2, 1},
	vm.OP_NUMEQUAL:        {2, 1},
	vm.OP_NUMNOTEQUAL:     {2, 1},
	vm.OP_LT:              {2, 1},
	vm.OP_GT:              {2, 1},
	vm.OP_LTE:             {2, 1},
	vm.OP_GTE:             {2, 1},
	vm.OP_MIN:             {2, 1},
	vm.OP_MAX:             {2, 1},
	vm.OP_WITHIN:          {3, 1},
	vm.OP_SHA1:            {1, 1},
	vm.OP_SHA256:          {1, 1},
	vm.OP_HASH160:         {1, 1},
	vm.OP_HASH256:         {1, 1},
	vm.OP_ARRAYSIZE:       {1, 1},
	vm.OP_PICKITEM:        {2, 1},
	vm.OP_SETITEM:         {3, 0},
	vm.OP_NEWARRAY:        {1, 1},
	vm.OP_NEWSTRUCT:       {1, 1},
	vm.OP_NEWMAP:          {0, 1},
	vm.OP_APPEND:          {2, 0},
	vm.OP_REVERSE:         {1, 0},
	vm.OP_REMOVE:          {2, 0},
	vm.OP_HASKEY:          {2, 1},
	vm.OP_KEYS:            {1, 1},
	vm.OP_VALUES:          {1, 1},
	vm.OP_THROWIFNOT:      {1, 0},
	vm.OP_CALL:            {2, 1},
	vm.OP_APPCALL:         {2, 1},
	vm.OP_DEPTH:           {0, 1},
}

func (s absStack) step(inst vm.Instruction) (absStack, error) {
	op := inst.Op
	switch {
	case inst.IsPushdata():
		v := absVal{}
		if len(inst.Data) <= 8 {
			n := vm.BytesInt(inst.Data)
			v = absVal{known: true, n: n.Int64()}
		}
		s.push(v)
		return s, nil
	case op == vm.OP_SYSCALL:
		info, ok := vm.SysCalls[string(inst.Data)]
		if !ok {
			return s, errors.WithDetailf(vm.ErrUnknownSysCall, "%q", inst.Data)
		}
		return s.apply(info.Args, info.Results), nil
	}
	if e, ok := fixed[op]; ok {
		return s.apply(e[0], e[1]), nil
	}

	switch op {
	case vm.OP_DUP:
		i := s.at(0)
		s.push(s.items[i])
	case vm.OP_OVER:
		i := s.at(1)
		s.push(s.items[i])
	case vm.OP_NIP:
		i := s.at(1)
		s.items = append(s.items[:i], s.items[i+1:]...)
	case vm.OP_SWAP:
		s.roll(1)
	case vm.OP_ROT:
		s.roll(2)
	case vm.OP_TUCK:
		i := s.at(1)
		s.insert(i, s.items[len(s.items)-1])
	case vm.OP_PICK, vm.OP_ROLL, vm.OP_XDROP, vm.OP_XSWAP, vm.OP_XTUCK:
		n, err := s.popCount()
		if err != nil {
			return s, err
		}
		switch op {
		case vm.OP_PICK:
			i := s.at(n)
			s.push(s.items[i])
		case vm.OP_ROLL:
			s.roll(n)
		case vm.OP_XDROP:
			i := s.at(n)
			s.items = append(s.items[:i], s.items[i+1:]...)
		case vm.OP_XSWAP:
			i, top := s.at(n), s.at(0)
			s.items[i], s.items[top] = s.items[top], s.items[i]
		case vm.OP_XTUCK:
			if n == 0 {
				return s, errors.WithDetail(vm.ErrBadValue, "XTUCK 0")
			}
			i := s.at(n - 1)
			s.insert(i, s.items[len(s.items)-1])
		}
	case vm.OP_PACK:
		n, err := s.popCount()
		if err != nil {
			return s, err
		}
		s = s.apply(n, 1)
	case vm.OP_UNPACK:
		return s, errors.WithDetail(ErrUnknownDepth, "UNPACK")
	default:
		return s, errors.WithDetailf(ErrUnknownDepth, "op %s", op)
	}
	return s, nil
}

func (s *absStack) roll(n int) {
	i := s.at(n)
	v := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.items = append(s.items, v)
}

func (s *absStack) insert(i int, v absVal) {
	s.items = append(s.items, absVal{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
}
