package vm

import (
	"neochain/crypto/hash160"
	"neochain/errors"
)

func opNop(m *Machine) error { return nil }

func (m *Machine) jump(offset int) error {
	target := int(m.pc) + offset
	if target < 0 || target > len(m.script) {
		return errors.WithDetailf(ErrBadJump, "target %d", target)
	}
	m.nextPC = uint32(target)
	return nil
}

func opJmp(m *Machine) error {
	return m.jump(Instruction{Data: m.data}.Offset())
}

func opJmpIf(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	if b {
		return opJmp(m)
	}
	return nil
}

func opJmpIfNot(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	if !b {
		return opJmp(m)
	}
	return nil
}

func opCall(m *Machine) error {
	if len(m.invocation) >= maxStackSize {
		return ErrStackOverflow
	}
	m.invocation = append(m.invocation, frame{script: m.script, pc: m.nextPC})
	return opJmp(m)
}

func opRet(m *Machine) error {
	if len(m.invocation) == 0 {
		m.halted = true
		return nil
	}
	f := m.invocation[len(m.invocation)-1]
	m.invocation = m.invocation[:len(m.invocation)-1]
	m.script = f.script
	m.nextPC = f.pc
	return nil
}

func (m *Machine) loadScript() ([]byte, error) {
	var hash hash160.Uint160
	copy(hash[:], m.data)
	if hash == (hash160.Uint160{}) {
		return nil, errors.WithDetail(ErrUnknownScript, "dynamic invocation is not supported")
	}
	loader, ok := m.host.(ScriptLoader)
	if !ok {
		return nil, errors.WithDetailf(ErrUnknownScript, "host cannot load %s", hash)
	}
	script, err := loader.Script(hash)
	if err != nil {
		return nil, errors.Sub(ErrUnknownScript, err)
	}
	return script, nil
}

func opAppCall(m *Machine) error {
	script, err := m.loadScript()
	if err != nil {
		return err
	}
	if len(m.invocation) >= maxStackSize {
		return ErrStackOverflow
	}
	m.invocation = append(m.invocation, frame{script: m.script, pc: m.nextPC})
	m.script = script
	m.nextPC = 0
	return nil
}

func opTailCall(m *Machine) error {
	script, err := m.loadScript()
	if err != nil {
		return err
	}
	m.script = script
	m.nextPC = 0
	return nil
}

func opThrow(m *Machine) error { return ErrThrow }

func opThrowIfNot(m *Machine) error {
	b, err := m.popBool()
	if err != nil {
		return err
	}
	if !b {
		return ErrThrow
	}
	return nil
}
