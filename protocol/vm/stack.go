package vm

func opDupFromAltStack(m *Machine) error {
	if len(m.altStack) == 0 {
		return ErrAltStackUnderflow
	}
	return m.push(m.altStack[len(m.altStack)-1])
}

func opToAltStack(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	if len(m.altStack) >= maxStackSize {
		return ErrStackOverflow
	}
	m.altStack = append(m.altStack, it)
	return nil
}

func opFromAltStack(m *Machine) error {
	if len(m.altStack) == 0 {
		return ErrAltStackUnderflow
	}
	it := m.altStack[len(m.altStack)-1]
	m.altStack = m.altStack[:len(m.altStack)-1]
	return m.push(it)
}

// pos returns the slice index of stack item n, counting from the top.
func (m *Machine) pos(n int) (int, error) {
	if n < 0 || n >= len(m.dataStack) {
		return 0, ErrDataStackUnderflow
	}
	return len(m.dataStack) - 1 - n, nil
}

func opXDrop(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	i, err := m.pos(n)
	if err != nil {
		return err
	}
	m.dataStack = append(m.dataStack[:i], m.dataStack[i+1:]...)
	return nil
}

func opXSwap(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	i, err := m.pos(n)
	if err != nil {
		return err
	}
	top := len(m.dataStack) - 1
	m.dataStack[i], m.dataStack[top] = m.dataStack[top], m.dataStack[i]
	return nil
}

func opXTuck(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBadValue
	}
	i, err := m.pos(n - 1)
	if err != nil {
		return err
	}
	top := m.dataStack[len(m.dataStack)-1]
	if len(m.dataStack) >= maxStackSize {
		return ErrStackOverflow
	}
	m.dataStack = append(m.dataStack, nil)
	copy(m.dataStack[i+1:], m.dataStack[i:])
	m.dataStack[i] = top
	return nil
}

func opDepth(m *Machine) error {
	return m.pushInt64(int64(len(m.dataStack)))
}

func opDrop(m *Machine) error {
	_, err := m.pop()
	return err
}

func opDup(m *Machine) error {
	it, err := m.peek(0)
	if err != nil {
		return err
	}
	return m.push(it)
}

func opNip(m *Machine) error {
	i, err := m.pos(1)
	if err != nil {
		return err
	}
	m.dataStack = append(m.dataStack[:i], m.dataStack[i+1:]...)
	return nil
}

func opOver(m *Machine) error {
	it, err := m.peek(1)
	if err != nil {
		return err
	}
	return m.push(it)
}

func opPick(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	it, err := m.peek(n)
	if err != nil {
		return err
	}
	return m.push(it)
}

func opRoll(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	return m.roll(n)
}

// roll moves item n to the top of the stack.
func (m *Machine) roll(n int) error {
	i, err := m.pos(n)
	if err != nil {
		return err
	}
	it := m.dataStack[i]
	m.dataStack = append(m.dataStack[:i], m.dataStack[i+1:]...)
	m.dataStack = append(m.dataStack, it)
	return nil
}

func opRot(m *Machine) error {
	return m.roll(2)
}

func opSwap(m *Machine) error {
	return m.roll(1)
}

func opTuck(m *Machine) error {
	top, err := m.peek(0)
	if err != nil {
		return err
	}
	i, err := m.pos(1)
	if err != nil {
		return err
	}
	if len(m.dataStack) >= maxStackSize {
		return ErrStackOverflow
	}
	m.dataStack = append(m.dataStack, nil)
	copy(m.dataStack[i+1:], m.dataStack[i:])
	m.dataStack[i] = top
	return nil
}
