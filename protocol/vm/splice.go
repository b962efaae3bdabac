package vm

import "neochain/errors"

func opCat(m *Machine) error {
	b, err := m.popBytes()
	if err != nil {
		return err
	}
	a, err := m.popBytes()
	if err != nil {
		return err
	}
	if len(a)+len(b) > maxItemSize {
		return errors.WithDetailf(ErrRange, "concatenation of %d bytes", len(a)+len(b))
	}
	res := make([]byte, 0, len(a)+len(b))
	res = append(res, a...)
	res = append(res, b...)
	return m.push(ByteArray(res))
}

func opSubstr(m *Machine) error {
	count, err := m.popIndex()
	if err != nil {
		return err
	}
	index, err := m.popIndex()
	if err != nil {
		return err
	}
	s, err := m.popBytes()
	if err != nil {
		return err
	}
	if index > len(s) {
		index = len(s)
	}
	end := index + count
	if end > len(s) {
		end = len(s)
	}
	return m.push(ByteArray(append([]byte{}, s[index:end]...)))
}

func opLeft(m *Machine) error {
	count, err := m.popIndex()
	if err != nil {
		return err
	}
	s, err := m.popBytes()
	if err != nil {
		return err
	}
	if count > len(s) {
		count = len(s)
	}
	return m.push(ByteArray(append([]byte{}, s[:count]...)))
}

func opRight(m *Machine) error {
	count, err := m.popIndex()
	if err != nil {
		return err
	}
	s, err := m.popBytes()
	if err != nil {
		return err
	}
	if count > len(s) {
		return errors.WithDetailf(ErrRange, "RIGHT %d of %d bytes", count, len(s))
	}
	return m.push(ByteArray(append([]byte{}, s[len(s)-count:]...)))
}

func opSize(m *Machine) error {
	s, err := m.popBytes()
	if err != nil {
		return err
	}
	return m.pushInt64(int64(len(s)))
}
