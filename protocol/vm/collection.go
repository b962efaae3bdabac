package vm

import "neochain/errors"

// items returns the backing slice of an Array or Struct.
func items(it Item) ([]Item, bool) {
	switch v := it.(type) {
	case *Array:
		return v.Items, true
	case *Struct:
		return v.Items, true
	}
	return nil, false
}

func setItems(it Item, list []Item) {
	switch v := it.(type) {
	case *Array:
		v.Items = list
	case *Struct:
		v.Items = list
	}
}

// copyOnStore gives structs value semantics when they are stored.
func copyOnStore(it Item) Item {
	if s, ok := it.(*Struct); ok {
		return s.clone()
	}
	return it
}

func opArraySize(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	if list, ok := items(it); ok {
		return m.pushInt64(int64(len(list)))
	}
	if mp, ok := it.(*Map); ok {
		return m.pushInt64(int64(mp.Len()))
	}
	b := Bytes(it)
	if b == nil {
		return errors.WithDetailf(ErrBadValue, "ARRAYSIZE of %s", Format(it))
	}
	return m.pushInt64(int64(len(b)))
}

// PACK pops n and then n items. The first item popped becomes
// element 0.
func opPack(m *Machine) error {
	n, err := m.popIndex()
	if err != nil {
		return err
	}
	if n > len(m.dataStack) {
		return ErrDataStackUnderflow
	}
	list := make([]Item, n)
	for i := range list {
		list[i], _ = m.pop()
	}
	return m.push(&Array{Items: list})
}

// UNPACK pushes the elements so that element 0 ends up just below
// the count.
func opUnpack(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	list, ok := items(it)
	if !ok {
		return errors.WithDetailf(ErrBadValue, "UNPACK of %s", Format(it))
	}
	for i := len(list) - 1; i >= 0; i-- {
		if err := m.push(list[i]); err != nil {
			return err
		}
	}
	return m.pushInt64(int64(len(list)))
}

func listIndex(key Item, n int) (int, error) {
	k, err := BigInt(key)
	if err != nil {
		return 0, err
	}
	if k.Sign() < 0 || !k.IsInt64() || k.Int64() >= int64(n) {
		return 0, errors.WithDetailf(ErrRange, "index %s of %d", k, n)
	}
	return int(k.Int64()), nil
}

func opPickItem(m *Machine) error {
	key, err := m.pop()
	if err != nil {
		return err
	}
	coll, err := m.pop()
	if err != nil {
		return err
	}
	if list, ok := items(coll); ok {
		i, err := listIndex(key, len(list))
		if err != nil {
			return err
		}
		return m.push(list[i])
	}
	if mp, ok := coll.(*Map); ok {
		v, ok := mp.Get(key)
		if !ok {
			return errors.WithDetailf(ErrRange, "key %s not in map", Format(key))
		}
		return m.push(v)
	}
	return errors.WithDetailf(ErrBadValue, "PICKITEM of %s", Format(coll))
}

func opSetItem(m *Machine) error {
	val, err := m.pop()
	if err != nil {
		return err
	}
	key, err := m.pop()
	if err != nil {
		return err
	}
	coll, err := m.pop()
	if err != nil {
		return err
	}
	val = copyOnStore(val)
	if list, ok := items(coll); ok {
		i, err := listIndex(key, len(list))
		if err != nil {
			return err
		}
		list[i] = val
		return nil
	}
	if mp, ok := coll.(*Map); ok {
		return mp.Set(key, val)
	}
	return errors.WithDetailf(ErrBadValue, "SETITEM of %s", Format(coll))
}

func newList(m *Machine, asStruct bool) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	var list []Item
	if src, ok := items(it); ok {
		list = append([]Item(nil), src...)
	} else {
		if err := m.push(it); err != nil {
			return err
		}
		n, err := m.popIndex()
		if err != nil {
			return err
		}
		list = make([]Item, n)
		for i := range list {
			list[i] = Boolean(false)
		}
	}
	if asStruct {
		return m.push(&Struct{Items: list})
	}
	return m.push(&Array{Items: list})
}

func opNewArray(m *Machine) error  { return newList(m, false) }
func opNewStruct(m *Machine) error { return newList(m, true) }

func opNewMap(m *Machine) error {
	return m.push(NewMap())
}

func opAppend(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	coll, err := m.pop()
	if err != nil {
		return err
	}
	list, ok := items(coll)
	if !ok {
		return errors.WithDetailf(ErrBadValue, "APPEND to %s", Format(coll))
	}
	setItems(coll, append(list, copyOnStore(it)))
	return nil
}

func opReverse(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	list, ok := items(it)
	if !ok {
		return errors.WithDetailf(ErrBadValue, "REVERSE of %s", Format(it))
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return nil
}

func opRemove(m *Machine) error {
	key, err := m.pop()
	if err != nil {
		return err
	}
	coll, err := m.pop()
	if err != nil {
		return err
	}
	if list, ok := items(coll); ok {
		i, err := listIndex(key, len(list))
		if err != nil {
			return err
		}
		setItems(coll, append(list[:i], list[i+1:]...))
		return nil
	}
	if mp, ok := coll.(*Map); ok {
		return mp.Delete(key)
	}
	return errors.WithDetailf(ErrBadValue, "REMOVE from %s", Format(coll))
}

func opHasKey(m *Machine) error {
	key, err := m.pop()
	if err != nil {
		return err
	}
	coll, err := m.pop()
	if err != nil {
		return err
	}
	if list, ok := items(coll); ok {
		k, err := BigInt(key)
		if err != nil {
			return err
		}
		return m.pushBool(k.Sign() >= 0 && k.Cmp(NewInt(int64(len(list))).Value) < 0)
	}
	if mp, ok := coll.(*Map); ok {
		_, ok := mp.Get(key)
		return m.pushBool(ok)
	}
	return errors.WithDetailf(ErrBadValue, "HASKEY of %s", Format(coll))
}

func opKeys(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	mp, ok := it.(*Map)
	if !ok {
		return errors.WithDetailf(ErrBadValue, "KEYS of %s", Format(it))
	}
	return m.push(&Array{Items: mp.Keys()})
}

func opValues(m *Machine) error {
	it, err := m.pop()
	if err != nil {
		return err
	}
	var vals []Item
	if list, ok := items(it); ok {
		for _, v := range list {
			vals = append(vals, copyOnStore(v))
		}
	} else if mp, ok := it.(*Map); ok {
		for _, k := range mp.keys {
			v, _ := mp.Get(k)
			vals = append(vals, copyOnStore(v))
		}
	} else {
		return errors.WithDetailf(ErrBadValue, "VALUES of %s", Format(it))
	}
	return m.push(&Array{Items: vals})
}
