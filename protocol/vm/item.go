package vm

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
)

// Item is a value on the evaluation stack.
type Item interface {
	item()
}

type (
	// Integer is an arbitrary precision integer.
	Integer struct{ Value *big.Int }

	// ByteArray is an immutable byte string.
	ByteArray []byte

	// Boolean is a truth value.
	Boolean bool

	// Array is a mutable list with reference semantics.
	Array struct{ Items []Item }

	// Struct is a list with value semantics: it is copied when
	// stored into a collection.
	Struct struct{ Items []Item }

	// Map is a mutable dictionary keyed by primitive items, iterated
	// in insertion order.
	Map struct {
		keys []Item
		vals map[string]Item
	}

	// Interop wraps a host object.
	Interop struct{ Value interface{} }
)

func (Integer) item()   {}
func (ByteArray) item() {}
func (Boolean) item()   {}
func (*Array) item()    {}
func (*Struct) item()   {}
func (*Map) item()      {}
func (Interop) item()   {}

// NewInt returns an Integer item.
func NewInt(n int64) Integer { return Integer{big.NewInt(n)} }

// NewArray returns an Array item holding items.
func NewArray(items ...Item) *Array { return &Array{Items: items} }

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{vals: make(map[string]Item)} }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Item { return append([]Item(nil), m.keys...) }

// Get looks up key.
func (m *Map) Get(key Item) (Item, bool) {
	k, err := mapKey(key)
	if err != nil {
		return nil, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Set stores val under key.
func (m *Map) Set(key, val Item) error {
	k, err := mapKey(key)
	if err != nil {
		return err
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[k] = val
	return nil
}

// Delete removes key if present.
func (m *Map) Delete(key Item) error {
	k, err := mapKey(key)
	if err != nil {
		return err
	}
	if _, ok := m.vals[k]; !ok {
		return nil
	}
	delete(m.vals, k)
	for i, existing := range m.keys {
		if ek, _ := mapKey(existing); ek == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return nil
}

func mapKey(key Item) (string, error) {
	switch key.(type) {
	case Integer, ByteArray, Boolean:
		return string(Bytes(key)), nil
	}
	return "", ErrBadValue
}

// Bytes returns the byte string form of a primitive item. Integers are
// minimal little-endian two's complement; true is 0x01, false is empty.
// Collections and interop handles have no byte form and yield nil.
func Bytes(it Item) []byte {
	switch v := it.(type) {
	case ByteArray:
		return v
	case Integer:
		return IntBytes(v.Value)
	case Boolean:
		if v {
			return []byte{1}
		}
		return []byte{}
	}
	return nil
}

// BigInt returns the integer value of a primitive item.
func BigInt(it Item) (*big.Int, error) {
	switch v := it.(type) {
	case Integer:
		return v.Value, nil
	case ByteArray:
		return BytesInt(v), nil
	case Boolean:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	}
	return nil, ErrBadValue
}

// Bool returns the truth value of an item. Byte strings are true if any
// byte is non-zero; collections and handles are always true.
func Bool(it Item) bool {
	switch v := it.(type) {
	case Boolean:
		return bool(v)
	case Integer:
		return v.Value.Sign() != 0
	case ByteArray:
		for _, b := range v {
			if b != 0 {
				return true
			}
		}
		return false
	}
	return true
}

// Equal reports whether two items are equal under EQUAL: primitives
// compare by byte form, collections by identity.
func Equal(a, b Item) bool {
	switch av := a.(type) {
	case Integer:
		if bv, ok := b.(Integer); ok {
			return av.Value.Cmp(bv.Value) == 0
		}
	case *Array:
		bv, ok := b.(*Array)
		return ok && av == bv
	case *Struct:
		bv, ok := b.(*Struct)
		return ok && structEqual(av, bv)
	case *Map:
		bv, ok := b.(*Map)
		return ok && av == bv
	case Interop:
		bv, ok := b.(Interop)
		return ok && av.Value == bv.Value
	}
	switch b.(type) {
	case *Array, *Struct, *Map, Interop:
		return false
	}
	return bytes.Equal(Bytes(a), Bytes(b))
}

func structEqual(a, b *Struct) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !Equal(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func (s *Struct) clone() *Struct {
	c := &Struct{Items: make([]Item, len(s.Items))}
	for i, it := range s.Items {
		if inner, ok := it.(*Struct); ok {
			it = inner.clone()
		}
		c.Items[i] = it
	}
	return c
}

// Format renders an item for traces and test failures.
func Format(it Item) string {
	switch v := it.(type) {
	case Integer:
		return v.Value.String()
	case ByteArray:
		return fmt.Sprintf("0x%x", []byte(v))
	case Boolean:
		return fmt.Sprint(bool(v))
	case *Array:
		return "[" + formatList(v.Items) + "]"
	case *Struct:
		return "struct[" + formatList(v.Items) + "]"
	case *Map:
		var parts []string
		for _, k := range v.keys {
			val, _ := v.Get(k)
			parts = append(parts, Format(k)+": "+Format(val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Interop:
		return fmt.Sprintf("interop(%v)", v.Value)
	case nil:
		return "<nil>"
	}
	return "?"
}

func formatList(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = Format(it)
	}
	return strings.Join(parts, ", ")
}
