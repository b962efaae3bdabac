package vm

import (
	"bytes"

	"neochain/encoding/bufpool"
	"neochain/encoding/varint"
	"neochain/errors"
)

// Type bytes of the serialized item format.
const (
	typeByteArray byte = 0x00
	typeBoolean   byte = 0x01
	typeInteger   byte = 0x02
	typeArray     byte = 0x80
	typeStruct    byte = 0x81
	typeMap       byte = 0x82
)

// maxSerializeDepth bounds nesting so that cyclic arrays fail
// instead of recursing forever.
const maxSerializeDepth = 64

// Serialize encodes an item as a type byte followed by its payload.
// The encoding is never empty. Interop handles cannot be serialized.
func Serialize(it Item) ([]byte, error) {
	buf := bufpool.Get()
	defer bufpool.Put(buf)
	if err := serialize(buf, it, 0); err != nil {
		return nil, err
	}
	return bufpool.CopyBytes(buf), nil
}

func serialize(w *bytes.Buffer, it Item, depth int) error {
	if depth > maxSerializeDepth {
		return errors.WithDetail(ErrNotSerializable, "nesting too deep")
	}
	switch v := it.(type) {
	case ByteArray:
		w.WriteByte(typeByteArray)
		writeVarBytes(w, v)
	case Boolean:
		w.WriteByte(typeBoolean)
		if v {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
	case Integer:
		w.WriteByte(typeInteger)
		writeVarBytes(w, IntBytes(v.Value))
	case *Array:
		w.WriteByte(typeArray)
		return serializeList(w, v.Items, depth)
	case *Struct:
		w.WriteByte(typeStruct)
		return serializeList(w, v.Items, depth)
	case *Map:
		w.WriteByte(typeMap)
		writeVarInt(w, uint64(len(v.keys)))
		for _, k := range v.keys {
			val, _ := v.Get(k)
			if err := serialize(w, k, depth+1); err != nil {
				return err
			}
			if err := serialize(w, val, depth+1); err != nil {
				return err
			}
		}
	default:
		return errors.WithDetailf(ErrNotSerializable, "cannot serialize %s", Format(it))
	}
	return nil
}

func serializeList(w *bytes.Buffer, items []Item, depth int) error {
	writeVarInt(w, uint64(len(items)))
	for _, it := range items {
		if err := serialize(w, it, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes the output of Serialize. Trailing bytes are an error.
func Deserialize(b []byte) (Item, error) {
	r := bytes.NewReader(b)
	it, err := deserialize(r, 0)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.WithDetailf(ErrBadEncoding, "%d trailing bytes", r.Len())
	}
	return it, nil
}

func deserialize(r *bytes.Reader, depth int) (Item, error) {
	if depth > maxSerializeDepth {
		return nil, errors.WithDetail(ErrBadEncoding, "nesting too deep")
	}
	t, err := r.ReadByte()
	if err != nil {
		return nil, errors.Sub(ErrBadEncoding, err)
	}
	switch t {
	case typeByteArray:
		b, err := readVarBytes(r)
		return ByteArray(b), err
	case typeBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return nil, errors.Sub(ErrBadEncoding, err)
		}
		return Boolean(b != 0), nil
	case typeInteger:
		b, err := readVarBytes(r)
		if err != nil {
			return nil, err
		}
		return Integer{BytesInt(b)}, nil
	case typeArray, typeStruct:
		n, err := readVarInt(r)
		if err != nil {
			return nil, err
		}
		if n > uint64(r.Len()) {
			return nil, errors.WithDetail(ErrBadEncoding, "count exceeds input")
		}
		items := make([]Item, 0, n)
		for i := uint64(0); i < n; i++ {
			it, err := deserialize(r, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		if t == typeStruct {
			return &Struct{Items: items}, nil
		}
		return &Array{Items: items}, nil
	case typeMap:
		n, err := readVarInt(r)
		if err != nil {
			return nil, err
		}
		m := NewMap()
		for i := uint64(0); i < n; i++ {
			k, err := deserialize(r, depth+1)
			if err != nil {
				return nil, err
			}
			v, err := deserialize(r, depth+1)
			if err != nil {
				return nil, err
			}
			if err := m.Set(k, v); err != nil {
				return nil, errors.Sub(ErrBadEncoding, err)
			}
		}
		return m, nil
	}
	return nil, errors.WithDetailf(ErrBadEncoding, "unknown type byte 0x%02x", t)
}

func writeVarInt(w *bytes.Buffer, n uint64) {
	varint.Write(w, n)
}

func writeVarBytes(w *bytes.Buffer, b []byte) {
	varint.WriteBytes(w, b)
}

func readVarInt(r *bytes.Reader) (uint64, error) {
	n, err := varint.Read(r)
	if err != nil {
		return 0, errors.Sub(ErrBadEncoding, err)
	}
	return n, nil
}

func readVarBytes(r *bytes.Reader) ([]byte, error) {
	b, err := varint.ReadBytes(r, r.Len())
	if errors.Root(err) == varint.ErrSize {
		return nil, errors.WithDetail(ErrBadEncoding, "length exceeds input")
	} else if err != nil {
		return nil, errors.Sub(ErrBadEncoding, err)
	}
	return b, nil
}
