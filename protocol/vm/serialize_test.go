package vm

import (
	"bytes"
	"math/big"
	"testing"

	"neochain/errors"
)

func TestIntBytes(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{-1, []byte{0xff}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x00}},
		{-128, []byte{0x80}},
		{-129, []byte{0x7f, 0xff}},
		{256, []byte{0x00, 0x01}},
	}
	for _, c := range cases {
		got := IntBytes(big.NewInt(c.n))
		if !bytes.Equal(got, c.want) {
			t.Errorf("IntBytes(%d) = %x, want %x", c.n, got, c.want)
		}
		if back := BytesInt(got); back.Int64() != c.n {
			t.Errorf("BytesInt(%x) = %s, want %d", got, back, c.n)
		}
	}
}

func TestPushdataInt(t *testing.T) {
	cases := []struct {
		n    int64
		want []byte
	}{
		{-1, []byte{byte(OP_PUSHM1)}},
		{0, []byte{byte(OP_PUSH0)}},
		{1, []byte{byte(OP_PUSH1)}},
		{16, []byte{byte(OP_PUSH16)}},
		{17, []byte{0x01, 0x11}},
		{-2, []byte{0x01, 0xfe}},
	}
	for _, c := range cases {
		got := PushdataInt64(c.n)
		if !bytes.Equal(got, c.want) {
			t.Errorf("PushdataInt64(%d) = %x, want %x", c.n, got, c.want)
		}
	}
}

func TestPushdataBytes(t *testing.T) {
	cases := []struct {
		n      int
		prefix []byte
	}{
		{0, []byte{byte(OP_PUSH0)}},
		{75, []byte{75}},
		{76, []byte{byte(OP_PUSHDATA1), 76}},
		{256, []byte{byte(OP_PUSHDATA2), 0x00, 0x01}},
		{1 << 16, []byte{byte(OP_PUSHDATA4), 0x00, 0x00, 0x01, 0x00}},
	}
	for _, c := range cases {
		got := PushdataBytes(make([]byte, c.n))
		if !bytes.HasPrefix(got, c.prefix) || len(got) != len(c.prefix)+c.n {
			t.Errorf("PushdataBytes(%d bytes) has prefix %x, want %x", c.n, got[:len(c.prefix)], c.prefix)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	m := NewMap()
	m.Set(ByteArray("k"), NewInt(3))
	items := []Item{
		ByteArray{},
		ByteArray("hello"),
		Boolean(true),
		Boolean(false),
		NewInt(0),
		NewInt(-300),
		NewArray(NewInt(1), ByteArray("x"), NewArray()),
		&Struct{Items: []Item{Boolean(true)}},
		m,
	}
	for _, it := range items {
		b, err := Serialize(it)
		if err != nil {
			t.Fatalf("Serialize(%s): %v", Format(it), err)
		}
		if len(b) == 0 {
			t.Errorf("Serialize(%s) is empty", Format(it))
		}
		got, err := Deserialize(b)
		if err != nil {
			t.Fatalf("Deserialize(%x): %v", b, err)
		}
		if Format(got) != Format(it) {
			t.Errorf("round trip of %s = %s", Format(it), Format(got))
		}
	}
}

func TestSerializeEncoding(t *testing.T) {
	got, err := Serialize(NewArray(ByteArray("a"), NewInt(5)))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x80, 0x02, 0x00, 0x01, 'a', 0x02, 0x01, 0x05}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestSerializeErrors(t *testing.T) {
	if _, err := Serialize(Interop{Value: "ctx"}); errors.Root(err) != ErrNotSerializable {
		t.Errorf("got error %v, want %v", err, ErrNotSerializable)
	}
	cyclic := NewArray()
	cyclic.Items = append(cyclic.Items, cyclic)
	if _, err := Serialize(cyclic); errors.Root(err) != ErrNotSerializable {
		t.Errorf("got error %v, want %v", err, ErrNotSerializable)
	}
	for _, b := range [][]byte{nil, {0x09}, {0x00, 0x05, 'a'}, {0x01, 0x01, 0x00}} {
		if _, err := Deserialize(b); errors.Root(err) != ErrBadEncoding {
			t.Errorf("Deserialize(%x): got error %v, want %v", b, err, ErrBadEncoding)
		}
	}
}
