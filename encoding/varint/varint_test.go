package varint

import (
	"bytes"
	"testing"

	"neochain/errors"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{1 << 32, []byte{0xff, 0, 0, 0, 0, 1, 0, 0, 0}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		n, err := Write(&buf, c.v)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(c.want) || !bytes.Equal(buf.Bytes(), c.want) {
			t.Errorf("Write(%d) = %x (%d bytes), want %x", c.v, buf.Bytes(), n, c.want)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.v {
			t.Errorf("Read(%x) = %d, want %d", c.want, got, c.v)
		}
	}
}

func TestReadBytes(t *testing.T) {
	var buf bytes.Buffer
	WriteBytes(&buf, []byte("abc"))
	enc := buf.Bytes()

	got, err := ReadBytes(bytes.NewReader(enc), 3)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q, want abc", got)
	}
	if _, err := ReadBytes(bytes.NewReader(enc), 2); errors.Root(err) != ErrSize {
		t.Errorf("got error %v, want %v", err, ErrSize)
	}
	if _, err := ReadBytes(bytes.NewReader(enc[:2]), 3); err == nil {
		t.Error("expected error for truncated input")
	}
	if _, err := Read(bytes.NewReader([]byte{0xfe, 1})); err == nil {
		t.Error("expected error for truncated integer")
	}
}
