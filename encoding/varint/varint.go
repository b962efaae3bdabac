// Package varint reads and writes the variable length integers and
// byte strings used by serialized VM items. A length below 0xfd is a
// single byte; larger values are prefixed with 0xfd, 0xfe or 0xff and
// stored little-endian in 2, 4 or 8 bytes.
package varint

import (
	"encoding/binary"
	"io"
	"math"

	"neochain/errors"
)

// ErrSize indicates a byte string longer than the limit given to
// ReadBytes.
var ErrSize = errors.New("byte string too long")

// Read reads one variable length integer.
func Read(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return 0, err
	}
	var size int
	switch b[0] {
	case 0xfd:
		size = 2
	case 0xfe:
		size = 4
	case 0xff:
		size = 8
	default:
		return uint64(b[0]), nil
	}
	first := b[0]
	b[0] = 0
	if _, err := io.ReadFull(r, b[:size]); err != nil {
		return 0, errors.Wrapf(err, "reading %d-byte integer after 0x%02x", size, first)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Write writes v and returns the number of bytes written.
func Write(w io.Writer, v uint64) (int, error) {
	var buf [9]byte
	switch {
	case v < 0xfd:
		buf[0] = byte(v)
		return w.Write(buf[:1])
	case v <= math.MaxUint16:
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(v))
		return w.Write(buf[:3])
	case v <= math.MaxUint32:
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
		return w.Write(buf[:5])
	default:
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], v)
		return w.Write(buf[:9])
	}
}

// ReadBytes reads a length-prefixed byte string. A string longer than
// max is not read and ErrSize is returned.
func ReadBytes(r io.Reader, max int) ([]byte, error) {
	n, err := Read(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(max) {
		return nil, errors.WithDetailf(ErrSize, "length %d exceeds %d", n, max)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteBytes writes the length of p followed by p.
func WriteBytes(w io.Writer, p []byte) (int, error) {
	n, err := Write(w, uint64(len(p)))
	if err != nil {
		return n, err
	}
	m, err := w.Write(p)
	return n + m, err
}
