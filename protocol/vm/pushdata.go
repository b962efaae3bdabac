package vm

import (
	"encoding/binary"
	"math/big"
)

// IntBytes encodes n as minimal little-endian two's complement.
// Zero encodes as the empty string.
func IntBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	if n.Sign() > 0 {
		b := n.Bytes() // big endian magnitude
		reverse(b)
		if b[len(b)-1]&0x80 != 0 {
			b = append(b, 0)
		}
		return b
	}
	// two's complement of a negative number: invert (|n| - 1)
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1))
	b := m.Bytes()
	reverse(b)
	for i := range b {
		b[i] = ^b[i]
	}
	if len(b) == 0 || b[len(b)-1]&0x80 == 0 {
		b = append(b, 0xff)
	}
	return b
}

// BytesInt decodes little-endian two's complement.
func BytesInt(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	be := make([]byte, len(b))
	copy(be, b)
	reverse(be)
	n := new(big.Int).SetBytes(be)
	if b[len(b)-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return n
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// PushdataBytes returns the shortest instruction pushing data.
func PushdataBytes(data []byte) []byte {
	n := len(data)
	switch {
	case n == 0:
		return []byte{byte(OP_PUSH0)}
	case n <= int(OP_PUSHBYTES75):
		return append([]byte{byte(n)}, data...)
	case n < 1<<8:
		return append([]byte{byte(OP_PUSHDATA1), byte(n)}, data...)
	case n < 1<<16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		return append(append([]byte{byte(OP_PUSHDATA2)}, b[:]...), data...)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	return append(append([]byte{byte(OP_PUSHDATA4)}, b[:]...), data...)
}

// PushdataInt returns the shortest instruction pushing n: PUSHM1,
// PUSH0 and PUSH1-PUSH16 for small values, a byte push otherwise.
func PushdataInt(n *big.Int) []byte {
	if n.IsInt64() {
		v := n.Int64()
		switch {
		case v == -1:
			return []byte{byte(OP_PUSHM1)}
		case v == 0:
			return []byte{byte(OP_PUSH0)}
		case v >= 1 && v <= 16:
			return []byte{byte(OP_PUSH1) + byte(v-1)}
		}
	}
	return PushdataBytes(IntBytes(n))
}

// PushdataInt64 is PushdataInt for an int64.
func PushdataInt64(n int64) []byte {
	return PushdataInt(big.NewInt(n))
}

func opPushdata(m *Machine) error {
	d := make([]byte, len(m.data))
	copy(d, m.data)
	return m.push(ByteArray(d))
}

func opPushInt(m *Machine) error {
	return m.push(Integer{BytesInt(m.data)})
}
