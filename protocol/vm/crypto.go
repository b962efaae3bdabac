package vm

import (
	"crypto/sha1"
	"crypto/sha256"

	"neochain/crypto/hash160"
	"neochain/crypto/hash256"
)

func opSha1(m *Machine) error {
	return hashOp(m, func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})
}

func opSha256(m *Machine) error {
	return hashOp(m, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}

func opHash160(m *Machine) error {
	return hashOp(m, func(b []byte) []byte {
		h := hash160.Sum(b)
		return h[:]
	})
}

func opHash256(m *Machine) error {
	return hashOp(m, func(b []byte) []byte {
		h := hash256.Sum(b)
		return h[:]
	})
}

func hashOp(m *Machine, f func([]byte) []byte) error {
	b, err := m.popBytes()
	if err != nil {
		return err
	}
	if err := m.applyCost(int64(len(b)/64 + 1)); err != nil {
		return err
	}
	return m.push(ByteArray(f(b)))
}
