// Package hash160 implements the Hash160 hash algorithm
// (ripemd160 over sha256) and the 20-byte script hash and address
// forms built on it.
package hash160

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"

	"neochain/errors"
)

// Size is the size of a Hash160 checksum in bytes.
const Size = ripemd160.Size

// AddressVersion is the version byte prefixed to script hashes
// when they are rendered as base58check addresses.
const AddressVersion = 0x17

var (
	ErrAddressVersion = errors.New("wrong address version")
	ErrAddressLength  = errors.New("wrong address length")
)

// New returns a new hash.Hash computing the Hash160 checksum.
func New() hash.Hash {
	return &digest{sha256.New(), ripemd160.New()}
}

type digest struct {
	inner hash.Hash
	outer hash.Hash
}

func (d *digest) Reset()         { d.inner.Reset() }
func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return sha256.BlockSize }
func (d *digest) Write(p []byte) (int, error) {
	return d.inner.Write(p)
}

func (d *digest) Sum(in []byte) []byte {
	inner := d.inner.Sum(nil)
	d.outer.Reset()
	d.outer.Write(inner)
	return d.outer.Sum(in)
}

// Uint160 is a script hash. Bytes are kept in VM order (little endian).
type Uint160 [Size]byte

// Sum returns the Hash160 checksum of the data.
func Sum(data []byte) Uint160 {
	var sum Uint160
	h := New()
	h.Write(data)
	h.Sum(sum[:0])
	return sum
}

// String renders u big-endian with a 0x prefix, the form used in
// manifests and by block explorers.
func (u Uint160) String() string {
	rev := make([]byte, Size)
	for i := range u {
		rev[Size-1-i] = u[i]
	}
	return "0x" + hex.EncodeToString(rev)
}

// Address renders u as a base58check address.
func (u Uint160) Address() string {
	return base58.CheckEncode(u[:], AddressVersion)
}

// FromAddress decodes a base58check address into its script hash.
func FromAddress(addr string) (Uint160, error) {
	var u Uint160
	b, version, err := base58.CheckDecode(addr)
	if err != nil {
		return u, errors.Wrapf(err, "decoding address %q", addr)
	}
	if version != AddressVersion {
		return u, errors.WithDetailf(ErrAddressVersion, "address %q has version 0x%02x", addr, version)
	}
	if len(b) != Size {
		return u, errors.WithDetailf(ErrAddressLength, "address %q decodes to %d bytes", addr, len(b))
	}
	copy(u[:], b)
	return u, nil
}
