// Package hash256 implements the Hash256 hash algorithm
// (sha256 applied twice).
package hash256

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"neochain/errors"
)

// Size is the size of a Hash256 checksum in bytes.
const Size = sha256.Size

// ErrLength is returned when a hex string does not decode to Size bytes.
var ErrLength = errors.New("wrong hash256 length")

// Uint256 is a transaction or block hash in VM byte order.
type Uint256 [Size]byte

// Sum returns the Hash256 checksum of the data.
func Sum(data []byte) Uint256 {
	inner := sha256.Sum256(data)
	return sha256.Sum256(inner[:])
}

func (u Uint256) String() string {
	rev := make([]byte, Size)
	for i := range u {
		rev[Size-1-i] = u[i]
	}
	return "0x" + hex.EncodeToString(rev)
}

// Parse decodes the big-endian hex form produced by String. The 0x
// prefix is optional.
func Parse(s string) (Uint256, error) {
	var u Uint256
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return u, errors.Wrapf(err, "decoding hash %q", s)
	}
	if len(b) != Size {
		return u, errors.WithDetailf(ErrLength, "hash %q has %d bytes", s, len(b))
	}
	for i := range b {
		u[Size-1-i] = b[i]
	}
	return u, nil
}
