// Package json holds JSON encodings shared by the compiler outputs.
package json

import (
	"encoding/hex"

	"neochain/errors"
)

// HexBytes is a byte string encoded in JSON as a hex string.
type HexBytes []byte

func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *HexBytes) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decoding hex bytes")
	}
	*h = b
	return nil
}
