package hash160

import (
	"encoding/hex"

	"github.com/btcsuite/btcutil/base58"
)

func bytesHex(b []byte) string { return hex.EncodeToString(b) }

func base58Encode(b []byte, version byte) string { return base58.CheckEncode(b, version) }
