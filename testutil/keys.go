package testutil

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"

	"neochain/crypto/hash160"
)

// TestOwnerKey is a compressed public key, and TestOwner the script
// hash of its single-signature verification script. Tests use them
// as a contract owner and as a witness.
var (
	TestOwnerKey []byte
	TestOwner    hash160.Uint160
)

func init() {
	seed := make([]byte, hdkeychain.RecommendedSeedLen)
	for i := range seed {
		seed[i] = byte(i)
	}
	xprv, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		panic(err)
	}
	pub, err := xprv.ECPubKey()
	if err != nil {
		panic(err)
	}
	TestOwnerKey = pub.SerializeCompressed()

	// PUSHBYTES33 <key> CHECKSIG
	script := append([]byte{0x21}, TestOwnerKey...)
	script = append(script, 0xac)
	TestOwner = hash160.Sum(script)
}
