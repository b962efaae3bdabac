package testutil

import (
	"testing"

	"neochain/crypto/hash160"
)

func TestOwnerAddressRoundTrip(t *testing.T) {
	if len(TestOwnerKey) != 33 {
		t.Fatalf("got %d byte key, want 33", len(TestOwnerKey))
	}
	got, err := hash160.FromAddress(TestOwner.Address())
	if err != nil {
		FatalErr(t, err)
	}
	if got != TestOwner {
		t.Errorf("got %s, want %s", got, TestOwner)
	}
}
