package hash160

import (
	"testing"

	"neochain/errors"
)

func TestSum(t *testing.T) {
	// ripemd160(sha256("")), a well known constant.
	got := Sum(nil)
	want := "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"
	if h := bytesHex(got[:]); h != want {
		t.Errorf("Sum(nil) = %s want %s", h, want)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	var u Uint160
	for i := range u {
		u[i] = byte(i)
	}
	addr := u.Address()
	if addr[0] != 'A' {
		t.Errorf("address %s should start with A", addr)
	}
	got, err := FromAddress(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Errorf("FromAddress(%s) = %x want %x", addr, got, u)
	}
}

func TestFromAddressErrors(t *testing.T) {
	if _, err := FromAddress("not-an-address"); err == nil {
		t.Error("expected error for garbage input")
	}
	var u Uint160
	addr := base58Encode(u[:], 0x35)
	_, err := FromAddress(addr)
	if errors.Root(err) != ErrAddressVersion {
		t.Errorf("got %v want %v", err, ErrAddressVersion)
	}
}

func TestString(t *testing.T) {
	var u Uint160
	u[0] = 0xab
	want := "0x00000000000000000000000000000000000000ab"
	if got := u.String(); got != want {
		t.Errorf("String() = %s want %s", got, want)
	}
}
