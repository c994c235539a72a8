package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"
)

// SLIP-0010 ed25519 test vector 1.
var slip10Seed = "000102030405060708090a0b0c0d0e0f"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestNewMasterKey_Vector(t *testing.T) {
	master, err := NewMasterKey(mustHex(t, slip10Seed))
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}

	wantKey := mustHex(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7")
	wantChain := mustHex(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb")
	if !bytes.Equal(master.key[:], wantKey) {
		t.Errorf("master key = %x, want %x", master.key, wantKey)
	}
	if !bytes.Equal(master.ChainCode(), wantChain) {
		t.Errorf("chain code = %x, want %x", master.ChainCode(), wantChain)
	}

	wantPub := mustHex(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed")
	addr, err := master.Address()
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if !bytes.Equal(addr[:], wantPub) {
		t.Errorf("public key = %x, want %x", addr[:], wantPub)
	}
	if master.Depth() != 0 {
		t.Errorf("depth = %d, want 0", master.Depth())
	}
}

func TestChild_Vector(t *testing.T) {
	master, err := NewMasterKey(mustHex(t, slip10Seed))
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	child, err := master.Child(HardenedOffset)
	if err != nil {
		t.Fatalf("Child() error: %v", err)
	}

	wantKey := mustHex(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3")
	wantChain := mustHex(t, "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69")
	if !bytes.Equal(child.key[:], wantKey) {
		t.Errorf("child key = %x, want %x", child.key, wantKey)
	}
	if !bytes.Equal(child.ChainCode(), wantChain) {
		t.Errorf("chain code = %x, want %x", child.ChainCode(), wantChain)
	}
	if child.Depth() != 1 {
		t.Errorf("depth = %d, want 1", child.Depth())
	}
}

func TestChild_NonHardened(t *testing.T) {
	master, _ := NewMasterKey(mustHex(t, slip10Seed))
	if _, err := master.Child(0); !errors.Is(err, ErrNonHardened) {
		t.Errorf("expected ErrNonHardened, got %v", err)
	}
}

func TestNewMasterKey_BadSeed(t *testing.T) {
	if _, err := NewMasterKey(make([]byte, 8)); err == nil {
		t.Error("short seed should fail")
	}
	if _, err := NewMasterKey(make([]byte, 65)); err == nil {
		t.Error("long seed should fail")
	}
}

func TestDeriveAccount_Distinct(t *testing.T) {
	seed := testSeedBytes(t)
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}

	seen := make(map[string]bool)
	for i := uint32(0); i < 5; i++ {
		k, err := master.DeriveAccount(i)
		if err != nil {
			t.Fatalf("DeriveAccount(%d) error: %v", i, err)
		}
		if k.Depth() != 4 {
			t.Errorf("depth = %d, want 4", k.Depth())
		}
		addr, err := k.Address()
		if err != nil {
			t.Fatalf("Address() error: %v", err)
		}
		if seen[addr.String()] {
			t.Fatalf("account %d repeats an address", i)
		}
		seen[addr.String()] = true
	}
}

func TestDeriveAccount_OutOfRange(t *testing.T) {
	master, _ := NewMasterKey(testSeedBytes(t))
	if _, err := master.DeriveAccount(HardenedOffset); err == nil {
		t.Error("hardened account index should be rejected")
	}
}

func TestKeyFromMnemonic_Deterministic(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	k1, err := KeyFromMnemonic(mnemonic, "", 0)
	if err != nil {
		t.Fatalf("KeyFromMnemonic() error: %v", err)
	}
	k2, err := KeyFromMnemonic(mnemonic, "", 0)
	if err != nil {
		t.Fatalf("KeyFromMnemonic() error: %v", err)
	}
	if k1.Address() != k2.Address() {
		t.Error("same mnemonic and account should give the same key")
	}

	k3, err := KeyFromMnemonic(mnemonic, "", 1)
	if err != nil {
		t.Fatalf("KeyFromMnemonic() error: %v", err)
	}
	if k1.Address() == k3.Address() {
		t.Error("different accounts should give different keys")
	}

	msg := []byte("launchpad")
	if !ed25519.Verify(ed25519.PublicKey(k1.PublicKey()), msg, k1.Sign(msg)) {
		t.Error("derived key should produce valid signatures")
	}
}

func TestKeyFromMnemonic_Invalid(t *testing.T) {
	if _, err := KeyFromMnemonic("bogus words", "", 0); !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("expected ErrInvalidMnemonic, got %v", err)
	}
}
