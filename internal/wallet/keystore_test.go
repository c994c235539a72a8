package wallet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nexwallet/launchpad/pkg/types"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystore() error: %v", err)
	}
	return ks
}

func testSeedBytes(t *testing.T) []byte {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	return seed
}

func TestKeystore_CreateAndLoad(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	password := []byte("test-password")

	if err := ks.Create("mywallet", seed, password, fastParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	loaded, err := ks.Load("mywallet", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !bytes.Equal(loaded, seed) {
		t.Error("loaded seed does not match original")
	}
}

func TestKeystore_CreateDuplicate(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	if err := ks.Create("dup", seed, []byte("pass"), fastParams()); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	err := ks.Create("dup", seed, []byte("pass"), fastParams())
	if !errors.Is(err, ErrWalletExists) {
		t.Errorf("expected ErrWalletExists, got %v", err)
	}
}

func TestKeystore_InvalidName(t *testing.T) {
	ks := testKeystore(t)
	for _, name := range []string{"", "../escape", "a/b", "has space"} {
		err := ks.Create(name, testSeedBytes(t), []byte("p"), fastParams())
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Create(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestKeystore_LoadWrongPassword(t *testing.T) {
	ks := testKeystore(t)
	ks.Create("wallet", testSeedBytes(t), []byte("correct"), fastParams())

	_, err := ks.Load("wallet", []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestKeystore_LoadNonexistent(t *testing.T) {
	ks := testKeystore(t)

	_, err := ks.Load("doesnotexist", []byte("pass"))
	if !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("expected ErrWalletNotFound, got %v", err)
	}
}

func TestKeystore_List(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected 0 wallets, got %d", len(names))
	}

	ks.Create("alpha", seed, []byte("p"), fastParams())
	ks.Create("beta", seed, []byte("p"), fastParams())

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 wallets, got %d", len(names))
	}
}

func TestKeystore_Delete(t *testing.T) {
	ks := testKeystore(t)
	ks.Create("todelete", testSeedBytes(t), []byte("p"), fastParams())

	if err := ks.Delete("todelete"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := ks.Load("todelete", []byte("p")); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("wallet should be deleted, got %v", err)
	}
	if err := ks.Delete("todelete"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete(): expected ErrWalletNotFound, got %v", err)
	}
}

func TestKeystore_NewAccount(t *testing.T) {
	ks := testKeystore(t)
	password := []byte("p")
	ks.Create("wallet", testSeedBytes(t), password, fastParams())

	a0, err := ks.NewAccount("wallet", password, "")
	if err != nil {
		t.Fatalf("NewAccount() error: %v", err)
	}
	a1, err := ks.NewAccount("wallet", password, "buyer")
	if err != nil {
		t.Fatalf("NewAccount() error: %v", err)
	}

	if a0.Index != 0 || a1.Index != 1 {
		t.Errorf("indices = %d, %d, want 0, 1", a0.Index, a1.Index)
	}
	if a0.Name != "account-0" || a1.Name != "buyer" {
		t.Errorf("names = %q, %q", a0.Name, a1.Name)
	}
	if a0.Address == a1.Address {
		t.Error("accounts should have distinct addresses")
	}

	next, err := ks.NextIndex("wallet")
	if err != nil {
		t.Fatalf("NextIndex() error: %v", err)
	}
	if next != 2 {
		t.Errorf("NextIndex() = %d, want 2", next)
	}

	// The recorded address must match the key Signer derives.
	key, err := ks.Signer("wallet", password, 1)
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}
	if key.Address() != a1.Address {
		t.Errorf("Signer address = %s, want %s", key.Address(), a1.Address)
	}
}

func TestKeystore_NewAccountWrongPassword(t *testing.T) {
	ks := testKeystore(t)
	ks.Create("wallet", testSeedBytes(t), []byte("right"), fastParams())

	if _, err := ks.NewAccount("wallet", []byte("wrong"), ""); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	accounts, _ := ks.ListAccounts("wallet")
	if len(accounts) != 0 {
		t.Errorf("failed NewAccount should not record anything, got %d", len(accounts))
	}
}

func TestKeystore_Import(t *testing.T) {
	ks := testKeystore(t)
	password := []byte("p")

	addr, err := ks.Import("imported", testMnemonic, "", password, fastParams())
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	want, err := KeyFromMnemonic(testMnemonic, "", 0)
	if err != nil {
		t.Fatalf("KeyFromMnemonic() error: %v", err)
	}
	if addr != want.Address() {
		t.Errorf("imported address = %s, want %s", addr, want.Address())
	}

	acct, err := ks.Account("imported", 0)
	if err != nil {
		t.Fatalf("Account() error: %v", err)
	}
	if acct.Address != addr || acct.Name != "default" {
		t.Errorf("account 0 = %+v", acct)
	}
	if _, err := ks.Account("imported", 7); err == nil {
		t.Error("Account() for unknown index should fail")
	}
}

func TestKeystore_ImportInvalidMnemonic(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.Import("bad", "not words", "", []byte("p"), fastParams()); !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("expected ErrInvalidMnemonic, got %v", err)
	}
	names, _ := ks.List()
	if len(names) != 0 {
		t.Errorf("no wallet should be written, got %v", names)
	}
}

func TestKeystore_AddAccount(t *testing.T) {
	ks := testKeystore(t)
	ks.Create("wallet", testSeedBytes(t), []byte("p"), fastParams())

	a := types.Address{0xaa}
	if err := ks.AddAccount("wallet", AccountEntry{Index: 3, Name: "watch", Address: a}); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	// Same entry again is a no-op.
	if err := ks.AddAccount("wallet", AccountEntry{Index: 3, Name: "watch", Address: a}); err != nil {
		t.Fatalf("repeat AddAccount() error: %v", err)
	}
	if err := ks.AddAccount("wallet", AccountEntry{Index: 3, Name: "other", Address: types.Address{0xbb}}); err == nil {
		t.Error("should reject a different address at an existing index")
	}

	accounts, err := ks.ListAccounts("wallet")
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	next, _ := ks.NextIndex("wallet")
	if next != 4 {
		t.Errorf("NextIndex() = %d, want 4", next)
	}
}

func TestKeystore_FilePermissions(t *testing.T) {
	ks := testKeystore(t)
	ks.Create("secure", testSeedBytes(t), []byte("p"), fastParams())

	info, err := os.Stat(filepath.Join(ks.Dir(), "secure.wallet"))
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("wallet file should be 0600, got %o", perm)
	}
}

func TestKeystore_UnsupportedVersion(t *testing.T) {
	ks := testKeystore(t)
	path := filepath.Join(ks.Dir(), "old.wallet")
	if err := os.WriteFile(path, []byte(`{"version":9}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Load("old", []byte("p")); err == nil {
		t.Error("Load() should reject unknown versions")
	}
}
