package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

const keystoreVersion = 1

var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrInvalidName    = errors.New("invalid wallet name")
)

var walletName = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	EncryptedSeed []byte         `json:"encrypted_seed"`
	Accounts      []AccountEntry `json:"accounts"`
	NextIndex     uint32         `json:"next_index"`
}

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Index   uint32        `json:"index"`
	Name    string        `json:"name"`
	Address types.Address `json:"address"`
}

// Keystore manages encrypted wallets in one directory.
type Keystore struct {
	path string
}

// NewKeystore opens the keystore at path, creating the directory if needed.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string {
	return ks.path
}

func (ks *Keystore) walletPath(name string) (string, error) {
	if !walletName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(ks.path, name+".wallet"), nil
}

// Create writes a new wallet holding the encrypted seed.
func (ks *Keystore) Create(name string, seed, password []byte, params EncryptionParams) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	encrypted, err := Encrypt(seed, password, params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		EncryptedSeed: encrypted,
		Accounts:      []AccountEntry{},
	}
	return ks.writeFile(path, &kf)
}

// Import creates a wallet from a mnemonic and records account 0.
func (ks *Keystore) Import(name, mnemonic, passphrase string, password []byte, params EncryptionParams) (types.Address, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return types.Address{}, err
	}
	defer zero(seed)

	if err := ks.Create(name, seed, password, params); err != nil {
		return types.Address{}, err
	}
	entry, err := ks.NewAccount(name, password, "default")
	if err != nil {
		return types.Address{}, err
	}
	return entry.Address, nil
}

// Load decrypts a wallet and returns the seed bytes.
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	_, kf, err := ks.open(name)
	if err != nil {
		return nil, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet %q: %w", name, err)
	}
	return seed, nil
}

// Signer decrypts the wallet and derives the key for account index.
func (ks *Keystore) Signer(name string, password []byte, index uint32) (*crypto.PrivateKey, error) {
	seed, err := ks.Load(name, password)
	if err != nil {
		return nil, err
	}
	defer zero(seed)
	return keyFromSeed(seed, index)
}

// NewAccount derives the next account, records it and returns its entry.
func (ks *Keystore) NewAccount(walletName string, password []byte, label string) (AccountEntry, error) {
	path, kf, err := ks.open(walletName)
	if err != nil {
		return AccountEntry{}, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return AccountEntry{}, fmt.Errorf("decrypt wallet %q: %w", walletName, err)
	}
	defer zero(seed)

	key, err := keyFromSeed(seed, kf.NextIndex)
	if err != nil {
		return AccountEntry{}, err
	}
	defer key.Zero()

	entry := AccountEntry{Index: kf.NextIndex, Name: label, Address: key.Address()}
	if entry.Name == "" {
		entry.Name = fmt.Sprintf("account-%d", entry.Index)
	}
	kf.Accounts = append(kf.Accounts, entry)
	kf.NextIndex++
	if err := ks.writeFile(path, kf); err != nil {
		return AccountEntry{}, err
	}
	return entry, nil
}

// AddAccount records an account entry. Re-adding the same index with the
// same address is a no-op.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	path, kf, err := ks.open(walletName)
	if err != nil {
		return err
	}
	for _, existing := range kf.Accounts {
		if existing.Index == acct.Index {
			if existing.Address == acct.Address {
				return nil
			}
			return fmt.Errorf("account index %d already exists", acct.Index)
		}
		if existing.Address == acct.Address {
			return nil
		}
	}
	kf.Accounts = append(kf.Accounts, acct)
	if acct.Index >= kf.NextIndex {
		kf.NextIndex = acct.Index + 1
	}
	return ks.writeFile(path, kf)
}

// ListAccounts returns the account entries for a wallet.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	_, kf, err := ks.open(walletName)
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// Account finds an account by index.
func (ks *Keystore) Account(walletName string, index uint32) (AccountEntry, error) {
	accounts, err := ks.ListAccounts(walletName)
	if err != nil {
		return AccountEntry{}, err
	}
	for _, a := range accounts {
		if a.Index == index {
			return a, nil
		}
	}
	return AccountEntry{}, fmt.Errorf("wallet %q has no account %d", walletName, index)
}

// NextIndex returns the index the next NewAccount call will use.
func (ks *Keystore) NextIndex(walletName string) (uint32, error) {
	_, kf, err := ks.open(walletName)
	if err != nil {
		return 0, err
	}
	return kf.NextIndex, nil
}

// List returns the names of all wallets in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(path)
}

func (ks *Keystore) open(name string) (string, *keystoreFile, error) {
	path, err := ks.walletPath(name)
	if err != nil {
		return "", nil, err
	}
	kf, err := ks.readFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return "", nil, err
	}
	return path, kf, nil
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
