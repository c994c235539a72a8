package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"

	"github.com/nexwallet/launchpad/internal/storage"
	"github.com/nexwallet/launchpad/pkg/types"
)

var (
	prefixMint    = []byte("m/") // m/<addr(32)> -> Mint JSON
	prefixAccount = []byte("a/") // a/<addr(32)> -> Account JSON
)

// Store persists mints and accounts and applies balance changes.
type Store struct {
	db storage.DB
}

// NewStore creates a token store over db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// Mint loads a mint.
func (s *Store) Mint(addr types.Address) (*Mint, error) {
	data, err := s.db.Get(key(prefixMint, addr))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMintNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("mint get: %w", err)
	}
	var m Mint
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("mint unmarshal: %w", err)
	}
	return &m, nil
}

// HasMint reports whether a mint exists at addr.
func (s *Store) HasMint(addr types.Address) (bool, error) {
	return s.db.Has(key(prefixMint, addr))
}

// PutMint stores a mint.
func (s *Store) PutMint(m *Mint) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("mint marshal: %w", err)
	}
	return s.db.Put(key(prefixMint, m.Address), data)
}

// CreateMint creates an empty mint. It fails if one already exists.
func (s *Store) CreateMint(addr, authority types.Address, decimals uint8) (*Mint, error) {
	ok, err := s.HasMint(addr)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("%w: %s", ErrMintExists, addr)
	}
	m := &Mint{Address: addr, Authority: authority, Decimals: decimals}
	if err := s.PutMint(m); err != nil {
		return nil, err
	}
	return m, nil
}

// EnsureMint returns the mint at addr, creating it if absent.
func (s *Store) EnsureMint(addr, authority types.Address, decimals uint8) (*Mint, error) {
	m, err := s.Mint(addr)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrMintNotFound) {
		return nil, err
	}
	return s.CreateMint(addr, authority, decimals)
}

// Account loads a token account.
func (s *Store) Account(addr types.Address) (*Account, error) {
	data, err := s.db.Get(key(prefixAccount, addr))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("account get: %w", err)
	}
	var a Account
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("account unmarshal: %w", err)
	}
	return &a, nil
}

// PutAccount stores a token account.
func (s *Store) PutAccount(a *Account) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("account marshal: %w", err)
	}
	return s.db.Put(key(prefixAccount, a.Address), data)
}

// Balance returns the amount held at addr. A missing account holds zero.
func (s *Store) Balance(addr types.Address) (uint64, error) {
	a, err := s.Account(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// CreateAccount opens an empty account of mint at addr. The mint must
// exist and the address must be free.
func (s *Store) CreateAccount(addr, mint, owner types.Address) (*Account, error) {
	if _, err := s.Mint(mint); err != nil {
		return nil, err
	}
	exists, err := s.db.Has(key(prefixAccount, addr))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	a := &Account{Address: addr, Mint: mint, Owner: owner}
	if err := s.PutAccount(a); err != nil {
		return nil, err
	}
	return a, nil
}

// EnsureAccount returns the account at addr, creating it if absent. An
// existing account must match both mint and owner.
func (s *Store) EnsureAccount(addr, mint, owner types.Address) (*Account, error) {
	a, err := s.Account(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return s.CreateAccount(addr, mint, owner)
	}
	if err != nil {
		return nil, err
	}
	if a.Mint != mint {
		return nil, fmt.Errorf("%w: account %s holds %s, want %s", ErrMintMismatch, addr, a.Mint, mint)
	}
	if a.Owner != owner {
		return nil, fmt.Errorf("%w: account %s", ErrOwnerMismatch, addr)
	}
	return a, nil
}

// Transfer moves amount from one account to another of the same mint.
// owner must be the owner of the source account.
func (s *Store) Transfer(from, to, owner types.Address, amount uint64) error {
	src, err := s.Account(from)
	if err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	dst, err := s.Account(to)
	if err != nil {
		return fmt.Errorf("transfer destination: %w", err)
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: %s -> %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.Owner != owner {
		return fmt.Errorf("%w: %s does not own %s", ErrUnauthorized, owner, from)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	src.Amount -= amount
	dst.Amount = sum
	if err := s.PutAccount(src); err != nil {
		return err
	}
	return s.PutAccount(dst)
}

// MintTo creates amount new units of mint in account to. authority must
// be the mint authority.
func (s *Store) MintTo(mint, to, authority types.Address, amount uint64) error {
	m, err := s.Mint(mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return fmt.Errorf("%w: %s is not the authority of %s", ErrUnauthorized, authority, mint)
	}
	dst, err := s.Account(to)
	if err != nil {
		return fmt.Errorf("mint destination: %w", err)
	}
	if dst.Mint != mint {
		return fmt.Errorf("%w: account %s holds %s", ErrMintMismatch, to, dst.Mint)
	}
	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return ErrSupplyOverflow
	}
	bal, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	m.Supply = supply
	dst.Amount = bal
	if err := s.PutMint(m); err != nil {
		return err
	}
	return s.PutAccount(dst)
}

// ForEachAccount iterates over every token account.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEachAccount(fn func(*Account) error) error {
	return s.db.ForEach(prefixAccount, func(_, value []byte) error {
		var a Account
		if err := json.Unmarshal(value, &a); err != nil {
			return nil // Skip corrupt entries.
		}
		return fn(&a)
	})
}

// AccountsByOwner returns every account controlled by owner.
func (s *Store) AccountsByOwner(owner types.Address) ([]Account, error) {
	accts := []Account{}
	err := s.ForEachAccount(func(a *Account) error {
		if a.Owner == owner {
			accts = append(accts, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accts, nil
}

func key(prefix []byte, addr types.Address) []byte {
	k := make([]byte, len(prefix)+types.AddressSize)
	copy(k, prefix)
	copy(k[len(prefix):], addr[:])
	return k
}
