package ledger

import (
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/internal/pda"
	"github.com/nexwallet/launchpad/internal/storage"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
)

// Signer is an authority backed by a verified transaction signature.
type Signer types.Address

// Key returns the signing address.
func (s Signer) Key() types.Address {
	return types.Address(s)
}

// Txn is the view a program gets of the ledger during one call.
type Txn struct {
	program  types.Address
	signers  map[types.Address]struct{}
	readOnly bool

	tokens  *token.Store
	records *storage.PrefixDB
}

func newTxn(db storage.DB, program types.Address, signers []types.Address, readOnly bool) *Txn {
	set := make(map[types.Address]struct{}, len(signers))
	for _, s := range signers {
		set[s] = struct{}{}
	}
	return &Txn{
		program:  program,
		signers:  set,
		readOnly: readOnly,
		tokens:   token.NewStore(storage.NewPrefixDB(db, prefixTokens)),
		records:  storage.NewPrefixDB(db, prefixRecords),
	}
}

// Program returns the executing program ID.
func (t *Txn) Program() types.Address {
	return t.program
}

// IsSigner reports whether addr signed the call.
func (t *Txn) IsSigner(addr types.Address) bool {
	_, ok := t.signers[addr]
	return ok
}

// authorize resolves an authority to the address it speaks for.
func (t *Txn) authorize(auth token.Authority) (types.Address, error) {
	switch a := auth.(type) {
	case Signer:
		if !t.IsSigner(a.Key()) {
			return types.Address{}, fmt.Errorf("%w: %s", ErrUnauthorized, a.Key())
		}
		return a.Key(), nil
	case *pda.SigningProof:
		if err := a.Verify(t.program); err != nil {
			return types.Address{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		if err := a.Consume(); err != nil {
			return types.Address{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return a.Key(), nil
	case nil:
		return types.Address{}, fmt.Errorf("%w: no authority", ErrUnauthorized)
	default:
		return types.Address{}, fmt.Errorf("%w: unsupported authority %T", ErrUnauthorized, auth)
	}
}

func (t *Txn) writable() error {
	if t.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Mint loads a mint.
func (t *Txn) Mint(addr types.Address) (*token.Mint, error) {
	return t.tokens.Mint(addr)
}

// HasMint reports whether a mint exists.
func (t *Txn) HasMint(addr types.Address) (bool, error) {
	return t.tokens.HasMint(addr)
}

// Account loads a token account.
func (t *Txn) Account(addr types.Address) (*token.Account, error) {
	return t.tokens.Account(addr)
}

// Balance returns the balance held at addr, zero if the account is missing.
func (t *Txn) Balance(addr types.Address) (uint64, error) {
	return t.tokens.Balance(addr)
}

// AccountsByOwner lists the token accounts controlled by owner.
func (t *Txn) AccountsByOwner(owner types.Address) ([]token.Account, error) {
	return t.tokens.AccountsByOwner(owner)
}

// EnsureMint returns the mint at addr, creating it if absent.
func (t *Txn) EnsureMint(addr, authority types.Address, decimals uint8) (*token.Mint, error) {
	if err := t.writable(); err != nil {
		return nil, err
	}
	return t.tokens.EnsureMint(addr, authority, decimals)
}

// EnsureAccount returns the token account at addr, creating it if absent.
func (t *Txn) EnsureAccount(addr, mint, owner types.Address) (*token.Account, error) {
	if err := t.writable(); err != nil {
		return nil, err
	}
	return t.tokens.EnsureAccount(addr, mint, owner)
}

// Transfer moves amount between accounts on behalf of auth, which must
// own the source account.
func (t *Txn) Transfer(from, to types.Address, auth token.Authority, amount uint64) error {
	if err := t.writable(); err != nil {
		return err
	}
	owner, err := t.authorize(auth)
	if err != nil {
		return err
	}
	return t.tokens.Transfer(from, to, owner, amount)
}

// MintTo creates new supply on behalf of auth, which must be the mint
// authority.
func (t *Txn) MintTo(mint, to types.Address, auth token.Authority, amount uint64) error {
	if err := t.writable(); err != nil {
		return err
	}
	authority, err := t.authorize(auth)
	if err != nil {
		return err
	}
	return t.tokens.MintTo(mint, to, authority, amount)
}

// Record loads the data of a program-owned record.
func (t *Txn) Record(addr types.Address) ([]byte, error) {
	owner, data, err := t.record(addr)
	if err != nil {
		return nil, err
	}
	if !t.readOnly && owner != t.program {
		return nil, fmt.Errorf("%w: %s", ErrRecordOwner, addr)
	}
	return data, nil
}

// HasRecord reports whether a record exists at addr.
func (t *Txn) HasRecord(addr types.Address) (bool, error) {
	return t.records.Has(addr[:])
}

// PutRecord writes a record owned by the executing program. An existing
// record owned by another program cannot be overwritten.
func (t *Txn) PutRecord(addr types.Address, data []byte) error {
	if err := t.writable(); err != nil {
		return err
	}
	owner, _, err := t.record(addr)
	switch {
	case errors.Is(err, ErrRecordNotFound):
	case err != nil:
		return err
	case owner != t.program:
		return fmt.Errorf("%w: %s", ErrRecordOwner, addr)
	}
	value := make([]byte, types.AddressSize+len(data))
	copy(value, t.program[:])
	copy(value[types.AddressSize:], data)
	return t.records.Put(addr[:], value)
}

// ForEachRecord iterates over the records owned by program.
// Return a non-nil error from fn to stop iteration early.
func (t *Txn) ForEachRecord(program types.Address, fn func(addr types.Address, data []byte) error) error {
	return t.records.ForEach(nil, func(key, value []byte) error {
		if len(key) != types.AddressSize || len(value) < types.AddressSize {
			return nil // Malformed entry, skip.
		}
		var owner types.Address
		copy(owner[:], value)
		if owner != program {
			return nil
		}
		var addr types.Address
		copy(addr[:], key)
		return fn(addr, value[types.AddressSize:])
	})
}

func (t *Txn) record(addr types.Address) (types.Address, []byte, error) {
	value, err := t.records.Get(addr[:])
	if errors.Is(err, storage.ErrNotFound) {
		return types.Address{}, nil, fmt.Errorf("%w: %s", ErrRecordNotFound, addr)
	}
	if err != nil {
		return types.Address{}, nil, err
	}
	if len(value) < types.AddressSize {
		return types.Address{}, nil, fmt.Errorf("corrupt record %s", addr)
	}
	var owner types.Address
	copy(owner[:], value)
	return owner, value[types.AddressSize:], nil
}
