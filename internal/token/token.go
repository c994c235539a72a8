// Package token implements fungible token mints and balance accounts.
//
// A Mint defines a token: who may create new supply and how many decimals
// it carries. An Account holds a balance of exactly one mint and is
// controlled by a single owner address. Moving a balance requires the
// owner's authority; creating supply requires the mint authority. The
// Store enforces both, the ledger decides who holds them.
package token

import (
	"errors"

	"github.com/nexwallet/launchpad/internal/pda"
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

var (
	// ProgramID identifies the token program in associated-account seeds.
	ProgramID = crypto.ProgramID("token")
	// AssociatedProgramID owns associated account addresses.
	AssociatedProgramID = crypto.ProgramID("associated_token")
)

var (
	ErrMintNotFound      = errors.New("mint not found")
	ErrMintExists        = errors.New("mint already exists")
	ErrAccountNotFound   = errors.New("token account not found")
	ErrAccountExists     = errors.New("token account already exists")
	ErrMintMismatch      = errors.New("token account mint mismatch")
	ErrOwnerMismatch     = errors.New("token account owner mismatch")
	ErrUnauthorized      = errors.New("missing token authority")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
	ErrSupplyOverflow    = errors.New("supply overflow")
)

// Authority is anything that can speak for an address: a transaction
// signer or a derived-address signing proof.
type Authority interface {
	Key() types.Address
}

// Mint describes a fungible token.
type Mint struct {
	Address   types.Address `json:"address"`
	Authority types.Address `json:"authority"`
	Decimals  uint8         `json:"decimals"`
	Supply    uint64        `json:"supply"`
}

// Account is a balance of one mint controlled by Owner.
type Account struct {
	Address types.Address `json:"address"`
	Mint    types.Address `json:"mint"`
	Owner   types.Address `json:"owner"`
	Amount  uint64        `json:"amount"`
}

// AssociatedAddress returns the canonical account address for owner and
// mint. Seeds are {owner, token program, mint}.
func AssociatedAddress(owner, mint types.Address) (types.Address, uint8, error) {
	return pda.FindAddress(AssociatedProgramID, owner[:], ProgramID[:], mint[:])
}
