// Package launchpad implements the token-sale program.
//
// A sale is created once by Initialize, which mints the full supply of a
// fresh sale token into a vault owned by the sale's record address. Buy
// then swaps reference tokens for sale tokens at the fixed price. The
// program keeps no state of its own: every call reads and rewrites ledger
// records through the Ledger it is handed, and the host makes each call
// all-or-nothing.
package launchpad

import (
	"fmt"

	"github.com/nexwallet/launchpad/internal/log"
	"github.com/nexwallet/launchpad/internal/metrics"
	"github.com/nexwallet/launchpad/internal/pda"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
	"github.com/rs/zerolog"
)

// SaleDecimals is the precision of every sale-token mint.
const SaleDecimals = 9

// Ledger is the host state a call runs against. *ledger.Txn implements it.
type Ledger interface {
	Program() types.Address
	IsSigner(addr types.Address) bool

	HasMint(addr types.Address) (bool, error)
	Mint(addr types.Address) (*token.Mint, error)
	Account(addr types.Address) (*token.Account, error)
	Balance(addr types.Address) (uint64, error)
	EnsureMint(addr, authority types.Address, decimals uint8) (*token.Mint, error)
	EnsureAccount(addr, mint, owner types.Address) (*token.Account, error)
	Transfer(from, to types.Address, auth token.Authority, amount uint64) error
	MintTo(mint, to types.Address, auth token.Authority, amount uint64) error

	Record(addr types.Address) ([]byte, error)
	HasRecord(addr types.Address) (bool, error)
	PutRecord(addr types.Address, data []byte) error
	ForEachRecord(program types.Address, fn func(addr types.Address, data []byte) error) error
}

// Program is the launchpad program bound to its program ID.
type Program struct {
	id       types.Address
	resolver *pda.Resolver
	refMint  types.Address
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// New creates the program. m may be nil.
func New(id types.Address, m *metrics.Metrics) (*Program, error) {
	r := pda.NewResolver(id)
	refMint, _, err := r.Derive(referenceMintSeeds()...)
	if err != nil {
		return nil, fmt.Errorf("derive reference mint: %w", err)
	}
	return &Program{
		id:       id,
		resolver: r,
		refMint:  refMint,
		metrics:  m,
		logger:   log.Launchpad,
	}, nil
}

// ID returns the program ID.
func (p *Program) ID() types.Address {
	return p.id
}

// ReferenceMint returns the address of the payment token mint.
func (p *Program) ReferenceMint() types.Address {
	return p.refMint
}

func validSaleName(name string) error {
	if len(name) == 0 || len(name) > MaxSaleNameLength {
		return fmt.Errorf("%w: %d bytes, want 1..%d", ErrInvalidSaleName, len(name), MaxSaleNameLength)
	}
	return nil
}
