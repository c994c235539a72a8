package launchpad

import (
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
)

// InitParams are the arguments of init_launchpad.
type InitParams struct {
	Creator      types.Address
	Admin        types.Address
	SaleName     string
	TokenPrice   uint64
	TokenStoryID uint64
	TotalSupply  uint64
}

// Initialize creates a sale: the sale-token mint under admin, both vaults
// owned by the sale record, the full supply minted into the sale vault,
// and the record itself.
//
// If the record already exists the call returns it untouched. Nothing is
// minted and nothing is overwritten.
func (p *Program) Initialize(l Ledger, params InitParams) (*SaleState, error) {
	s, _, err := p.initialize(l, params)
	return s, err
}

func (p *Program) initialize(l Ledger, params InitParams) (*SaleState, bool, error) {
	if err := validSaleName(params.SaleName); err != nil {
		return nil, false, err
	}
	if params.TokenPrice == 0 {
		return nil, false, ErrInvalidPrice
	}
	if !l.IsSigner(params.Creator) {
		return nil, false, fmt.Errorf("%w: creator %s did not sign", ErrUnauthorized, params.Creator)
	}
	if !l.IsSigner(params.Admin) {
		return nil, false, fmt.Errorf("%w: admin %s did not sign", ErrUnauthorized, params.Admin)
	}
	ok, err := l.HasMint(p.refMint)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrReferenceMintMissing, p.refMint)
	}

	addrs, err := p.Addresses(params.Admin, params.SaleName)
	if err != nil {
		return nil, false, err
	}

	exists, err := l.HasRecord(addrs.State)
	if err != nil {
		return nil, false, err
	}
	if exists {
		s, err := p.load(l, addrs.State)
		if err != nil {
			return nil, false, err
		}
		if s.Creator != params.Creator || s.TokenPrice != params.TokenPrice || s.TokenStoryID != params.TokenStoryID {
			p.logger.Warn().
				Str("sale", params.SaleName).
				Str("state", addrs.State.String()).
				Uint64("stored_price", s.TokenPrice).
				Uint64("requested_price", params.TokenPrice).
				Msg("sale already initialized; ignoring new parameters")
		}
		return s, false, nil
	}

	mint, err := l.EnsureMint(addrs.Mint, params.Admin, SaleDecimals)
	if err != nil {
		return nil, false, fmt.Errorf("sale mint: %w", err)
	}
	if mint.Authority != params.Admin {
		return nil, false, fmt.Errorf("%w: sale mint %s has authority %s", ErrUnauthorized, addrs.Mint, mint.Authority)
	}
	if _, err := l.EnsureAccount(addrs.SaleVault, addrs.Mint, addrs.State); err != nil {
		return nil, false, fmt.Errorf("sale vault: %w", err)
	}
	if _, err := l.EnsureAccount(addrs.PaymentVault, p.refMint, addrs.State); err != nil {
		if errors.Is(err, token.ErrOwnerMismatch) {
			return nil, false, fmt.Errorf("%w: %q", ErrPaymentVaultTaken, params.SaleName)
		}
		return nil, false, fmt.Errorf("payment vault: %w", err)
	}
	if params.TotalSupply > 0 {
		if err := l.MintTo(addrs.Mint, addrs.SaleVault, ledger.Signer(params.Admin), params.TotalSupply); err != nil {
			return nil, false, fmt.Errorf("mint supply: %w", err)
		}
	}

	s := &SaleState{
		Creator:          params.Creator,
		Admin:            params.Admin,
		SaleName:         params.SaleName,
		TokenMint:        addrs.Mint,
		TokenPrice:       params.TokenPrice,
		TotalRaised:      0,
		IsActive:         true,
		TokenStoryID:     params.TokenStoryID,
		Bump:             addrs.StateBump,
		TokenBump:        addrs.MintBump,
		TokenVaultBump:   addrs.SaleVaultBump,
		PaymentVaultBump: addrs.PaymentVaultBump,
	}
	if err := p.store(l, addrs.State, s); err != nil {
		return nil, false, err
	}

	p.logger.Info().
		Str("sale", s.SaleName).
		Str("mint", s.TokenMint.String()).
		Str("admin", s.Admin.String()).
		Uint64("price", s.TokenPrice).
		Uint64("supply", params.TotalSupply).
		Msg("launchpad initialized")
	return s, true, nil
}

// load reads and decodes the record at addr.
func (p *Program) load(l Ledger, addr types.Address) (*SaleState, error) {
	data, err := l.Record(addr)
	if errors.Is(err, ledger.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	var s SaleState
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("record %s: %w", addr, err)
	}
	return &s, nil
}

func (p *Program) store(l Ledger, addr types.Address, s *SaleState) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return l.PutRecord(addr, data)
}
