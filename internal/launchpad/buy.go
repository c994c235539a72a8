package launchpad

import (
	"fmt"
	"math/bits"

	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
)

// BuyParams are the arguments of buy_token.
type BuyParams struct {
	Buyer     types.Address
	TokenMint types.Address
	SaleName  string
	Amount    uint64
}

// Purchase describes a completed buy.
type Purchase struct {
	Buyer        types.Address `json:"buyer"`
	TokenMint    types.Address `json:"token_mint"`
	SaleName     string        `json:"sale_name"`
	Amount       uint64        `json:"amount"`
	Cost         uint64        `json:"cost"`
	TotalRaised  uint64        `json:"total_raised"`
	BuyerAccount types.Address `json:"buyer_account"`
}

// Buy exchanges Amount sale tokens for Amount*TokenPrice reference tokens.
//
// Every check runs before the first transfer. The reference leg is
// authorized by the buyer's signature, the sale-token leg by a signing
// proof for the sale record address.
func (p *Program) Buy(l Ledger, params BuyParams) (*Purchase, error) {
	if params.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !l.IsSigner(params.Buyer) {
		return nil, fmt.Errorf("%w: buyer %s did not sign", ErrUnauthorized, params.Buyer)
	}
	if err := validSaleName(params.SaleName); err != nil {
		return nil, err
	}

	// Sale record and vaults.
	stateAddr, _, err := p.resolver.Derive(stateSeeds(params.TokenMint, params.SaleName)...)
	if err != nil {
		return nil, fmt.Errorf("derive sale state: %w", err)
	}
	s, err := p.load(l, stateAddr)
	if err != nil {
		return nil, err
	}
	if s.TokenMint != params.TokenMint || s.SaleName != params.SaleName {
		return nil, fmt.Errorf("%w: record holds %s/%q", ErrMintMismatch, s.TokenMint, s.SaleName)
	}
	saleVaultAddr, paymentVaultAddr, err := p.vaults(s)
	if err != nil {
		return nil, err
	}
	saleVault, err := l.Account(saleVaultAddr)
	if err != nil {
		return nil, fmt.Errorf("sale vault: %w", err)
	}
	if saleVault.Mint != s.TokenMint {
		return nil, fmt.Errorf("%w: sale vault holds %s", ErrMintMismatch, saleVault.Mint)
	}
	paymentVault, err := l.Account(paymentVaultAddr)
	if err != nil {
		return nil, fmt.Errorf("payment vault: %w", err)
	}
	if paymentVault.Mint != p.refMint {
		return nil, fmt.Errorf("%w: payment vault holds %s", ErrMintMismatch, paymentVault.Mint)
	}

	if !s.IsActive {
		return nil, ErrSaleNotActive
	}

	hi, cost := bits.Mul64(s.TokenPrice, params.Amount)
	if hi != 0 {
		return nil, fmt.Errorf("%w: %d * %d", ErrMathOverflow, s.TokenPrice, params.Amount)
	}

	buyerPayment, _, err := token.AssociatedAddress(params.Buyer, p.refMint)
	if err != nil {
		return nil, err
	}
	have, err := l.Balance(buyerPayment)
	if err != nil {
		return nil, err
	}
	if have < cost {
		return nil, fmt.Errorf("%w: buyer has %d, needs %d", ErrInsufficientTokens, have, cost)
	}
	if saleVault.Amount < params.Amount {
		return nil, fmt.Errorf("%w: vault has %d, requested %d", ErrInsufficientTokens, saleVault.Amount, params.Amount)
	}

	raised, carry := bits.Add64(s.TotalRaised, cost, 0)
	if carry != 0 {
		return nil, fmt.Errorf("%w: total raised", ErrMathOverflow)
	}

	// Transfers. The host discards both legs if anything below fails.
	if err := l.Transfer(buyerPayment, paymentVaultAddr, ledger.Signer(params.Buyer), cost); err != nil {
		return nil, fmt.Errorf("payment transfer: %w", err)
	}

	buyerSale, _, err := token.AssociatedAddress(params.Buyer, s.TokenMint)
	if err != nil {
		return nil, err
	}
	if _, err := l.EnsureAccount(buyerSale, s.TokenMint, params.Buyer); err != nil {
		return nil, fmt.Errorf("buyer token account: %w", err)
	}
	proof, err := p.resolver.Authorize(s.Bump, stateSeeds(s.TokenMint, s.SaleName)...)
	if err != nil {
		return nil, err
	}
	if err := l.Transfer(saleVaultAddr, buyerSale, proof, params.Amount); err != nil {
		return nil, fmt.Errorf("token transfer: %w", err)
	}

	s.TotalRaised = raised
	if err := p.store(l, stateAddr, s); err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("sale", s.SaleName).
		Str("buyer", params.Buyer.String()).
		Uint64("amount", params.Amount).
		Uint64("cost", cost).
		Uint64("total_raised", raised).
		Msg("tokens purchased")

	return &Purchase{
		Buyer:        params.Buyer,
		TokenMint:    s.TokenMint,
		SaleName:     s.SaleName,
		Amount:       params.Amount,
		Cost:         cost,
		TotalRaised:  raised,
		BuyerAccount: buyerSale,
	}, nil
}
