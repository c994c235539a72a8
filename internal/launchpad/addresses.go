package launchpad

import (
	"fmt"

	"github.com/nexwallet/launchpad/pkg/types"
)

// Fixed seed components.
const (
	stateTag          = "launchpad_state"
	paymentVaultTag   = "vault_nex"
	referenceMintSeed = "nex_token"
)

func referenceMintSeeds() [][]byte {
	return [][]byte{[]byte(referenceMintSeed)}
}

func mintSeeds(admin types.Address, name string) [][]byte {
	return [][]byte{admin[:], []byte(name)}
}

func stateSeeds(mint types.Address, name string) [][]byte {
	return [][]byte{mint[:], []byte(name), []byte(stateTag)}
}

func saleVaultSeeds(mint types.Address, name string) [][]byte {
	return [][]byte{mint[:], []byte(name)}
}

func paymentVaultSeeds(name string) [][]byte {
	return [][]byte{[]byte(name), []byte(paymentVaultTag)}
}

// Addresses lists every derived address of one sale with its bump.
type Addresses struct {
	Mint             types.Address `json:"mint"`
	MintBump         uint8         `json:"mint_bump"`
	State            types.Address `json:"state"`
	StateBump        uint8         `json:"state_bump"`
	SaleVault        types.Address `json:"sale_vault"`
	SaleVaultBump    uint8         `json:"sale_vault_bump"`
	PaymentVault     types.Address `json:"payment_vault"`
	PaymentVaultBump uint8         `json:"payment_vault_bump"`
	ReferenceMint    types.Address `json:"reference_mint"`
}

// Addresses derives the addresses of the sale admin would create under
// name.
func (p *Program) Addresses(admin types.Address, name string) (*Addresses, error) {
	if err := validSaleName(name); err != nil {
		return nil, err
	}
	mint, mintBump, err := p.resolver.Derive(mintSeeds(admin, name)...)
	if err != nil {
		return nil, fmt.Errorf("derive sale mint: %w", err)
	}
	a, err := p.SaleAddresses(mint, name)
	if err != nil {
		return nil, err
	}
	a.MintBump = mintBump
	return a, nil
}

// SaleAddresses derives the record and vault addresses for a known sale
// mint. MintBump is left zero.
func (p *Program) SaleAddresses(mint types.Address, name string) (*Addresses, error) {
	if err := validSaleName(name); err != nil {
		return nil, err
	}
	a := &Addresses{Mint: mint, ReferenceMint: p.refMint}
	var err error
	if a.State, a.StateBump, err = p.resolver.Derive(stateSeeds(mint, name)...); err != nil {
		return nil, fmt.Errorf("derive sale state: %w", err)
	}
	if a.SaleVault, a.SaleVaultBump, err = p.resolver.Derive(saleVaultSeeds(mint, name)...); err != nil {
		return nil, fmt.Errorf("derive sale vault: %w", err)
	}
	if a.PaymentVault, a.PaymentVaultBump, err = p.resolver.Derive(paymentVaultSeeds(name)...); err != nil {
		return nil, fmt.Errorf("derive payment vault: %w", err)
	}
	return a, nil
}

// vaults re-creates the vault addresses of a stored sale from its bumps.
func (p *Program) vaults(s *SaleState) (sale, payment types.Address, err error) {
	sale, err = p.resolver.Address(s.TokenVaultBump, saleVaultSeeds(s.TokenMint, s.SaleName)...)
	if err != nil {
		return types.Address{}, types.Address{}, fmt.Errorf("sale vault: %w", err)
	}
	payment, err = p.resolver.Address(s.PaymentVaultBump, paymentVaultSeeds(s.SaleName)...)
	if err != nil {
		return types.Address{}, types.Address{}, fmt.Errorf("payment vault: %w", err)
	}
	return sale, payment, nil
}
