package tx

import (
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

// Builder constructs and signs a transaction.
type Builder struct {
	tx *Transaction
}

// NewBuilder starts a transaction for ins.
func NewBuilder(ins Instruction) *Builder {
	return &Builder{tx: &Transaction{Version: CurrentVersion, Instruction: ins}}
}

// SetNonce sets the nonce. Two otherwise identical transactions need
// different nonces to get different IDs.
func (b *Builder) SetNonce(n uint64) *Builder {
	b.tx.Nonce = n
	b.tx.Signatures = nil
	return b
}

// Sign appends a signature from each signer. Call it after every field
// is set; changing the nonce drops existing signatures.
func (b *Builder) Sign(signers ...crypto.Signer) *Builder {
	hash := b.tx.Hash()
	for _, s := range signers {
		b.tx.Signatures = append(b.tx.Signatures, Signature{
			PubKey:    s.Address(),
			Signature: s.Sign(hash[:]),
		})
	}
	return b
}

// Build returns the transaction. It does NOT validate; call Validate.
func (b *Builder) Build() *Transaction {
	return b.tx
}

// InitLaunchpad builds the instruction that creates a sale.
func InitLaunchpad(creator, admin types.Address, name string, price, storyID, supply uint64) Instruction {
	return Instruction{
		Kind:         KindInitLaunchpad,
		Creator:      creator,
		Admin:        admin,
		SaleName:     name,
		TokenPrice:   price,
		TokenStoryID: storyID,
		TotalSupply:  supply,
	}
}

// BuyToken builds the instruction that buys amount sale tokens.
func BuyToken(buyer, mint types.Address, name string, amount uint64) Instruction {
	return Instruction{
		Kind:        KindBuyToken,
		Buyer:       buyer,
		Mint:        mint,
		SaleName:    name,
		AmountToBuy: amount,
	}
}

// SetActive builds the instruction that opens or closes a sale.
func SetActive(admin, mint types.Address, name string, active bool) Instruction {
	return Instruction{
		Kind:     KindSetActive,
		Admin:    admin,
		Mint:     mint,
		SaleName: name,
		Active:   active,
	}
}

// MintReference builds the instruction that mints reference tokens to
// the associated account of to.
func MintReference(authority, to types.Address, amount uint64) Instruction {
	return Instruction{
		Kind:      KindMintReference,
		Authority: authority,
		To:        to,
		Amount:    amount,
	}
}
