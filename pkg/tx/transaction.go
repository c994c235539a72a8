// Package tx defines signed launchpad transactions.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

// CurrentVersion is the only accepted transaction version.
const CurrentVersion = 1

// Kind names an instruction.
type Kind string

// Instruction kinds.
const (
	KindInitLaunchpad Kind = "init_launchpad"
	KindBuyToken      Kind = "buy_token"
	KindSetActive     Kind = "set_active"
	KindMintReference Kind = "mint_reference"
)

// Valid reports whether k is a known instruction kind.
func (k Kind) Valid() bool {
	switch k {
	case KindInitLaunchpad, KindBuyToken, KindSetActive, KindMintReference:
		return true
	}
	return false
}

// Transaction is one signed instruction.
type Transaction struct {
	Version     uint32      `json:"version"`
	Nonce       uint64      `json:"nonce"`
	Instruction Instruction `json:"instruction"`
	Signatures  []Signature `json:"signatures"`
}

// Instruction carries the arguments of one entry point. Which fields are
// meaningful depends on Kind:
//
//	init_launchpad  Creator, Admin, SaleName, TokenPrice, TokenStoryID, TotalSupply
//	buy_token       Buyer, Mint, SaleName, AmountToBuy
//	set_active      Admin, Mint, SaleName, Active
//	mint_reference  Authority, To, Amount
type Instruction struct {
	Kind         Kind          `json:"kind"`
	SaleName     string        `json:"sale_name,omitempty"`
	TokenPrice   uint64        `json:"token_price,omitempty"`
	TokenStoryID uint64        `json:"token_story_id,omitempty"`
	TotalSupply  uint64        `json:"total_supply,omitempty"`
	AmountToBuy  uint64        `json:"amount_to_buy,omitempty"`
	Mint         types.Address `json:"mint"`
	Creator      types.Address `json:"creator"`
	Admin        types.Address `json:"admin"`
	Buyer        types.Address `json:"buyer"`
	Authority    types.Address `json:"authority"`
	To           types.Address `json:"to"`
	Active       bool          `json:"active,omitempty"`
	Amount       uint64        `json:"amount,omitempty"`
}

// Signature is an ed25519 signature by PubKey over the transaction hash.
type Signature struct {
	PubKey    types.Address `json:"pubkey"`
	Signature []byte        `json:"signature"`
}

type signatureJSON struct {
	PubKey    types.Address `json:"pubkey"`
	Signature string        `json:"signature"`
}

// MarshalJSON encodes the signature bytes as hex.
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(signatureJSON{PubKey: s.PubKey, Signature: hex.EncodeToString(s.Signature)})
}

// UnmarshalJSON decodes a hex-encoded signature.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var j signatureJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	b, err := hex.DecodeString(j.Signature)
	if err != nil {
		return err
	}
	s.PubKey = j.PubKey
	s.Signature = b
	return nil
}

// Hash computes the transaction ID (BLAKE3 of the signing bytes).
// Signatures are excluded so signers can sign the ID itself.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.SigningBytes())
}

// SigningBytes returns the canonical byte form used for signing.
// Format: version(4) | nonce(8) | kind_len(1) kind | name_len(1) name |
// price(8) | story(8) | supply(8) | amount_to_buy(8) | mint | creator |
// admin | buyer | authority | to (32 each) | active(1) | amount(8)
func (tx *Transaction) SigningBytes() []byte {
	in := &tx.Instruction
	buf := make([]byte, 0, 4+8+2+len(in.Kind)+len(in.SaleName)+32+6*types.AddressSize+9)

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Nonce)
	buf = appendShort(buf, string(in.Kind))
	buf = appendShort(buf, in.SaleName)
	buf = binary.LittleEndian.AppendUint64(buf, in.TokenPrice)
	buf = binary.LittleEndian.AppendUint64(buf, in.TokenStoryID)
	buf = binary.LittleEndian.AppendUint64(buf, in.TotalSupply)
	buf = binary.LittleEndian.AppendUint64(buf, in.AmountToBuy)
	for _, a := range []types.Address{in.Mint, in.Creator, in.Admin, in.Buyer, in.Authority, in.To} {
		buf = append(buf, a[:]...)
	}
	if in.Active {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, in.Amount)
	return buf
}

// appendShort appends a one-byte length prefix and s, truncated to 255
// bytes. Validate rejects anything that long before it matters.
func appendShort(buf []byte, s string) []byte {
	if len(s) > 255 {
		s = s[:255]
	}
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// RequiredSigners returns the addresses that must sign for the
// instruction to be accepted.
func (in *Instruction) RequiredSigners() []types.Address {
	switch in.Kind {
	case KindInitLaunchpad:
		if in.Creator == in.Admin {
			return []types.Address{in.Creator}
		}
		return []types.Address{in.Creator, in.Admin}
	case KindBuyToken:
		return []types.Address{in.Buyer}
	case KindSetActive:
		return []types.Address{in.Admin}
	case KindMintReference:
		return []types.Address{in.Authority}
	}
	return nil
}
