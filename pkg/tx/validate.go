package tx

import (
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

const (
	// MaxSignatures bounds the signature list.
	MaxSignatures = 8
	// MaxSaleNameLength matches the derived-address seed limit.
	MaxSaleNameLength = 32
)

// Validation errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported transaction version")
	ErrUnknownKind        = errors.New("unknown instruction kind")
	ErrNoSignatures       = errors.New("transaction has no signatures")
	ErrTooManySignatures  = errors.New("too many signatures")
	ErrDuplicateSigner    = errors.New("duplicate signer")
	ErrMissingSignature   = errors.New("required signer did not sign")
	ErrInvalidSig         = errors.New("invalid signature")
	ErrMissingField       = errors.New("missing instruction field")
	ErrSaleNameLength     = errors.New("sale name length out of range")
)

// Validate checks transaction structure. It does not verify signatures
// and does not look at ledger state.
func (tx *Transaction) Validate() error {
	if tx.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, tx.Version)
	}
	in := &tx.Instruction
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
	if err := in.validateFields(); err != nil {
		return err
	}

	if len(tx.Signatures) == 0 {
		return ErrNoSignatures
	}
	if len(tx.Signatures) > MaxSignatures {
		return fmt.Errorf("%w: %d, max %d", ErrTooManySignatures, len(tx.Signatures), MaxSignatures)
	}
	signed := make(map[types.Address]bool, len(tx.Signatures))
	for i, s := range tx.Signatures {
		if signed[s.PubKey] {
			return fmt.Errorf("signature %d: %w", i, ErrDuplicateSigner)
		}
		if len(s.Signature) != crypto.SignatureSize {
			return fmt.Errorf("signature %d: %w: %d bytes", i, ErrInvalidSig, len(s.Signature))
		}
		signed[s.PubKey] = true
	}
	for _, req := range in.RequiredSigners() {
		if !signed[req] {
			return fmt.Errorf("%w: %s", ErrMissingSignature, req)
		}
	}
	return nil
}

func (in *Instruction) validateFields() error {
	required := func(name string, a types.Address) error {
		if a.IsZero() {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		return nil
	}
	checkName := func() error {
		if len(in.SaleName) == 0 || len(in.SaleName) > MaxSaleNameLength {
			return fmt.Errorf("%w: %d bytes", ErrSaleNameLength, len(in.SaleName))
		}
		return nil
	}

	var errs []error
	switch in.Kind {
	case KindInitLaunchpad:
		errs = append(errs, checkName(), required("creator", in.Creator), required("admin", in.Admin))
	case KindBuyToken:
		errs = append(errs, checkName(), required("buyer", in.Buyer), required("mint", in.Mint))
	case KindSetActive:
		errs = append(errs, checkName(), required("admin", in.Admin), required("mint", in.Mint))
	case KindMintReference:
		errs = append(errs, required("authority", in.Authority), required("to", in.To))
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Verify checks every signature against the transaction hash and returns
// the signer addresses in signature order.
func (tx *Transaction) Verify() ([]types.Address, error) {
	hash := tx.Hash()
	signers := make([]types.Address, 0, len(tx.Signatures))
	for i, s := range tx.Signatures {
		if !crypto.VerifySignature(s.PubKey, hash[:], s.Signature) {
			return nil, fmt.Errorf("signature %d (%s): %w", i, s.PubKey, ErrInvalidSig)
		}
		signers = append(signers, s.PubKey)
	}
	return signers, nil
}
