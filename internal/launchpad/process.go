package launchpad

import (
	"errors"
	"fmt"
	"time"

	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/tx"
	"github.com/nexwallet/launchpad/pkg/types"
)

// Host runs one atomic call. *ledger.Ledger implements it.
type Host interface {
	Execute(program types.Address, id types.Hash, signers []types.Address, fn func(*ledger.Txn) error) error
}

// Receipt is the result of a processed transaction.
type Receipt struct {
	TxID     types.Hash    `json:"tx_id"`
	Kind     tx.Kind       `json:"kind"`
	Sale     *SaleState    `json:"sale,omitempty"`
	Created  bool          `json:"created,omitempty"`
	Purchase *Purchase     `json:"purchase,omitempty"`
	Account  types.Address `json:"account,omitempty"`
}

// Process verifies t and executes its instruction as one atomic call.
func (p *Program) Process(h Host, t *tx.Transaction) (*Receipt, error) {
	start := time.Now()
	kind := t.Instruction.Kind

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	signers, err := t.Verify()
	if err != nil {
		return nil, err
	}

	rc := &Receipt{TxID: t.Hash(), Kind: kind}
	err = h.Execute(p.id, rc.TxID, signers, func(txn *ledger.Txn) error {
		return p.apply(txn, &t.Instruction, rc)
	})
	p.metrics.ObserveTx(string(kind), err, time.Since(start))
	if err != nil {
		if kind == tx.KindBuyToken {
			p.metrics.PurchaseFailed(FailureReason(err))
		}
		p.logger.Debug().Str("tx", rc.TxID.String()).Str("kind", string(kind)).Err(err).Msg("transaction rejected")
		return nil, err
	}

	switch {
	case rc.Created:
		p.metrics.SaleInitialized()
	case rc.Purchase != nil:
		p.metrics.Purchase(rc.Purchase.Amount, rc.Purchase.Cost)
	}
	return rc, nil
}

func (p *Program) apply(l Ledger, in *tx.Instruction, rc *Receipt) error {
	var err error
	switch in.Kind {
	case tx.KindInitLaunchpad:
		rc.Sale, rc.Created, err = p.initialize(l, InitParams{
			Creator:      in.Creator,
			Admin:        in.Admin,
			SaleName:     in.SaleName,
			TokenPrice:   in.TokenPrice,
			TokenStoryID: in.TokenStoryID,
			TotalSupply:  in.TotalSupply,
		})
	case tx.KindBuyToken:
		rc.Purchase, err = p.Buy(l, BuyParams{
			Buyer:     in.Buyer,
			TokenMint: in.Mint,
			SaleName:  in.SaleName,
			Amount:    in.AmountToBuy,
		})
	case tx.KindSetActive:
		rc.Sale, err = p.SetActive(l, in.Admin, in.Mint, in.SaleName, in.Active)
	case tx.KindMintReference:
		rc.Account, err = p.MintReference(l, in.Authority, in.To, in.Amount)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownInstruction, in.Kind)
	}
	return err
}

// FailureReason maps an error to a short label for metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return "not_found"
	case errors.Is(err, ErrSaleNotActive):
		return "inactive"
	case errors.Is(err, ErrInsufficientTokens), errors.Is(err, token.ErrInsufficientFunds):
		return "insufficient"
	case errors.Is(err, ErrMathOverflow), errors.Is(err, token.ErrBalanceOverflow):
		return "overflow"
	case errors.Is(err, ErrMintMismatch), errors.Is(err, token.ErrMintMismatch):
		return "mint_mismatch"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ledger.ErrUnauthorized), errors.Is(err, token.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return "duplicate"
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidSaleName):
		return "invalid"
	default:
		return "other"
	}
}
