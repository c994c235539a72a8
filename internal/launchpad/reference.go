package launchpad

import (
	"fmt"

	"github.com/nexwallet/launchpad/internal/ledger"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
)

// MintReference mints amount reference tokens into the associated
// account of to, creating the account if needed. authority must be the
// reference mint authority and must have signed. Returns the account.
func (p *Program) MintReference(l Ledger, authority, to types.Address, amount uint64) (types.Address, error) {
	if amount == 0 {
		return types.Address{}, ErrInvalidAmount
	}
	if !l.IsSigner(authority) {
		return types.Address{}, fmt.Errorf("%w: %s did not sign", ErrUnauthorized, authority)
	}
	acct, _, err := token.AssociatedAddress(to, p.refMint)
	if err != nil {
		return types.Address{}, err
	}
	if _, err := l.EnsureAccount(acct, p.refMint, to); err != nil {
		return types.Address{}, err
	}
	if err := l.MintTo(p.refMint, acct, ledger.Signer(authority), amount); err != nil {
		return types.Address{}, err
	}
	p.logger.Debug().Str("to", to.String()).Uint64("amount", amount).Msg("reference tokens minted")
	return acct, nil
}
