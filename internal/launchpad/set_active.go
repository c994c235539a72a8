package launchpad

import (
	"fmt"

	"github.com/nexwallet/launchpad/pkg/types"
)

// SetActive opens or closes a sale. Only the sale admin may call it.
func (p *Program) SetActive(l Ledger, admin, mint types.Address, name string, active bool) (*SaleState, error) {
	if !l.IsSigner(admin) {
		return nil, fmt.Errorf("%w: admin %s did not sign", ErrUnauthorized, admin)
	}
	if err := validSaleName(name); err != nil {
		return nil, err
	}
	addr, _, err := p.resolver.Derive(stateSeeds(mint, name)...)
	if err != nil {
		return nil, err
	}
	s, err := p.load(l, addr)
	if err != nil {
		return nil, err
	}
	if s.Admin != admin {
		return nil, fmt.Errorf("%w: %s is not the sale admin", ErrUnauthorized, admin)
	}
	if s.IsActive == active {
		return s, nil
	}
	s.IsActive = active
	if err := p.store(l, addr, s); err != nil {
		return nil, err
	}
	p.logger.Info().Str("sale", name).Bool("active", active).Msg("sale status changed")
	return s, nil
}
