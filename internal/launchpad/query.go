package launchpad

import (
	"bytes"
	"sort"

	"github.com/nexwallet/launchpad/pkg/types"
)

// SaleEntry pairs a record address with its decoded state.
type SaleEntry struct {
	Address types.Address `json:"address"`
	SaleState
}

// Sale loads the sale for mint and name.
func (p *Program) Sale(l Ledger, mint types.Address, name string) (*SaleState, error) {
	if err := validSaleName(name); err != nil {
		return nil, err
	}
	addr, _, err := p.resolver.Derive(stateSeeds(mint, name)...)
	if err != nil {
		return nil, err
	}
	return p.load(l, addr)
}

// SaleAt loads the sale stored at a record address.
func (p *Program) SaleAt(l Ledger, addr types.Address) (*SaleState, error) {
	return p.load(l, addr)
}

// Sales returns every sale, ordered by record address.
func (p *Program) Sales(l Ledger) ([]SaleEntry, error) {
	entries := []SaleEntry{}
	err := l.ForEachRecord(p.id, func(addr types.Address, data []byte) error {
		var s SaleState
		if err := s.UnmarshalBinary(data); err != nil {
			p.logger.Warn().Str("record", addr.String()).Err(err).Msg("skipping undecodable record")
			return nil
		}
		entries = append(entries, SaleEntry{Address: addr, SaleState: s})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Address[:], entries[j].Address[:]) < 0
	})
	return entries, nil
}
