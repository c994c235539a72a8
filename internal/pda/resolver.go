package pda

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/pkg/types"
)

var (
	ErrProofSpent   = errors.New("signing proof already consumed")
	ErrWrongProgram = errors.New("signing proof issued to another program")
	ErrProofInvalid = errors.New("signing proof does not derive its address")
)

// Resolver derives addresses owned by one program.
type Resolver struct {
	program types.Address
}

// NewResolver returns a resolver for program.
func NewResolver(program types.Address) *Resolver {
	return &Resolver{program: program}
}

// Program returns the owning program ID.
func (r *Resolver) Program() types.Address {
	return r.program
}

// Derive returns the canonical address and bump for seeds.
func (r *Resolver) Derive(seeds ...[]byte) (types.Address, uint8, error) {
	return FindAddress(r.program, seeds...)
}

// Address re-creates the address for seeds with a known bump.
func (r *Resolver) Address(bump uint8, seeds ...[]byte) (types.Address, error) {
	return CreateAddress(r.program, withBump(seeds, bump)...)
}

// Authorize returns a single-use proof that the program may act for the
// address derived from seeds and bump.
func (r *Resolver) Authorize(bump uint8, seeds ...[]byte) (*SigningProof, error) {
	addr, err := r.Address(bump, seeds...)
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	cp := make([][]byte, len(seeds))
	for i, s := range seeds {
		cp[i] = bytes.Clone(s)
	}
	return &SigningProof{
		program: r.program,
		address: addr,
		seeds:   cp,
		bump:    bump,
	}, nil
}

// SigningProof is the capability to debit an account owned by a derived
// address. It carries the seeds so the verifier can re-derive the address.
type SigningProof struct {
	program types.Address
	address types.Address
	seeds   [][]byte
	bump    uint8
	spent   bool
}

// Key returns the derived address the proof speaks for.
func (p *SigningProof) Key() types.Address {
	return p.address
}

// Program returns the program that issued the proof.
func (p *SigningProof) Program() types.Address {
	return p.program
}

// Bump returns the bump used to derive the address.
func (p *SigningProof) Bump() uint8 {
	return p.bump
}

// Verify checks that the proof belongs to program and that its seeds
// still derive the claimed address.
func (p *SigningProof) Verify(program types.Address) error {
	if p.spent {
		return ErrProofSpent
	}
	if p.program != program {
		return ErrWrongProgram
	}
	addr, err := CreateAddress(program, withBump(p.seeds, p.bump)...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProofInvalid, err)
	}
	if addr != p.address {
		return ErrProofInvalid
	}
	return nil
}

// Consume marks the proof as used. A second call returns ErrProofSpent.
func (p *SigningProof) Consume() error {
	if p.spent {
		return ErrProofSpent
	}
	p.spent = true
	return nil
}

func withBump(seeds [][]byte, bump uint8) [][]byte {
	out := make([][]byte, len(seeds)+1)
	copy(out, seeds)
	out[len(seeds)] = []byte{bump}
	return out
}
