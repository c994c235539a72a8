// Package pda derives program-owned addresses from seed material.
//
// A derived address is the BLAKE3 hash of the seeds, a one-byte bump, the
// owning program and a fixed marker. Only hashes that do not decode as an
// Edwards25519 point are accepted, so no private key exists for them and
// the only way to act for the address is a SigningProof issued to the
// owning program.
package pda

import (
	"errors"
	"math"

	"filippo.io/edwards25519"
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

const (
	// MaxSeeds is the maximum number of seeds, bump included.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var marker = []byte("ProgramDerivedAddress")

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrOnCurve               = errors.New("derived address is on the ed25519 curve")
	ErrDerivationExhausted   = errors.New("no viable bump seed")
)

// CreateAddress computes the derived address for program and seeds. The
// caller supplies the bump as the final seed. ErrOnCurve is returned when
// the hash is a valid curve point.
func CreateAddress(program types.Address, seeds ...[]byte) (types.Address, error) {
	if len(seeds) > MaxSeeds {
		return types.Address{}, ErrTooManySeeds
	}
	parts := make([][]byte, 0, len(seeds)+2)
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return types.Address{}, ErrMaxSeedLengthExceeded
		}
		parts = append(parts, s)
	}
	parts = append(parts, program[:], marker)

	h := crypto.HashParts(parts...)
	if IsOnCurve(h[:]) {
		return types.Address{}, ErrOnCurve
	}
	return types.Address(h), nil
}

// FindAddress scans the bump from 255 down to 0 and returns the first
// off-curve address together with its bump.
func FindAddress(program types.Address, seeds ...[]byte) (types.Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for b := math.MaxUint8; b >= 0; b-- {
		withBump[len(seeds)] = []byte{uint8(b)}
		addr, err := CreateAddress(program, withBump...)
		if err == nil {
			return addr, uint8(b), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return types.Address{}, 0, err
		}
	}
	return types.Address{}, 0, ErrDerivationExhausted
}

// IsOnCurve reports whether b is a valid compressed Edwards25519 point.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
