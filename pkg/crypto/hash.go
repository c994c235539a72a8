// Package crypto provides cryptographic primitives for the launchpad ledger.
package crypto

import (
	"github.com/nexwallet/launchpad/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashParts hashes the concatenation of parts without building an
// intermediate buffer.
func HashParts(parts ...[]byte) types.Hash {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Discriminator returns the 8-byte type tag for a persisted account kind.
// Discriminator = BLAKE3("account:" || name)[:8].
func Discriminator(name string) [8]byte {
	h := Hash([]byte("account:" + name))
	var d [8]byte
	copy(d[:], h[:8])
	return d
}

// ProgramID returns the address of a named program: BLAKE3("program:" || name).
func ProgramID(name string) types.Address {
	return types.Address(Hash([]byte("program:" + name)))
}
