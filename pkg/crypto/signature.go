package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/nexwallet/launchpad/pkg/types"
)

// SignatureSize is the length of an ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// Signer signs messages with a private key.
type Signer interface {
	// Sign produces an ed25519 signature over msg.
	Sign(msg []byte) []byte
	// Address returns the signer's public key as a ledger address.
	Address() types.Address
}

// PrivateKey wraps an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a new random ed25519 private key.
func GenerateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed creates a PrivateKey from a 32-byte seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign produces an ed25519 signature over msg.
func (pk *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(pk.key, msg)
}

// PublicKey returns the 32-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	pub := pk.key.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// Address returns the public key as a ledger address.
func (pk *PrivateKey) Address() types.Address {
	var a types.Address
	copy(a[:], pk.key.Public().(ed25519.PublicKey))
	return a
}

// Seed returns the 32-byte seed the key was derived from.
func (pk *PrivateKey) Seed() []byte {
	return pk.key.Seed()
}

// Zero overwrites the private key memory.
func (pk *PrivateKey) Zero() {
	for i := range pk.key {
		pk.key[i] = 0
	}
}

// VerifySignature checks an ed25519 signature over msg against the public
// key encoded in addr. Returns false on any malformed input.
func VerifySignature(addr types.Address, msg, signature []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(addr[:]), msg, signature)
}
