package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

// Derivation path constants. Keys live at m/44'/CoinType'/account'/0'.
// ed25519 only supports hardened children.
const (
	HardenedOffset uint32 = 0x80000000

	PurposeBIP44 = HardenedOffset + 44

	// CoinTypeLaunchpad is the coin type used in the derivation path.
	CoinTypeLaunchpad = HardenedOffset + 8888
)

var ErrNonHardened = errors.New("ed25519 derivation requires hardened indices")

var masterSecret = []byte("ed25519 seed")

// ExtendedKey is an ed25519 key with its chain code (SLIP-0010).
type ExtendedKey struct {
	key       [32]byte
	chainCode [32]byte
	depth     uint8
}

// NewMasterKey derives the master key from a BIP-39 seed.
func NewMasterKey(seed []byte) (*ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > SeedSize {
		return nil, fmt.Errorf("seed must be 16..%d bytes, got %d", SeedSize, len(seed))
	}
	mac := hmac.New(sha512.New, masterSecret)
	mac.Write(seed)
	return splitKey(mac.Sum(nil), 0), nil
}

// Child derives the hardened child at index. index must include
// HardenedOffset.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	if index < HardenedOffset {
		return nil, fmt.Errorf("%w: %d", ErrNonHardened, index)
	}
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0)
	data = append(data, k.key[:]...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	return splitKey(mac.Sum(nil), k.depth+1), nil
}

// DerivePath derives along a sequence of hardened indices.
func (k *ExtendedKey) DerivePath(indices ...uint32) (*ExtendedKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.Child(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/8888'/account'/0'.
func (k *ExtendedKey) DeriveAccount(account uint32) (*ExtendedKey, error) {
	if account >= HardenedOffset {
		return nil, fmt.Errorf("account index %d out of range", account)
	}
	return k.DerivePath(PurposeBIP44, CoinTypeLaunchpad, HardenedOffset+account, HardenedOffset)
}

// Signer returns the ed25519 private key.
func (k *ExtendedKey) Signer() (*crypto.PrivateKey, error) {
	return crypto.PrivateKeyFromSeed(k.key[:])
}

// Address returns the ledger address of the key's public half.
func (k *ExtendedKey) Address() (types.Address, error) {
	pk, err := k.Signer()
	if err != nil {
		return types.Address{}, err
	}
	return pk.Address(), nil
}

// Depth returns the derivation depth (0 for master).
func (k *ExtendedKey) Depth() uint8 {
	return k.depth
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte {
	out := make([]byte, len(k.chainCode))
	copy(out, k.chainCode[:])
	return out
}

// Zero overwrites the key material.
func (k *ExtendedKey) Zero() {
	zero(k.key[:])
	zero(k.chainCode[:])
}

// KeyFromMnemonic derives the signing key for account from a mnemonic.
func KeyFromMnemonic(mnemonic, passphrase string, account uint32) (*crypto.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer zero(seed)
	return keyFromSeed(seed, account)
}

func keyFromSeed(seed []byte, account uint32) (*crypto.PrivateKey, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	defer master.Zero()
	child, err := master.DeriveAccount(account)
	if err != nil {
		return nil, err
	}
	defer child.Zero()
	return child.Signer()
}

func splitKey(i []byte, depth uint8) *ExtendedKey {
	k := &ExtendedKey{depth: depth}
	copy(k.key[:], i[:32])
	copy(k.chainCode[:], i[32:])
	zero(i)
	return k
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
