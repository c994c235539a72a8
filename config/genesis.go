package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/bits"
	"os"

	"github.com/nexwallet/launchpad/internal/wallet"
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/types"
)

// =============================================================================
// Protocol constants (shared by every node serving the same ledger)
// =============================================================================

// ProgramName names the launchpad program. Its ID is crypto.ProgramID(name).
const ProgramName = "launchpad"

// Reference token denomination. 1 NEX = 10^9 base units.
const (
	ReferenceSymbol   = "NEX"
	ReferenceDecimals = 9
	NEX               = 1_000_000_000
)

// MaxReferenceDecimals bounds the reference mint precision.
const MaxReferenceDecimals = 18

// MainnetReferenceAuthority is the ed25519 public key (hex) allowed to mint
// reference tokens on mainnet.
const MainnetReferenceAuthority = "7c1e5b0a9d3f4e62a8b1c7d05e9f3a6b2d4c8e1f0a7b3c5d9e2f6a1b4c8d0e3f"

// TestnetMnemonic is the well-known seed phrase for the testnet reference
// authority (account 0). DO NOT use on mainnet.
const TestnetMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

// Genesis holds the ledger identity and protocol constants.
type Genesis struct {
	LedgerID  string `json:"ledger_id"`
	Name      string `json:"name"`
	Timestamp uint64 `json:"timestamp"`

	Program   ProgramRules   `json:"program"`
	Reference ReferenceRules `json:"reference"`

	// Reference tokens minted to owners when the reference mint is created.
	Alloc map[types.Address]uint64 `json:"alloc,omitempty"`
}

// ProgramRules identifies the launchpad program.
type ProgramRules struct {
	Name string `json:"name"`
}

// ReferenceRules describes the payment token.
type ReferenceRules struct {
	Symbol    string        `json:"symbol"`
	Decimals  uint8         `json:"decimals"`
	Authority types.Address `json:"authority"`
}

// ProgramID returns the launchpad program ID.
func (g *Genesis) ProgramID() types.Address {
	return crypto.ProgramID(g.Program.Name)
}

// MainnetGenesis returns the mainnet genesis configuration.
func MainnetGenesis() *Genesis {
	return &Genesis{
		LedgerID:  "launchpad-mainnet-1",
		Name:      "Launchpad Mainnet",
		Timestamp: 1788220800, // 2026-09-01
		Program:   ProgramRules{Name: ProgramName},
		Reference: ReferenceRules{
			Symbol:    ReferenceSymbol,
			Decimals:  ReferenceDecimals,
			Authority: mustHexAddress(MainnetReferenceAuthority),
		},
	}
}

// TestnetGenesis returns the testnet genesis configuration. The reference
// authority is account 0 of TestnetMnemonic, which also receives a
// starting allocation.
func TestnetGenesis() *Genesis {
	g := MainnetGenesis()
	g.LedgerID = "launchpad-testnet-1"
	g.Name = "Launchpad Testnet"

	key, err := wallet.KeyFromMnemonic(TestnetMnemonic, "", 0)
	if err != nil {
		panic(fmt.Sprintf("config: testnet mnemonic: %v", err))
	}
	g.Reference.Authority = key.Address()
	g.Alloc = map[types.Address]uint64{
		key.Address(): 1_000_000 * NEX,
	}
	return g
}

// GenesisFor returns the genesis config for the given network.
func GenesisFor(network NetworkType) *Genesis {
	switch network {
	case Testnet:
		return TestnetGenesis()
	default:
		return MainnetGenesis()
	}
}

// ResolveGenesis returns the genesis named by cfg.GenesisFile, or the
// built-in genesis for cfg.Network.
func ResolveGenesis(cfg *Config) (*Genesis, error) {
	if cfg.GenesisFile != "" {
		return LoadGenesis(cfg.GenesisFile)
	}
	return GenesisFor(cfg.Network), nil
}

// LoadGenesis loads genesis configuration from a file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing genesis file: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return &g, nil
}

// Save writes the genesis configuration to a file.
func (g *Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding genesis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing genesis file: %w", err)
	}
	return nil
}

// Validate checks that the genesis configuration is usable.
func (g *Genesis) Validate() error {
	if g.LedgerID == "" {
		return fmt.Errorf("ledger_id is required")
	}
	if g.Program.Name == "" {
		return fmt.Errorf("program.name is required")
	}
	if g.Reference.Authority.IsZero() {
		return fmt.Errorf("reference.authority is required")
	}
	if g.Reference.Decimals > MaxReferenceDecimals {
		return fmt.Errorf("reference.decimals %d exceeds %d", g.Reference.Decimals, MaxReferenceDecimals)
	}

	var total uint64
	for addr, amount := range g.Alloc {
		if addr.IsZero() {
			return fmt.Errorf("alloc to zero address")
		}
		if amount == 0 {
			return fmt.Errorf("alloc to %s is zero", addr)
		}
		var carry uint64
		total, carry = bits.Add64(total, amount, 0)
		if carry != 0 {
			return fmt.Errorf("alloc total overflows uint64")
		}
	}
	return nil
}

// Hash returns a BLAKE3 hash of the genesis configuration. Nodes compare it
// to detect mismatched genesis files.
func (g *Genesis) Hash() (types.Hash, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Hash(data), nil
}

func mustHexAddress(s string) types.Address {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("config: bad address hex %q: %v", s, err))
	}
	a, err := types.AddressFromBytes(b)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return a
}
