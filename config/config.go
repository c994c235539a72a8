// Package config handles launchpad node configuration.
//
// Configuration is split into two categories:
//   - Protocol constants: defined in genesis, identical on every node
//     serving the same ledger (program ID, reference mint authority)
//   - Node settings: runtime configuration that can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Storage engines.
const (
	StorageBadger = "badger"
	StorageMemory = "memory"
)

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Optional genesis override (JSON). Empty uses the built-in genesis.
	GenesisFile string `conf:"genesis"`

	// Ledger storage
	Storage StorageConfig

	// RPC server
	RPC RPCConfig

	// Keystore used by the CLI
	Keystore KeystoreConfig

	// Logging
	Log LogConfig
}

// StorageConfig selects the ledger database.
type StorageConfig struct {
	Engine string `conf:"storage.engine"` // badger or memory
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // "*" allows all
	Metrics     bool     `conf:"rpc.metrics"`
}

// KeystoreConfig holds keystore settings.
type KeystoreConfig struct {
	Dir string `conf:"keystore.dir"` // empty = <datadir>/<network>/keystore
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.launchpad
//	macOS:   ~/Library/Application Support/Launchpad
//	Windows: %APPDATA%\Launchpad
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".launchpad"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Launchpad")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Launchpad")
		}
		return filepath.Join(home, "AppData", "Roaming", "Launchpad")
	default:
		return filepath.Join(home, ".launchpad")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir returns the ledger database directory.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.NetworkDataDir(), "ledger")
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	if c.Keystore.Dir != "" {
		return c.Keystore.Dir
	}
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "launchpad.conf")
}

// RPCURL returns the http endpoint clients use to reach the node.
func (c *Config) RPCURL() string {
	addr := c.RPC.Addr
	if addr == "" || addr == "0.0.0.0" {
		addr = "127.0.0.1"
	}
	return "http://" + joinHostPort(addr, c.RPC.Port)
}
