package config

import (
	"net"
	"strconv"
)

// DefaultMainnet returns default node configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Storage: StorageConfig{
			Engine: StorageBadger,
		},
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8899,
			AllowedIPs: []string{"127.0.0.1", "::1"},
			Metrics:    true,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns default node configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.RPC.Port = 8999
	cfg.Log.Level = "debug"
	return cfg
}

// Default returns default config for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}

func defaultRPCPort(network NetworkType) string {
	return strconv.Itoa(Default(network).RPC.Port)
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
