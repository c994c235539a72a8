package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/nexwallet/launchpad/internal/log"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is required")
	}
	switch cfg.Storage.Engine {
	case StorageBadger, StorageMemory:
	default:
		return fmt.Errorf("storage.engine must be %q or %q", StorageBadger, StorageMemory)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	for i, ip := range cfg.RPC.AllowedIPs {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) == nil {
			if _, _, err := net.ParseCIDR(ip); err != nil {
				return fmt.Errorf("rpc.allowed[%d] %q is not an IP or CIDR", i, ip)
			}
		}
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q must be one of trace, debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}
