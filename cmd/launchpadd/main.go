// Launchpad node daemon.
//
// Usage:
//
//	launchpadd [--testnet --rpc-port=...]   Run node
//	launchpadd --help                       Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/node"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		if flags.Version {
			fmt.Printf("launchpadd %s\n", config.Version)
		} else {
			config.PrintUsage(os.Stdout)
		}
		return
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}
