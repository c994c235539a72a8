// launchpad-cli is a command-line client for a launchpadd node.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/rpcclient"
	"github.com/nexwallet/launchpad/pkg/types"
	"golang.org/x/term"
)

// env carries the global settings every command needs.
type env struct {
	client  *rpcclient.Client
	ksDir   string
	network config.NetworkType
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	rpcURL := ""
	dataDir := config.DefaultDataDir()
	network := config.Mainnet

	// Scan for --rpc, --datadir, --network and --testnet before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = config.NetworkType(args[1])
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = config.NetworkType(args[0][len("--network="):])
			args = args[1:]
		case args[0] == "--testnet":
			network = config.Testnet
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	if network != config.Mainnet && network != config.Testnet {
		fatal("unknown network %q", network)
	}

	// The node's conf file supplies the endpoint and keystore location.
	cfg, err := config.LoadFromFile(dataDir, network)
	if err != nil {
		cfg = config.Default(network)
		cfg.DataDir = dataDir
	}
	if rpcURL == "" {
		rpcURL = cfg.RPCURL()
	}

	e := &env{
		client:  rpcclient.New(rpcURL),
		ksDir:   cfg.KeystoreDir(),
		network: network,
	}
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "info":
		cmdInfo(e)
	case "wallet":
		cmdWallet(e, cmdArgs)
	case "addresses":
		cmdAddresses(e, cmdArgs)
	case "init":
		cmdInit(e, cmdArgs)
	case "buy":
		cmdBuy(e, cmdArgs)
	case "set-active":
		cmdSetActive(e, cmdArgs)
	case "mint-reference":
		cmdMintReference(e, cmdArgs)
	case "sale":
		cmdSale(e, cmdArgs)
	case "sales":
		cmdSales(e)
	case "balance":
		cmdBalance(e, cmdArgs)
	case "accounts":
		cmdAccounts(e, cmdArgs)
	case "tx":
		cmdTx(e, cmdArgs)
	case "version", "--version":
		fmt.Printf("launchpad-cli %s\n", config.Version)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: launchpad-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: from <datadir>/launchpad.conf)
  --datadir <path>    Data directory (default: ~/.launchpad)
  --network <net>     mainnet (default) or testnet
  --testnet           Shorthand for --network=testnet

Ledger:
  info                            Show ledger and program information
  tx <hash>                       Show whether a transaction was processed
  balance <owner> [--mint <addr>] Show an owner's balance (default: NEX)
  accounts <owner>                List an owner's token accounts

Sales:
  addresses --name <sale> (--admin <addr> | --wallet <w> [--account <i>])
                                  Show the addresses a sale would use
  init --wallet <w> --name <sale> --price <units> --supply <amt> [opts]
                                  Create a sale and mint its supply
  buy --wallet <w> --mint <addr> --name <sale> --amount <amt>
                                  Buy sale tokens with NEX
  set-active --wallet <w> --mint <addr> --name <sale> --active=<bool>
                                  Open or close a sale (admin only)
  mint-reference --wallet <w> --to <addr> --amount <amt>
                                  Mint NEX (reference authority only)
  sale (--mint <addr> --name <sale> | --address <addr>)
                                  Show one sale
  sales                           List every sale

Wallet:
  wallet create --name <n>        Create a new wallet
  wallet import --name <n> --mnemonic "..."
                                  Import wallet from mnemonic
  wallet list                     List wallets
  wallet accounts --wallet <w>    List wallet accounts
  wallet new-account --wallet <w> [--label <l>]
                                  Derive the next account
`)
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func readNewPassword() []byte {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}
	return password
}

// ── Parsing helpers ─────────────────────────────────────────────────────

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
}

func mustAddress(label, s string) types.Address {
	addr, err := types.ParseAddress(s)
	if err != nil {
		fatal("invalid %s %q: %v", label, s, err)
	}
	return addr
}

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
