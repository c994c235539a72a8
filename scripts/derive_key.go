// derive_key.go prints the public key and address of a wallet account.
// The hex public key is the form genesis files and config constants use
// for the reference authority.
//
// Usage: go run scripts/derive_key.go <mnemonic-file> [account]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nexwallet/launchpad/internal/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <mnemonic-file> [account]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var account uint64
	if len(os.Args) > 2 {
		account, err = strconv.ParseUint(os.Args[2], 10, 31)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid account:", err)
			os.Exit(1)
		}
	}

	mnemonic := strings.Join(strings.Fields(string(data)), " ")
	key, err := wallet.KeyFromMnemonic(mnemonic, "", uint32(account))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer key.Zero()

	fmt.Printf("pubkey=%s\n", hex.EncodeToString(key.PublicKey()))
	fmt.Printf("address=%s\n", key.Address().String())
}
