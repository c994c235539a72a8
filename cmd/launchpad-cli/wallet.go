package main

import (
	"flag"
	"fmt"

	"github.com/nexwallet/launchpad/internal/wallet"
	"github.com/nexwallet/launchpad/pkg/crypto"
)

const walletUsage = "Usage: launchpad-cli wallet <create|import|list|accounts|new-account> [flags]"

func cmdWallet(e *env, args []string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(e, args[1:])
	case "import":
		cmdWalletImport(e, args[1:])
	case "list":
		cmdWalletList(e)
	case "accounts":
		cmdWalletAccounts(e, args[1:])
	case "new-account":
		cmdWalletNewAccount(e, args[1:])
	default:
		fatal("Unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func openKeystore(e *env) *wallet.Keystore {
	ks, err := wallet.NewKeystore(e.ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

func cmdWalletCreate(e *env, args []string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	parseFlags(fs, args)

	if *name == "" {
		fatal("Usage: launchpad-cli wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	password := readNewPassword()
	addr, err := openKeystore(e).Import(*name, mnemonic, "", password, wallet.DefaultParams())
	if err != nil {
		fatal("create wallet: %v", err)
	}

	fmt.Printf("\nWallet created: %s\n", *name)
	fmt.Printf("Address: %s\n", addr)
}

func cmdWalletImport(e *env, args []string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic")
	passphrase := fs.String("passphrase", "", "Optional BIP-39 passphrase")
	parseFlags(fs, args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: launchpad-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	password := readNewPassword()
	addr, err := openKeystore(e).Import(*name, *mnemonic, *passphrase, password, wallet.DefaultParams())
	if err != nil {
		fatal("import wallet: %v", err)
	}

	fmt.Printf("Wallet imported: %s\n", *name)
	fmt.Printf("Address: %s\n", addr)
}

func cmdWalletList(e *env) {
	names, err := openKeystore(e).List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAccounts(e *env, args []string) {
	fs := flag.NewFlagSet("wallet accounts", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	parseFlags(fs, args)

	if *walletName == "" {
		fatal("Usage: launchpad-cli wallet accounts --wallet <name>")
	}

	accounts, err := openKeystore(e).ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return
	}
	for _, acct := range accounts {
		fmt.Printf("  [%d] %s  %s\n", acct.Index, acct.Address, acct.Name)
	}
}

func cmdWalletNewAccount(e *env, args []string) {
	fs := flag.NewFlagSet("wallet new-account", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	label := fs.String("label", "", "Account label")
	parseFlags(fs, args)

	if *walletName == "" {
		fatal("Usage: launchpad-cli wallet new-account --wallet <name> [--label <label>]")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	entry, err := openKeystore(e).NewAccount(*walletName, password, *label)
	if err != nil {
		fatal("new account: %v", err)
	}
	fmt.Printf("Account [%d] %s\n", entry.Index, entry.Address)
}

// unlock prompts for the wallet password and derives the account key.
func unlock(e *env, walletName string, index uint32) *crypto.PrivateKey {
	password, err := readPassword(fmt.Sprintf("Password for %s: ", walletName))
	if err != nil {
		fatal("read password: %v", err)
	}
	key, err := openKeystore(e).Signer(walletName, password, index)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	return key
}

// accountAddress reads an account address from the keystore metadata
// without a password.
func accountAddress(e *env, walletName string, index uint32) string {
	acct, err := openKeystore(e).Account(walletName, index)
	if err != nil {
		fatal("wallet account: %v", err)
	}
	return acct.Address.String()
}
