package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/pkg/types"
)

func cmdInfo(e *env) {
	c, cancel := ctx()
	defer cancel()
	info, err := e.client.Info(c)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Ledger:         %s (%s)\n", info.LedgerID, info.Name)
	fmt.Printf("Genesis:        %s\n", info.GenesisHash)
	fmt.Printf("Program:        %s\n", info.ProgramID)
	fmt.Printf("Reference mint: %s (%s, %d decimals)\n", info.ReferenceMint, info.ReferenceSymbol, info.ReferenceDecimals)
	fmt.Printf("Transactions:   %d\n", info.TxCount)
}

func cmdTx(e *env, args []string) {
	if len(args) < 1 {
		fatal("Usage: launchpad-cli tx <hash>")
	}
	id, err := types.HexToHash(args[0])
	if err != nil {
		fatal("invalid hash: %v", err)
	}
	c, cancel := ctx()
	defer cancel()
	st, err := e.client.TxStatus(c, id)
	if err != nil {
		fatal("%v", err)
	}
	if st.Processed {
		fmt.Printf("%s: processed\n", st.Hash)
	} else {
		fmt.Printf("%s: not found\n", st.Hash)
	}
}

func cmdAddresses(e *env, args []string) {
	fs := flag.NewFlagSet("addresses", flag.ExitOnError)
	admin := fs.String("admin", "", "Admin address")
	walletName := fs.String("wallet", "", "Take the admin address from this wallet")
	account := fs.Uint("account", 0, "Wallet account index")
	name := fs.String("name", "", "Sale name")
	parseFlags(fs, args)

	if *name == "" || (*admin == "" && *walletName == "") {
		fatal("Usage: launchpad-cli addresses --name <sale> (--admin <addr> | --wallet <w> [--account <i>])")
	}
	adminStr := *admin
	if adminStr == "" {
		adminStr = accountAddress(e, *walletName, uint32(*account))
	}

	c, cancel := ctx()
	defer cancel()
	a, err := e.client.Addresses(c, mustAddress("admin", adminStr), *name)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Sale mint:      %s (bump %d)\n", a.Mint, a.MintBump)
	fmt.Printf("Sale state:     %s (bump %d)\n", a.State, a.StateBump)
	fmt.Printf("Sale vault:     %s (bump %d)\n", a.SaleVault, a.SaleVaultBump)
	fmt.Printf("Payment vault:  %s (bump %d)\n", a.PaymentVault, a.PaymentVaultBump)
	fmt.Printf("Reference mint: %s\n", a.ReferenceMint)
}

func cmdSale(e *env, args []string) {
	fs := flag.NewFlagSet("sale", flag.ExitOnError)
	mint := fs.String("mint", "", "Sale token mint")
	name := fs.String("name", "", "Sale name")
	address := fs.String("address", "", "Sale record address")
	parseFlags(fs, args)

	c, cancel := ctx()
	defer cancel()

	var (
		entry *launchpad.SaleEntry
		err   error
	)
	switch {
	case *address != "":
		entry, err = e.client.SaleAt(c, mustAddress("address", *address))
	case *mint != "" && *name != "":
		entry, err = e.client.Sale(c, mustAddress("mint", *mint), *name)
	default:
		fatal("Usage: launchpad-cli sale (--mint <addr> --name <sale> | --address <addr>)")
	}
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Address:      %s\n", entry.Address)
	printSale(&entry.SaleState)
}

func cmdSales(e *env) {
	c, cancel := ctx()
	defer cancel()
	sales, err := e.client.Sales(c)
	if err != nil {
		fatal("%v", err)
	}
	if len(sales) == 0 {
		fmt.Println("No sales.")
		return
	}

	fmt.Printf("%-32s  %-44s  %10s  %20s  %s\n", "NAME", "MINT", "PRICE", "RAISED", "ACTIVE")
	for _, s := range sales {
		fmt.Printf("%-32s  %-44s  %10d  %20s  %v\n",
			s.SaleName, s.TokenMint, s.TokenPrice,
			formatAmount(s.TotalRaised, config.ReferenceDecimals), s.IsActive)
	}
}

func cmdBalance(e *env, args []string) {
	if len(args) < 1 {
		fatal("Usage: launchpad-cli balance <owner> [--mint <addr>]")
	}
	owner := mustAddress("owner", args[0])

	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	mint := fs.String("mint", "", "Token mint (default: reference token)")
	parseFlags(fs, args[1:])

	var mintAddr types.Address
	if *mint != "" {
		mintAddr = mustAddress("mint", *mint)
	}

	c, cancel := ctx()
	defer cancel()
	res, err := e.client.Balance(c, owner, mintAddr)
	if err != nil {
		fatal("%v", err)
	}

	decimals := uint8(config.ReferenceDecimals)
	unit := config.ReferenceSymbol
	if !mintAddr.IsZero() {
		m, err := e.client.Mint(c, mintAddr)
		if err != nil {
			fatal("%v", err)
		}
		decimals, unit = m.Decimals, "tokens"
	}
	fmt.Printf("Owner:   %s\n", res.Owner)
	fmt.Printf("Account: %s\n", res.Account)
	fmt.Printf("Balance: %s %s\n", formatAmount(res.Balance, decimals), unit)
}

func cmdAccounts(e *env, args []string) {
	if len(args) < 1 {
		fatal("Usage: launchpad-cli accounts <owner>")
	}
	owner := mustAddress("owner", args[0])

	c, cancel := ctx()
	defer cancel()
	accts, err := e.client.AccountsByOwner(c, owner)
	if err != nil {
		fatal("%v", err)
	}
	if len(accts) == 0 {
		fmt.Println("No token accounts.")
		return
	}
	for _, a := range accts {
		fmt.Printf("  %s  mint=%s  amount=%s\n", a.Address, a.Mint, strconv.FormatUint(a.Amount, 10))
	}
}
