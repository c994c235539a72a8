package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/pkg/crypto"
	"github.com/nexwallet/launchpad/pkg/tx"
)

// submit signs ins with keys, sends it and prints the receipt.
func submit(e *env, ins tx.Instruction, keys ...*crypto.PrivateKey) *launchpad.Receipt {
	signers := make([]crypto.Signer, len(keys))
	for i, k := range keys {
		signers[i] = k
	}
	t := tx.NewBuilder(ins).SetNonce(uint64(time.Now().UnixNano())).Sign(signers...).Build()
	for _, k := range keys {
		k.Zero()
	}

	c, cancel := ctx()
	defer cancel()
	rc, err := e.client.Submit(c, t)
	if err != nil {
		fatal("submit: %v", err)
	}
	fmt.Printf("Transaction: %s (%s)\n", rc.TxID, rc.Kind)
	return rc
}

func cmdInit(e *env, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Creator wallet")
	account := fs.Uint("account", 0, "Creator account index")
	adminWallet := fs.String("admin-wallet", "", "Admin wallet (default: creator wallet)")
	adminAccount := fs.Int("admin-account", -1, "Admin account index (default: creator account)")
	name := fs.String("name", "", "Sale name")
	price := fs.Uint64("price", 0, "NEX base units per sale-token base unit")
	story := fs.Uint64("story", 0, "Token story ID")
	supply := fs.String("supply", "", "Total supply in whole tokens (e.g. 1000000)")
	parseFlags(fs, args)

	if *walletName == "" || *name == "" || *price == 0 || *supply == "" {
		fatal("Usage: launchpad-cli init --wallet <w> --name <sale> --price <units> --supply <amt> [--story <id>] [--admin-wallet <w>] [--admin-account <i>]")
	}
	total, err := parseAmount(*supply, launchpad.SaleDecimals)
	if err != nil {
		fatal("invalid supply: %v", err)
	}

	creator := unlock(e, *walletName, uint32(*account))
	admin := creator
	switch {
	case *adminWallet != "" && *adminWallet != *walletName:
		idx := uint32(*account)
		if *adminAccount >= 0 {
			idx = uint32(*adminAccount)
		}
		admin = unlock(e, *adminWallet, idx)
	case *adminAccount >= 0 && uint32(*adminAccount) != uint32(*account):
		admin = unlock(e, *walletName, uint32(*adminAccount))
	}

	ins := tx.InitLaunchpad(creator.Address(), admin.Address(), *name, *price, *story, total)
	keys := []*crypto.PrivateKey{creator}
	if admin != creator {
		keys = append(keys, admin)
	}
	rc := submit(e, ins, keys...)

	if !rc.Created {
		fmt.Println("Sale already existed; stored parameters kept.")
	}
	printSale(rc.Sale)
}

func cmdBuy(e *env, args []string) {
	fs := flag.NewFlagSet("buy", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Buyer wallet")
	account := fs.Uint("account", 0, "Buyer account index")
	mint := fs.String("mint", "", "Sale token mint")
	name := fs.String("name", "", "Sale name")
	amount := fs.String("amount", "", "Sale tokens to buy (decimal)")
	parseFlags(fs, args)

	if *walletName == "" || *mint == "" || *name == "" || *amount == "" {
		fatal("Usage: launchpad-cli buy --wallet <w> --mint <addr> --name <sale> --amount <amt>")
	}
	units, err := parseAmount(*amount, launchpad.SaleDecimals)
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	mintAddr := mustAddress("mint", *mint)

	buyer := unlock(e, *walletName, uint32(*account))
	rc := submit(e, tx.BuyToken(buyer.Address(), mintAddr, *name, units), buyer)

	p := rc.Purchase
	fmt.Printf("Bought:       %s tokens\n", formatAmount(p.Amount, launchpad.SaleDecimals))
	fmt.Printf("Paid:         %s %s\n", formatAmount(p.Cost, config.ReferenceDecimals), config.ReferenceSymbol)
	fmt.Printf("Total raised: %s %s\n", formatAmount(p.TotalRaised, config.ReferenceDecimals), config.ReferenceSymbol)
	fmt.Printf("Account:      %s\n", p.BuyerAccount)
}

func cmdSetActive(e *env, args []string) {
	fs := flag.NewFlagSet("set-active", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Admin wallet")
	account := fs.Uint("account", 0, "Admin account index")
	mint := fs.String("mint", "", "Sale token mint")
	name := fs.String("name", "", "Sale name")
	active := fs.Bool("active", true, "Open (true) or close (false) the sale")
	parseFlags(fs, args)

	if *walletName == "" || *mint == "" || *name == "" {
		fatal("Usage: launchpad-cli set-active --wallet <w> --mint <addr> --name <sale> --active=<bool>")
	}
	mintAddr := mustAddress("mint", *mint)

	admin := unlock(e, *walletName, uint32(*account))
	rc := submit(e, tx.SetActive(admin.Address(), mintAddr, *name, *active), admin)
	printSale(rc.Sale)
}

func cmdMintReference(e *env, args []string) {
	fs := flag.NewFlagSet("mint-reference", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Reference authority wallet")
	account := fs.Uint("account", 0, "Authority account index")
	to := fs.String("to", "", "Recipient owner address")
	amount := fs.String("amount", "", "NEX to mint (decimal)")
	parseFlags(fs, args)

	if *walletName == "" || *to == "" || *amount == "" {
		fatal("Usage: launchpad-cli mint-reference --wallet <w> --to <addr> --amount <amt>")
	}
	units, err := parseAmount(*amount, config.ReferenceDecimals)
	if err != nil {
		fatal("invalid amount: %v", err)
	}
	toAddr := mustAddress("recipient", *to)

	authority := unlock(e, *walletName, uint32(*account))
	rc := submit(e, tx.MintReference(authority.Address(), toAddr, units), authority)
	fmt.Printf("Minted %s %s into %s\n", formatAmount(units, config.ReferenceDecimals), config.ReferenceSymbol, rc.Account)
}

func printSale(s *launchpad.SaleState) {
	if s == nil {
		return
	}
	fmt.Printf("Sale:         %s\n", s.SaleName)
	fmt.Printf("Mint:         %s\n", s.TokenMint)
	fmt.Printf("Creator:      %s\n", s.Creator)
	fmt.Printf("Admin:        %s\n", s.Admin)
	fmt.Printf("Price:        %d\n", s.TokenPrice)
	fmt.Printf("Total raised: %s %s\n", formatAmount(s.TotalRaised, config.ReferenceDecimals), config.ReferenceSymbol)
	fmt.Printf("Active:       %v\n", s.IsActive)
	fmt.Printf("Story ID:     %d\n", s.TokenStoryID)
}
