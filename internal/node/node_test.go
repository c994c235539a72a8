package node

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/rpcclient"
	"github.com/nexwallet/launchpad/internal/wallet"
	"github.com/nexwallet/launchpad/pkg/tx"
	"github.com/nexwallet/launchpad/pkg/types"
)

func testConfig(t *testing.T, engine string) *config.Config {
	t.Helper()
	cfg := config.Default(config.Testnet)
	cfg.DataDir = t.TempDir()
	cfg.Storage.Engine = engine
	cfg.RPC.Enabled = true
	cfg.RPC.Addr = "127.0.0.1"
	cfg.RPC.Port = 0
	cfg.Log.Level = "error"
	if err := config.EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs: %v", err)
	}
	return cfg
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		input, want string
	}{
		{"~/foo/bar", filepath.Join(home, "foo/bar")},
		{"~/.launchpad/genesis.json", filepath.Join(home, ".launchpad/genesis.json")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSortedOwners(t *testing.T) {
	alloc := map[types.Address]uint64{
		{3}: 1,
		{1}: 1,
		{2}: 1,
	}
	got := sortedOwners(alloc)
	if len(got) != 3 || got[0] != (types.Address{1}) || got[2] != (types.Address{3}) {
		t.Errorf("sortedOwners = %v", got)
	}
}

func TestNode_TestnetAlloc(t *testing.T) {
	n, err := New(testConfig(t, config.StorageMemory))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer n.Stop()

	key, err := wallet.KeyFromMnemonic(config.TestnetMnemonic, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	bal, err := n.ReferenceBalance(key.Address())
	if err != nil {
		t.Fatalf("ReferenceBalance() error: %v", err)
	}
	if bal != 1_000_000*config.NEX {
		t.Errorf("authority balance = %d, want %d", bal, uint64(1_000_000*config.NEX))
	}
	if n.Genesis().LedgerID != config.TestnetGenesis().LedgerID {
		t.Errorf("ledger id = %q", n.Genesis().LedgerID)
	}
	if n.Program().ID() != n.Genesis().ProgramID() {
		t.Error("program bound to the wrong id")
	}
}

func TestNode_AllocAppliedOnce(t *testing.T) {
	cfg := testConfig(t, config.StorageBadger)
	key, err := wallet.KeyFromMnemonic(config.TestnetMnemonic, "", 0)
	if err != nil {
		t.Fatal(err)
	}

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	n.Stop()

	n, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer n.Stop()

	bal, err := n.ReferenceBalance(key.Address())
	if err != nil {
		t.Fatal(err)
	}
	if bal != 1_000_000*config.NEX {
		t.Errorf("balance after restart = %d, want a single allocation", bal)
	}
}

func TestNode_StartServesRPC(t *testing.T) {
	n, err := New(testConfig(t, config.StorageMemory))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer n.Stop()
	if err := n.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	ctx := context.Background()
	c := rpcclient.New("http://" + n.RPCAddr())
	info, err := c.Info(ctx)
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if info.ReferenceMint != n.Program().ReferenceMint() {
		t.Errorf("reference mint = %s", info.ReferenceMint)
	}

	// The testnet authority can open a sale and buy from it.
	key, err := wallet.KeyFromMnemonic(config.TestnetMnemonic, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	init := tx.NewBuilder(tx.InitLaunchpad(key.Address(), key.Address(), "node", 5, 0, 100)).Sign(key).Build()
	rc, err := c.Submit(ctx, init)
	if err != nil {
		t.Fatalf("Submit(init) error: %v", err)
	}
	buy := tx.NewBuilder(tx.BuyToken(key.Address(), rc.Sale.TokenMint, "node", 10)).Sign(key).Build()
	rc, err = c.Submit(ctx, buy)
	if err != nil {
		t.Fatalf("Submit(buy) error: %v", err)
	}
	if rc.Purchase.Cost != 50 {
		t.Errorf("cost = %d, want 50", rc.Purchase.Cost)
	}
	bal, err := n.ReferenceBalance(key.Address())
	if err != nil {
		t.Fatal(err)
	}
	if bal != 1_000_000*config.NEX-50 {
		t.Errorf("balance = %d", bal)
	}
}

func TestNode_RPCDisabled(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	cfg.RPC.Enabled = false
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer n.Stop()
	if err := n.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if n.RPCAddr() != "" {
		t.Errorf("RPCAddr() = %q, want empty", n.RPCAddr())
	}
}

func TestNode_GenesisFile(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	cfg.RPC.Enabled = false

	g := config.MainnetGenesis()
	g.LedgerID = "launchpad-devnet"
	g.Alloc = map[types.Address]uint64{{9}: 42}
	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := g.Save(path); err != nil {
		t.Fatal(err)
	}
	cfg.GenesisFile = path

	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer n.Stop()
	if n.Genesis().LedgerID != "launchpad-devnet" {
		t.Errorf("ledger id = %q", n.Genesis().LedgerID)
	}
	bal, err := n.ReferenceBalance(types.Address{9})
	if err != nil || bal != 42 {
		t.Errorf("alloc balance = %d, %v", bal, err)
	}
}

func TestNode_BadStorageEngine(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	cfg.Storage.Engine = "sqlite"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown storage engine")
	}
}
