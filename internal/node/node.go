// Package node wires storage, the ledger, the launchpad program and the
// RPC server into a runnable node that any binary can embed.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nexwallet/launchpad/config"
	"github.com/nexwallet/launchpad/internal/launchpad"
	"github.com/nexwallet/launchpad/internal/ledger"
	klog "github.com/nexwallet/launchpad/internal/log"
	"github.com/nexwallet/launchpad/internal/metrics"
	"github.com/nexwallet/launchpad/internal/rpc"
	"github.com/nexwallet/launchpad/internal/storage"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized launchpad node.
type Node struct {
	cfg     *config.Config
	genesis *config.Genesis
	logger  zerolog.Logger

	// Core
	db      storage.DB
	ledger  *ledger.Ledger
	program *launchpad.Program
	metrics *metrics.Metrics

	// RPC
	rpcServer *rpc.Server
}

// New creates and initializes a new Node: logger, genesis, storage,
// ledger, program, reference mint and RPC server. It does not start
// listening. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.GenesisFile = expandHome(cfg.GenesisFile)

	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := expandHome(cfg.Log.File)
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "launchpad.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.Node

	// ── 2. Genesis ──────────────────────────────────────────────────
	genesis, err := config.ResolveGenesis(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve genesis: %w", err)
	}
	if err := genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	genesisHash, err := genesis.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash genesis: %w", err)
	}

	logger.Info().
		Str("ledger_id", genesis.LedgerID).
		Str("network", string(cfg.Network)).
		Str("genesis", genesisHash.String()[:16]+"...").
		Msg("Starting launchpad node")

	// ── 3. Open storage ─────────────────────────────────────────────
	db, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("engine", cfg.Storage.Engine).Str("path", cfg.LedgerDir()).Msg("Database opened")

	// ── 4. Ledger + program ─────────────────────────────────────────
	var m *metrics.Metrics
	if cfg.RPC.Metrics {
		m = metrics.New(metrics.DefaultNamespace)
	}
	l := ledger.New(db)
	program, err := launchpad.New(genesis.ProgramID(), m)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create program: %w", err)
	}

	// ── 5. Reference mint ───────────────────────────────────────────
	refMint, err := l.Bootstrap(program.ReferenceMint(), genesis.Reference.Authority, genesis.Reference.Decimals)
	if err != nil {
		db.Close()
		return nil, err
	}
	if refMint.Supply == 0 && len(genesis.Alloc) > 0 {
		if err := applyAlloc(l, program, genesis); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply genesis alloc: %w", err)
		}
		logger.Info().Int("accounts", len(genesis.Alloc)).Msg("Genesis allocation minted")
	}

	logger.Info().
		Str("program", program.ID().String()).
		Str("reference_mint", program.ReferenceMint().String()).
		Str("authority", genesis.Reference.Authority.String()).
		Msg("Launchpad program ready")

	// ── 6. RPC ──────────────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		addr := net.JoinHostPort(cfg.RPC.Addr, strconv.Itoa(cfg.RPC.Port))
		rpcServer = rpc.New(addr, l, program, genesis, m, cfg.RPC)
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	return &Node{
		cfg:       cfg,
		genesis:   genesis,
		logger:    logger,
		db:        db,
		ledger:    l,
		program:   program,
		metrics:   m,
		rpcServer: rpcServer,
	}, nil
}

// openStorage opens the ledger database selected by cfg.Storage.Engine.
func openStorage(cfg *config.Config) (storage.DB, error) {
	switch cfg.Storage.Engine {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageBadger, "":
		db, err := storage.NewBadger(cfg.LedgerDir())
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", cfg.LedgerDir(), err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.Engine)
	}
}

// applyAlloc mints the genesis allocation as the reference authority.
// It runs as one ledger call so a failure leaves the supply at zero.
func applyAlloc(l *ledger.Ledger, p *launchpad.Program, g *config.Genesis) error {
	authority := g.Reference.Authority
	return l.Execute(p.ID(), types.Hash{}, []types.Address{authority}, func(txn *ledger.Txn) error {
		for _, owner := range sortedOwners(g.Alloc) {
			if _, err := p.MintReference(txn, authority, owner, g.Alloc[owner]); err != nil {
				return fmt.Errorf("alloc %s: %w", owner, err)
			}
		}
		return nil
	})
}

// Start begins serving RPC.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start RPC: %w", err)
		}
	}

	count, err := n.ledger.TxCount()
	if err != nil {
		return fmt.Errorf("read tx count: %w", err)
	}
	n.logger.Info().
		Uint64("tx_count", count).
		Str("rpc", n.RPCAddr()).
		Msg("Node started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(context.Background()); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			n.logger.Warn().Err(err).Msg("RPC shutdown")
		}
	}
	if n.db != nil {
		if err := n.db.Close(); err != nil {
			n.logger.Warn().Err(err).Msg("Closing database")
		}
	}
	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Genesis returns the genesis the node runs with.
func (n *Node) Genesis() *config.Genesis {
	return n.genesis
}

// Ledger returns the node's ledger.
func (n *Node) Ledger() *ledger.Ledger {
	return n.ledger
}

// Program returns the launchpad program.
func (n *Node) Program() *launchpad.Program {
	return n.program
}

// ReferenceBalance returns owner's reference-token balance.
func (n *Node) ReferenceBalance(owner types.Address) (uint64, error) {
	acct, _, err := token.AssociatedAddress(owner, n.program.ReferenceMint())
	if err != nil {
		return 0, err
	}
	var bal uint64
	err = n.ledger.View(func(txn *ledger.Txn) error {
		var verr error
		bal, verr = txn.Balance(acct)
		return verr
	})
	return bal, err
}
