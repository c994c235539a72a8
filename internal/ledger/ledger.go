// Package ledger hosts program execution over a key-value store.
//
// Every call runs inside Execute: the ledger takes its write lock, checks
// the transaction ID against the replay set, runs the program callback
// against a write overlay and either commits the overlay as one storage
// batch or throws it away. Readers going through View only ever see
// committed state.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/nexwallet/launchpad/internal/log"
	"github.com/nexwallet/launchpad/internal/storage"
	"github.com/nexwallet/launchpad/internal/token"
	"github.com/nexwallet/launchpad/pkg/types"
	"github.com/rs/zerolog"
)

// Keyspaces.
var (
	prefixTokens  = []byte("t/") // token store (mints, accounts)
	prefixRecords = []byte("r/") // r/<addr(32)> -> owner program(32) || data
	prefixTxIDs   = []byte("x/") // x/<id(32)> -> processed marker
	keyTxCount    = []byte("s/txcount")
)

var (
	ErrDuplicateTransaction = errors.New("transaction already processed")
	ErrRecordNotFound       = errors.New("record not found")
	ErrRecordOwner          = errors.New("record owned by another program")
	ErrUnauthorized         = errors.New("missing required signature")
	ErrReadOnly             = errors.New("write in read-only view")
)

// Ledger executes program calls atomically.
type Ledger struct {
	mu     sync.RWMutex
	db     storage.DB
	logger zerolog.Logger
}

// New creates a ledger over db.
func New(db storage.DB) *Ledger {
	return &Ledger{db: db, logger: log.Ledger}
}

// Execute runs fn as one all-or-nothing call of program. id identifies
// the call for replay protection; a zero id skips the check. signers is
// the set of addresses whose signatures the caller has verified.
func (l *Ledger) Execute(program types.Address, id types.Hash, signers []types.Address, fn func(*Txn) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !id.IsZero() {
		seen, err := l.db.Has(txKey(id))
		if err != nil {
			return fmt.Errorf("replay check: %w", err)
		}
		if seen {
			return fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
		}
	}

	ov := storage.NewOverlay(l.db)
	txn := newTxn(ov, program, signers, false)
	if err := fn(txn); err != nil {
		ov.Discard()
		l.logger.Debug().Str("tx", id.String()).Err(err).Msg("call rolled back")
		return err
	}

	if !id.IsZero() {
		if err := ov.Put(txKey(id), []byte{1}); err != nil {
			return err
		}
		count, err := readCount(ov)
		if err != nil {
			return err
		}
		if err := ov.Put(keyTxCount, encodeCount(count+1)); err != nil {
			return err
		}
	}

	writes := ov.Len()
	if err := ov.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	l.logger.Debug().Str("tx", id.String()).Int("writes", writes).Msg("call committed")
	return nil
}

// View runs fn against committed state. Writes through the Txn fail with
// ErrReadOnly.
func (l *Ledger) View(fn func(*Txn) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn(newTxn(l.db, types.Address{}, nil, true))
}

// Bootstrap creates mint with the given authority if it does not exist.
// The node calls it once at start for the reference payment token.
func (l *Ledger) Bootstrap(mint, authority types.Address, decimals uint8) (*token.Mint, error) {
	var m *token.Mint
	err := l.Execute(types.Address{}, types.Hash{}, nil, func(txn *Txn) error {
		var err error
		m, err = txn.tokens.EnsureMint(mint, authority, decimals)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap mint %s: %w", mint, err)
	}
	if m.Authority != authority {
		l.logger.Warn().
			Str("mint", mint.String()).
			Str("stored_authority", m.Authority.String()).
			Str("configured_authority", authority.String()).
			Msg("reference mint exists with a different authority")
	}
	return m, nil
}

// Processed reports whether a transaction ID has been committed.
func (l *Ledger) Processed(id types.Hash) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db.Has(txKey(id))
}

// TxCount returns the number of committed transactions.
func (l *Ledger) TxCount() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return readCount(l.db)
}

func readCount(db storage.DB) (uint64, error) {
	data, err := db.Get(keyTxCount)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupt tx counter (%d bytes)", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

func encodeCount(n uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return b[:]
}

func txKey(id types.Hash) []byte {
	k := make([]byte, len(prefixTxIDs)+types.HashSize)
	copy(k, prefixTxIDs)
	copy(k[len(prefixTxIDs):], id[:])
	return k
}
