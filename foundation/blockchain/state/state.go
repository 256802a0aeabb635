// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Set of chain extension policies a node can run with.
const (
	PolicyStrict     = "strict"
	PolicyPermissive = "permissive"
)

// Set of errors returned by the ledger outside of validation.
var (
	ErrEmptyMempool = errors.New("no transactions to mine")
	ErrNotFound     = errors.New("not found")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis         genesis.Genesis
	Storage         database.Storage
	ExtensionPolicy string
	EvHandler       EventHandler
	Now             func() time.Time
}

// State manages the ledger. Every operation that changes the chain or the
// mempool runs under the write lock from the first read to the last write.
type State struct {
	genesis     genesis.Genesis
	policy      string
	evHandler   EventHandler
	now         func() time.Time
	latestBlock database.Block
	mu          sync.RWMutex

	mempool *mempool.Mempool
	storage database.Storage
}

// New constructs a new ledger for data management. When the storage is empty
// the genesis block is created and written first.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	policy := cfg.ExtensionPolicy
	switch policy {
	case "":
		policy = PolicyStrict
	case PolicyStrict, PolicyPermissive:
	default:
		return nil, fmt.Errorf("unknown extension policy %q", policy)
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	latestBlock, err := loadLatest(cfg.Storage, cfg.Genesis, now(), ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:     cfg.Genesis,
		policy:      policy,
		evHandler:   ev,
		now:         now,
		latestBlock: latestBlock,

		mempool: mempool.New(),
		storage: cfg.Storage,
	}

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	return s.storage.Close()
}

// =============================================================================

// loadLatest returns the last block in storage, writing the genesis block
// first when the storage is empty.
func loadLatest(strg database.Storage, gen genesis.Genesis, now time.Time, ev EventHandler) (database.Block, error) {
	if strg.Height() == 0 {
		block := database.NewGenesisBlock(gen)
		if err := block.Validate(now); err != nil {
			return database.Block{}, fmt.Errorf("genesis: %w", err)
		}

		if err := strg.Write(block); err != nil {
			return database.Block{}, fmt.Errorf("genesis: write: %w", err)
		}

		ev("state: genesis: blk[%s]", block)
		return block, nil
	}

	return strg.GetBlock(strg.Height() - 1)
}
