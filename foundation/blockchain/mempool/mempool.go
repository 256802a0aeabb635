// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the set of validated transactions waiting to be
// committed into a block. Transactions are kept in the order they were
// accepted and identical transactions are not deduplicated.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the mempool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns a snapshot of the transactions in the pool in the order
// they were accepted.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]database.Tx, len(mp.pool))
	copy(txs, mp.pool)

	return txs
}

// HasPrefix reports whether the specified transactions match, by hash and
// in order, the first transactions of the pool.
func (mp *Mempool) HasPrefix(txs []database.Tx) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if len(txs) > len(mp.pool) {
		return false
	}

	for i, tx := range txs {
		if mp.pool[i].Hash != tx.Hash {
			return false
		}
	}

	return true
}

// RemovePrefix removes the first n transactions from the pool.
func (mp *Mempool) RemovePrefix(n int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if n >= len(mp.pool) {
		mp.pool = nil
		return
	}

	pool := make([]database.Tx, len(mp.pool)-n)
	copy(pool, mp.pool[n:])
	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
