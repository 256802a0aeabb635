package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Ledger represents a consistent snapshot of the chain and the mempool.
type Ledger struct {
	Blocks       []database.Block `json:"blocks"`
	PendingTxs   []database.Tx    `json:"pending_txs"`
	Difficulty   uint             `json:"difficulty"`
	MiningReward uint64           `json:"mining_reward"`
}

// RetrieveLedger returns a copy of the entire ledger.
func (s *State) RetrieveLedger() (Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, 0, s.storage.Height())

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return Ledger{}, err
		}
		blocks = append(blocks, block)
	}

	ledger := Ledger{
		Blocks:       blocks,
		PendingTxs:   s.mempool.Copy(),
		Difficulty:   s.genesis.Difficulty,
		MiningReward: s.genesis.MiningReward,
	}

	return ledger, nil
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock.Copy()
}

// RetrieveMempool returns a copy of the mempool in the order the
// transactions were accepted.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrievePolicy returns the chain extension policy the ledger runs with.
func (s *State) RetrievePolicy() string {
	return s.policy
}
