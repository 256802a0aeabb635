package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// BalanceOf replays every committed transaction and returns the balance of
// the specified account. Balances are not bounded below, so a sender that
// spent more than it received reports a negative value. The empty address
// is the sender of the genesis transaction and is debited for it.
func (s *State) BalanceOf(address string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance int64

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return 0, err
		}

		for _, tx := range block.Data {
			if tx.Receiver == address {
				balance += int64(tx.Amount)
			}
			if tx.Sender == address {
				balance -= int64(tx.Amount)
			}
		}
	}

	return balance, nil
}

// QueryBlockByHash returns the committed block with the specified hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return database.Block{}, err
		}

		if block.Hash == hash {
			return block, nil
		}
	}

	return database.Block{}, ErrNotFound
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
