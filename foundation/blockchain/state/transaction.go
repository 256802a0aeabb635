package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction accepts a transaction from a wallet for inclusion in a
// future block. Identical transactions are not rejected and each
// submission takes its own place in the mempool.
func (s *State) SubmitTransaction(tx database.Tx) error {
	n, err := s.submitTransaction(tx)
	if err != nil {
		s.evHandler("state: SubmitTransaction: rejected: tx[%s]: %s", tx, err)
		return err
	}

	s.evHandler("state: SubmitTransaction: accepted: tx[%s]: pending[%d]", tx, n)

	return nil
}

// =============================================================================

func (s *State) submitTransaction(tx database.Tx) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := tx.Validate(); err != nil {
		return 0, err
	}

	return s.mempool.Add(tx), nil
}
