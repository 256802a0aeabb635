package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Template represents a candidate block for an external miner to complete.
type Template struct {
	Block       database.Block `json:"block"`
	MinerReward uint64         `json:"miner_reward"`
}

// ProposeBlock returns a block template over the current mempool. The hash
// and merkle root are left empty for the miner to fill in. The ledger is not
// changed.
func (s *State) ProposeBlock() (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mempool.Count() == 0 {
		return Template{}, ErrEmptyMempool
	}

	block := database.Block{
		Index:      s.storage.Height(),
		TimeStamp:  uint64(s.now().Unix()),
		PrevHash:   s.latestBlock.Hash,
		Data:       s.mempool.Copy(),
		Difficulty: s.genesis.Difficulty,
	}

	tmpl := Template{
		Block:       block,
		MinerReward: s.genesis.MiningReward,
	}

	return tmpl, nil
}

// AcceptBlock takes a completed block, validates it and if that passes,
// appends it to the chain and removes its transactions from the mempool.
func (s *State) AcceptBlock(block database.Block) error {
	if err := s.acceptBlock(block); err != nil {
		s.evHandler("state: AcceptBlock: rejected: blk[%s]: %s", block, err)
		return err
	}

	s.evHandler("state: AcceptBlock: accepted: blk[%s]: txs[%d]", block, len(block.Data))

	return nil
}

// =============================================================================

func (s *State) acceptBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mempool.Count() == 0 {
		return ErrEmptyMempool
	}

	if err := block.Validate(s.now()); err != nil {
		return err
	}

	if block.Index == 0 {
		return &database.ValidationError{Kind: database.ErrPolicy, Reason: "genesis block cannot be submitted"}
	}

	if s.policy == PolicyStrict {
		if err := s.validateExtension(block); err != nil {
			return err
		}
	}

	if err := s.storage.Write(block); err != nil {
		return fmt.Errorf("write block: %w", err)
	}
	s.latestBlock = block.Copy()

	switch s.policy {
	case PolicyStrict:
		s.mempool.RemovePrefix(len(block.Data))
	default:
		s.mempool.Truncate()
	}

	return nil
}

// validateExtension checks the block links to the tip of the chain and
// commits transactions in the order they are pending.
func (s *State) validateExtension(block database.Block) error {
	if block.Index != s.latestBlock.Index+1 {
		return &database.ValidationError{
			Kind:   database.ErrPolicy,
			Reason: fmt.Sprintf("index out of sequence, got %d, exp %d", block.Index, s.latestBlock.Index+1),
		}
	}

	if block.PrevHash != s.latestBlock.Hash {
		return &database.ValidationError{Kind: database.ErrIntegrity, Reason: "prev hash mismatch"}
	}

	if !s.mempool.HasPrefix(block.Data) {
		return &database.ValidationError{Kind: database.ErrPolicy, Reason: "block data does not match mempool"}
	}

	return nil
}
