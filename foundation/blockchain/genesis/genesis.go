// Package genesis maintains the information the ledger is created with.
package genesis

import (
	"encoding/json"
	"errors"
	"os"
)

// Set of default values the ledger is created with.
const (
	defaultReceiver       = "03247e21fbb8be9ee2b666d431f43c88c2dd8e422ee805dc6c08593de93b721d7b"
	defaultAmount         = 1000
	defaultTxTimeStamp    = 1688204859
	defaultBlockTimeStamp = 1688062447
	defaultDifficulty     = 4
	defaultMiningReward   = 100
)

// Genesis represents the genesis information.
type Genesis struct {
	Receiver       string `json:"receiver"`        // Account receiving the privileged transaction.
	Amount         uint64 `json:"amount"`          // Value of the privileged transaction.
	TxTimeStamp    uint64 `json:"tx_timestamp"`    // Timestamp of the privileged transaction.
	BlockTimeStamp uint64 `json:"block_timestamp"` // Timestamp of the genesis block.
	Difficulty     uint   `json:"difficulty"`      // Difficulty stamped on every block template.
	MiningReward   uint64 `json:"mining_reward"`   // Reward advertised with every block template.
}

// Default returns the genesis information the ledger uses when no genesis
// file is provided.
func Default() Genesis {
	return Genesis{
		Receiver:       defaultReceiver,
		Amount:         defaultAmount,
		TxTimeStamp:    defaultTxTimeStamp,
		BlockTimeStamp: defaultBlockTimeStamp,
		Difficulty:     defaultDifficulty,
		MiningReward:   defaultMiningReward,
	}
}

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if genesis.Receiver == "" {
		return Genesis{}, errors.New("genesis receiver cannot be empty")
	}

	if genesis.Amount == 0 {
		return Genesis{}, errors.New("genesis amount must be greater than zero")
	}

	return genesis, nil
}
