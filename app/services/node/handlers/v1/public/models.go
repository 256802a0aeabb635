package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// tx is the wire form of a transaction. The bounds only reject payloads
// that can't be a transaction, the ledger rules are applied by the state.
type tx struct {
	Sender    string `json:"sender" validate:"max=132"`
	Receiver  string `json:"receiver" validate:"max=132"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature" validate:"max=160"`
	Hash      string `json:"hash" validate:"max=64"`
	TimeStamp uint64 `json:"timestamp"`
}

func (t tx) toDatabase() database.Tx {
	return database.Tx{
		Sender:    t.Sender,
		Receiver:  t.Receiver,
		Amount:    t.Amount,
		Signature: t.Signature,
		Hash:      t.Hash,
		TimeStamp: t.TimeStamp,
	}
}

// block is the wire form of a completed block submitted by a miner.
type block struct {
	Index      uint64 `json:"index"`
	TimeStamp  uint64 `json:"timestamp"`
	Hash       string `json:"hash" validate:"max=64"`
	PrevHash   string `json:"prev_hash" validate:"max=64"`
	Data       []tx   `json:"data" validate:"dive"`
	MerkleRoot string `json:"merkle_root" validate:"max=64"`
	Difficulty uint   `json:"difficulty"`
	Nonce      uint64 `json:"nonce"`
}

func (b block) toDatabase() database.Block {
	data := make([]database.Tx, len(b.Data))
	for i, tx := range b.Data {
		data[i] = tx.toDatabase()
	}

	return database.Block{
		Index:      b.Index,
		TimeStamp:  b.TimeStamp,
		Hash:       b.Hash,
		PrevHash:   b.PrevHash,
		Data:       data,
		MerkleRoot: b.MerkleRoot,
		Difficulty: b.Difficulty,
		Nonce:      b.Nonce,
	}
}

// pendingTx is a mempool transaction with the names of the accounts.
type pendingTx struct {
	Sender       string `json:"sender"`
	SenderName   string `json:"sender_name"`
	Receiver     string `json:"receiver"`
	ReceiverName string `json:"receiver_name"`
	Amount       uint64 `json:"amount"`
	Signature    string `json:"signature"`
	Hash         string `json:"hash"`
	TimeStamp    uint64 `json:"timestamp"`
}

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type status struct {
	Status string `json:"status"`
}
