package database

import (
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Block represents a group of transactions batched together and linked to
// the block before it.
type Block struct {
	Index      uint64 `json:"index"`       // Position of the block in the chain.
	TimeStamp  uint64 `json:"timestamp"`   // Time the block was assembled.
	Hash       string `json:"hash"`        // Digest of the header fields.
	PrevHash   string `json:"prev_hash"`   // Hash of the previous block, empty for genesis.
	Data       []Tx   `json:"data"`        // Transactions in mining order.
	MerkleRoot string `json:"merkle_root"` // Digest over the concatenated transaction hashes.
	Difficulty uint   `json:"difficulty"`  // Target parameter, static on this ledger.
	Nonce      uint64 `json:"nonce"`       // Free parameter for the block producer.
}

// NewGenesisBlock constructs the first block of the chain holding the
// privileged transaction described by the genesis information.
func NewGenesisBlock(gen genesis.Genesis) Block {
	tx := NewPrivilegedTx(gen.Receiver, gen.Amount, gen.TxTimeStamp)

	b := Block{
		Index:      0,
		TimeStamp:  gen.BlockTimeStamp,
		Data:       []Tx{tx},
		Difficulty: gen.Difficulty,
	}

	return b.Complete()
}

// CalculateHash returns the digest of the block header fields.
func (b Block) CalculateHash() string {
	return signature.Hash(fmt.Sprintf("%d%d%s%s%d%d", b.Index, b.TimeStamp, b.PrevHash, b.MerkleRoot, b.Difficulty, b.Nonce))
}

// CalculateMerkleRoot returns the digest over the transaction hashes in the
// order they appear in the block.
func (b Block) CalculateMerkleRoot() string {
	return merkle.Root(b.Data)
}

// Complete fills in the commitment fields of a block template so it can
// be submitted. The merkle root must be set before the hash is calculated.
func (b Block) Complete() Block {
	b.MerkleRoot = b.CalculateMerkleRoot()
	b.Hash = b.CalculateHash()

	return b
}

// IsGenesis reports whether this is the first block of the chain.
func (b Block) IsGenesis() bool {
	return b.Index == 0 && b.PrevHash == ""
}

// Validate checks the block is internally consistent. The block's timestamp
// is compared against the specified time.
func (b Block) Validate(now time.Time) error {
	if b.Hash != b.CalculateHash() {
		return integrityError("hash mismatch")
	}

	if _, err := signature.DecodeDigest(b.Hash); err != nil {
		return formatError("invalid hash format", err)
	}

	if !b.IsGenesis() {
		if _, err := signature.DecodeDigest(b.PrevHash); err != nil {
			return formatError("invalid prev hash format", err)
		}
	}

	if len(b.Data) == 0 {
		return policyError("empty block")
	}

	if err := merkle.Verify(b.Data, b.MerkleRoot); err != nil {
		return integrityError("merkle root mismatch")
	}

	for i, tx := range b.Data {
		validate := tx.Validate
		if b.IsGenesis() && tx.IsPrivileged() {
			validate = tx.ValidatePrivileged
		}

		if err := validate(); err != nil {
			return fmt.Errorf("block[%d]: tx[%d]: %w", b.Index, i, err)
		}
	}

	if unix := now.Unix(); unix < 0 || b.TimeStamp > uint64(unix) {
		return policyError("future timestamp")
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%d:%s", b.Index, short(b.Hash))
}
