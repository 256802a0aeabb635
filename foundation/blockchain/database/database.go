// Package database handles the ledger's data model. It provides the
// transaction and block types, the validation rules they must pass and the
// storage abstraction committed blocks are kept in.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	Height() uint64
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// Copy returns a deep copy of the block so the caller can't change the
// transactions held by storage.
func (b Block) Copy() Block {
	if b.Data != nil {
		data := make([]Tx, len(b.Data))
		copy(data, b.Data)
		b.Data = data
	}

	return b
}
