// Package database provides the value types of the blockchain: transactions,
// block headers and blocks, along with the rules for identifying them and
// linking them together. It also defines the behavior required by packages
// that store blocks.
package database

import (
	"fmt"
)

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator converts the stored blocks into database blocks while
// iterating.
type DatabaseIterator struct {
	iterator Iterator
}

// NewIterator constructs an iterator over the blocks held by the serializer
// starting with block number 1.
func NewIterator(serializer Serializer) *DatabaseIterator {
	return &DatabaseIterator{iterator: serializer.ForEach()}
}

// Next retrieves the next block from the serializer.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// ValidateChain reads every block held by the serializer and validates that
// each block is solved and links to the block before it. The first block must
// link to the zero hash. The latest block and the number of blocks read are
// returned. An empty chain returns a zero block and a count of zero.
func ValidateChain(serializer Serializer, evHandler func(v string, args ...any)) (Block, uint64, error) {
	var latestBlock Block
	var count uint64

	iter := serializer.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return Block{}, count, err
		}

		if blockData.Number != count+1 {
			return Block{}, count, fmt.Errorf("%w: this block is not the next number, got %d, exp %d", ErrInvalidBlock, blockData.Number, count+1)
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return Block{}, count, err
		}

		switch count {
		case 0:
			if err := block.ValidateGenesis(evHandler); err != nil {
				return Block{}, count, err
			}
		default:
			if err := block.ValidateBlock(latestBlock, evHandler); err != nil {
				return Block{}, count, err
			}
		}

		latestBlock = block
		count++
	}

	return latestBlock, count, nil
}
