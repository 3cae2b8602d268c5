package database

import (
	"fmt"
)

// NewGenesis constructs the first block of a chain. It holds a single
// coinbase transaction paying the reward to the address and links to the zero
// hash. The block still needs to be solved before it is valid.
func NewGenesis(to Address, reward Amount, timeStamp uint32, difficulty uint32) (Block, error) {
	tx, err := NewCoinbaseTransaction(to, reward, 0)
	if err != nil {
		return Block{}, err
	}

	return NewBlock(BlockHash{}, timeStamp, difficulty, 0, []Transaction{tx})
}

// ValidateGenesis checks the block can start a chain.
func (b Block) ValidateGenesis(evHandler func(v string, args ...any)) error {
	hash := b.Hash()

	evHandler("database: ValidateGenesis: validate: blk[%s]: check: parent hash is zero", hash)

	if !b.header.prevBlockHash.Digest().IsZero() {
		return fmt.Errorf("%w: genesis block has parent hash %s", ErrInvalidBlock, b.header.prevBlockHash)
	}

	return b.Validate(evHandler)
}
