package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/merkle"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/pow"
)

// BlockHash represents the identity of a block. It is the hash of the block
// header.
type BlockHash digest.Digest

// Digest returns the hash as a plain digest.
func (h BlockHash) Digest() digest.Digest {
	return digest.Digest(h)
}

// String implements the fmt.Stringer interface.
func (h BlockHash) String() string {
	return digest.Digest(h).Hex()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h BlockHash) MarshalText() ([]byte, error) {
	return digest.Digest(h).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *BlockHash) UnmarshalText(text []byte) error {
	return (*digest.Digest)(h).UnmarshalText(text)
}

// =============================================================================

// BlockHeader represents common information required for each block. The
// difficulty is the number of leading zero bits the block hash must have.
type BlockHeader struct {
	prevBlockHash BlockHash   // Bitcoin: Hash of the previous block in the chain.
	merkleRoot    merkle.Root // Bitcoin: Merkle tree root hash for the transactions in this block.
	timeStamp     uint32      // Bitcoin: Time the block was mined.
	difficulty    uint32      // Bitcoin: Number of leading zero bits needed to solve the hash solution.
	nonce         uint32      // Bitcoin: Value identified to solve the hash solution.
}

// NewBlockHeader constructs a header from its fields.
func NewBlockHeader(prevBlockHash BlockHash, merkleRoot merkle.Root, timeStamp uint32, difficulty uint32, nonce uint32) BlockHeader {
	return BlockHeader{
		prevBlockHash: prevBlockHash,
		merkleRoot:    merkleRoot,
		timeStamp:     timeStamp,
		difficulty:    difficulty,
		nonce:         nonce,
	}
}

// PrevBlockHash returns the hash of the previous block in the chain.
func (bh BlockHeader) PrevBlockHash() BlockHash { return bh.prevBlockHash }

// MerkleRoot returns the root of the merkle tree of the transactions.
func (bh BlockHeader) MerkleRoot() merkle.Root { return bh.merkleRoot }

// TimeStamp returns the time the block was mined in seconds.
func (bh BlockHeader) TimeStamp() uint32 { return bh.timeStamp }

// Difficulty returns the number of leading zero bits the hash must have.
func (bh BlockHeader) Difficulty() uint32 { return bh.difficulty }

// Nonce returns the proof of work value.
func (bh BlockHeader) Nonce() uint32 { return bh.nonce }

// WithNonce returns a copy of the header using the specified nonce.
func (bh BlockHeader) WithNonce(nonce uint32) BlockHeader {
	bh.nonce = nonce
	return bh
}

// Hash returns the unique hash for the header. The hashed data is the hex
// form of both hashes followed by the decimal form of the timestamp,
// difficulty and nonce, in that order, with nothing between them.
func (bh BlockHeader) Hash() BlockHash {
	var sb strings.Builder
	sb.WriteString(bh.prevBlockHash.String())
	sb.WriteString(bh.merkleRoot.String())
	sb.WriteString(strconv.FormatUint(uint64(bh.timeStamp), 10))
	sb.WriteString(strconv.FormatUint(uint64(bh.difficulty), 10))
	sb.WriteString(strconv.FormatUint(uint64(bh.nonce), 10))

	return BlockHash(digest.Hash([]byte(sb.String())))
}

// headerJSON is the form of a header in JSON documents.
type headerJSON struct {
	PrevBlockHash BlockHash   `json:"prev_block_hash"`
	MerkleRoot    merkle.Root `json:"merkle_root"`
	TimeStamp     uint32      `json:"timestamp"`
	Difficulty    uint32      `json:"difficulty"`
	Nonce         uint32      `json:"nonce"`
}

// MarshalJSON implements the json.Marshaler interface.
func (bh BlockHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(headerJSON{
		PrevBlockHash: bh.prevBlockHash,
		MerkleRoot:    bh.merkleRoot,
		TimeStamp:     bh.timeStamp,
		Difficulty:    bh.difficulty,
		Nonce:         bh.nonce,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (bh *BlockHeader) UnmarshalJSON(data []byte) error {
	var hj headerJSON
	if err := json.Unmarshal(data, &hj); err != nil {
		return err
	}

	*bh = NewBlockHeader(hj.PrevBlockHash, hj.MerkleRoot, hj.TimeStamp, hj.Difficulty, hj.Nonce)
	return nil
}

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	header BlockHeader
	trans  *merkle.Tree[Transaction]
}

// NewBlock constructs a block for the ordered set of transactions. The
// merkle root of the transactions is placed in the header.
func NewBlock(prevBlockHash BlockHash, timeStamp uint32, difficulty uint32, nonce uint32, trans []Transaction) (Block, error) {
	tree, err := merkle.NewTree(trans)
	if err != nil {
		return Block{}, fmt.Errorf("building merkle tree: %w", err)
	}

	b := Block{
		header: NewBlockHeader(prevBlockHash, tree.MerkleRoot, timeStamp, difficulty, nonce),
		trans:  tree,
	}

	return b, nil
}

// Header returns the header of the block.
func (b Block) Header() BlockHeader {
	return b.header
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() BlockHash {

	// Hashing the block header and not the whole block so the blockchain
	// can be cryptographically checked by only needing block headers. The
	// merkle root ties the transactions to the header.

	return b.header.Hash()
}

// Transactions returns the transactions of the block in order.
func (b Block) Transactions() []Transaction {
	if b.trans == nil {
		return nil
	}

	return b.trans.Values()
}

// WithNonce returns a copy of the block using the specified nonce.
func (b Block) WithNonce(nonce uint32) Block {
	b.header = b.header.WithNonce(nonce)
	return b
}

// ValidateProofOfWork checks the hash of the block meets the target for the
// difficulty in the header.
func (b Block) ValidateProofOfWork() error {
	target, err := pow.NewTarget(uint(b.header.difficulty))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlock, err)
	}

	hash := b.Hash()
	if !target.IsMet(hash.Digest()) {
		return fmt.Errorf("%w: %s does not meet target %s", ErrInvalidBlock, hash, target)
	}

	return nil
}

// ValidateBlock takes a block and validates it links to the parent block.
func (b Block) ValidateBlock(parent Block, evHandler func(v string, args ...any)) error {
	hash := b.Hash()

	evHandler("database: ValidateBlock: validate: blk[%s]: check: parent hash does match parent block", hash)

	parentHash := parent.Hash()
	if b.header.prevBlockHash != parentHash {
		return fmt.Errorf("%w: parent block hash doesn't match our known parent, got %s, exp %s", ErrInvalidBlock, b.header.prevBlockHash, parentHash)
	}

	if parent.header.timeStamp > 0 {
		evHandler("database: ValidateBlock: validate: blk[%s]: check: block's timestamp is greater than parent block's timestamp", hash)

		parentTime := time.Unix(int64(parent.header.timeStamp), 0)
		blockTime := time.Unix(int64(b.header.timeStamp), 0)
		if !blockTime.After(parentTime) {
			return fmt.Errorf("%w: block timestamp is before parent block, parent %s, block %s", ErrInvalidBlock, parentTime, blockTime)
		}
	}

	return b.Validate(evHandler)
}

// Validate checks the parts of the block that don't depend on the parent.
func (b Block) Validate(evHandler func(v string, args ...any)) error {
	hash := b.Hash()

	evHandler("database: ValidateBlock: validate: blk[%s]: check: merkle root does match transactions", hash)

	if b.trans == nil {
		return fmt.Errorf("%w: block has no transactions", ErrInvalidBlock)
	}

	if err := b.trans.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlock, err)
	}

	if b.header.merkleRoot != b.trans.MerkleRoot {
		return fmt.Errorf("%w: merkle root does not match transactions, got %s, exp %s", ErrInvalidBlock, b.trans.MerkleRoot, b.header.merkleRoot)
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: block hash has been solved", hash)

	return b.ValidateProofOfWork()
}

// =============================================================================

// BlockData represents what is written to the DB file.
type BlockData struct {
	Number uint64        `json:"number"`
	Hash   BlockHash     `json:"hash"`
	Header BlockHeader   `json:"block"`
	Trans  []Transaction `json:"trans"`
}

// NewBlockData constructs the value to serialize to disk.
func NewBlockData(number uint64, block Block) BlockData {
	return BlockData{
		Number: number,
		Hash:   block.Hash(),
		Header: block.header,
		Trans:  block.Transactions(),
	}
}

// ToBlock converts a BlockData into a Block. The stored hash must match the
// hash of the stored header.
func ToBlock(blockData BlockData) (Block, error) {
	tree, err := merkle.NewTree(blockData.Trans)
	if err != nil {
		return Block{}, fmt.Errorf("building merkle tree: %w", err)
	}

	b := Block{
		header: blockData.Header,
		trans:  tree,
	}

	if hash := b.Hash(); hash != blockData.Hash {
		return Block{}, fmt.Errorf("%w: stored hash %s does not match %s", ErrInvalidBlock, blockData.Hash, hash)
	}

	return b, nil
}
