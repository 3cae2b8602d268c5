package database

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/pow"
	"golang.org/x/sync/errgroup"
)

// attemptsInterval is how often a worker reports the number of nonces it
// has tried.
const attemptsInterval = 1_000_000

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlockHash BlockHash
	TimeStamp     uint32
	Difficulty    uint32
	Trans         []Transaction
	Workers       int
	EvHandler     func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The event handler must be safe for
// concurrent use when more than one worker is used.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	nb, err := NewBlock(args.PrevBlockHash, args.TimeStamp, args.Difficulty, 0, args.Trans)
	if err != nil {
		return Block{}, err
	}

	ev := args.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	return nb.performPOW(ctx, args.Workers, ev)
}

// Solve performs the work to find a nonce for an existing block.
func Solve(ctx context.Context, b Block, workers int, ev func(v string, args ...any)) (Block, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	return b.performPOW(ctx, workers, ev)
}

// performPOW does the work of mining to find a valid hash for a specified
// block. The nonce space is split between the workers and the first worker
// to find a solution stops the others.
func (b Block) performPOW(ctx context.Context, workers int, ev func(v string, args ...any)) (Block, error) {
	ev("database: PerformPOW: MINING: started")
	defer ev("database: PerformPOW: MINING: completed")

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Transactions() {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	target, err := pow.NewTarget(uint(b.header.difficulty))
	if err != nil {
		return Block{}, err
	}

	// Choose a random starting point for the nonce. After this, the nonce
	// will be incremented by 1 until a solution is found or the space is used.
	start, err := randomNonce()
	if err != nil {
		return Block{}, err
	}

	if workers < 1 {
		workers = 1
	}

	const space = uint64(math.MaxUint32) + 1
	span := space / uint64(workers)

	solveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var solved atomic.Pointer[BlockHeader]
	var g errgroup.Group

	for w := range workers {
		offset := uint64(w) * span
		count := span
		if w == workers-1 {
			count = space - offset
		}

		g.Go(func() error {
			var attempts uint64
			for i := uint64(0); i < count; i++ {
				attempts++
				if attempts%attemptsInterval == 0 {
					ev("database: PerformPOW: MINING: worker[%d]: attempts[%d]", w, attempts)
				}

				// Did we timeout or did another worker solve the problem.
				if solveCtx.Err() != nil {
					return nil
				}

				header := b.header.WithNonce(start + uint32(offset+i))
				hash := header.Hash()
				if !target.IsMet(hash.Digest()) {
					continue
				}

				if solved.CompareAndSwap(nil, &header) {
					ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", header.prevBlockHash, hash)
					ev("database: PerformPOW: MINING: worker[%d]: attempts[%d]", w, attempts)
					cancel()
				}
				return nil
			}
			return nil
		})
	}

	g.Wait()

	if header := solved.Load(); header != nil {
		b.header = *header
		return b, nil
	}

	if err := ctx.Err(); err != nil {
		ev("database: PerformPOW: MINING: CANCELLED")
		return Block{}, err
	}

	return Block{}, fmt.Errorf("%w: difficulty %d", ErrNonceExhausted, b.header.difficulty)
}

// randomNonce returns a random 32 bit value.
func randomNonce() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf[:]), nil
}
