// Package miner extends a stored chain one solved block at a time. Each block
// carries a single coinbase transaction paying the reward to the beneficiary.
package miner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database"
)

// Config represents the configuration required to start a miner.
type Config struct {
	Serializer  database.Serializer
	Beneficiary database.Address
	Reward      database.Amount
	Difficulty  uint32
	Workers     int
	Now         func() time.Time
	EvHandler   func(v string, args ...any)
}

// Miner manages mining new blocks on top of the stored chain.
type Miner struct {
	serializer  database.Serializer
	beneficiary database.Address
	reward      database.Amount
	difficulty  uint32
	workers     int
	now         func() time.Time
	evHandler   func(v string, args ...any)

	mu          sync.RWMutex
	latestBlock database.Block
	height      uint64
}

// New constructs a miner, validating the chain already held by the serializer
// so mining continues from the latest block.
func New(cfg Config) (*Miner, error) {
	if cfg.Serializer == nil {
		return nil, errors.New("serializer is required")
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	latestBlock, height, err := database.ValidateChain(cfg.Serializer, ev)
	if err != nil {
		return nil, fmt.Errorf("validating stored chain: %w", err)
	}

	m := Miner{
		serializer:  cfg.Serializer,
		beneficiary: cfg.Beneficiary,
		reward:      cfg.Reward,
		difficulty:  cfg.Difficulty,
		workers:     cfg.Workers,
		now:         now,
		evHandler:   ev,
		latestBlock: latestBlock,
		height:      height,
	}

	ev("miner: New: chain loaded: height[%d]: latest[%s]", height, latestBlock.Hash())

	return &m, nil
}

// LatestBlock returns the last block of the chain.
func (m *Miner) LatestBlock() database.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.latestBlock
}

// Height returns the number of blocks in the chain.
func (m *Miner) Height() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.height
}

// Run mines blocks until the context is cancelled or the specified number of
// blocks have been mined. A value of zero for blocks means no limit.
func (m *Miner) Run(ctx context.Context, blocks int) error {
	m.evHandler("miner: Run: G started")
	defer m.evHandler("miner: Run: G completed")

	for mined := 0; blocks == 0 || mined < blocks; mined++ {
		block, duration, err := m.MineNext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				m.evHandler("miner: Run: MINING: CANCELLED: by request")
				return nil
			}
			return err
		}

		m.evHandler("miner: Run: MINING: blk[%s]: height[%d]: duration[%v]", block.Hash(), m.Height(), duration)
	}

	return nil
}

// MineNext solves the next block and writes it to the serializer.
func (m *Miner) MineNext(ctx context.Context) (database.Block, time.Duration, error) {
	m.mu.RLock()
	parent := m.latestBlock
	number := m.height + 1
	m.mu.RUnlock()

	m.evHandler("miner: MineNext: MINING: started: blk[%d]", number)
	defer m.evHandler("miner: MineNext: MINING: completed: blk[%d]", number)

	// A block must be newer than its parent.
	timeStamp := uint32(m.now().UTC().Unix())
	if number > 1 && timeStamp <= parent.Header().TimeStamp() {
		timeStamp = parent.Header().TimeStamp() + 1
	}

	t := time.Now()

	var block database.Block
	var err error

	switch number {
	case 1:
		block, err = database.NewGenesis(m.beneficiary, m.reward, timeStamp, m.difficulty)
		if err != nil {
			return database.Block{}, 0, err
		}
		block, err = database.Solve(ctx, block, m.workers, m.evHandler)

	default:
		var tx database.Transaction
		tx, err = database.NewCoinbaseTransaction(m.beneficiary, m.reward, uint32(number))
		if err != nil {
			return database.Block{}, 0, err
		}
		block, err = database.POW(ctx, database.POWArgs{
			PrevBlockHash: parent.Hash(),
			TimeStamp:     timeStamp,
			Difficulty:    m.difficulty,
			Trans:         []database.Transaction{tx},
			Workers:       m.workers,
			EvHandler:     m.evHandler,
		})
	}

	duration := time.Since(t)
	if err != nil {
		return database.Block{}, duration, err
	}

	if err := m.serializer.Write(database.NewBlockData(number, block)); err != nil {
		return database.Block{}, duration, fmt.Errorf("writing block %d: %w", number, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestBlock = block
	m.height = number

	return block, duration, nil
}
