package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database/storage"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/miner"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/pow"
	"github.com/xiuxiu62/luxcoin/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("MINER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Miner struct {
			Beneficiary string        `conf:"default:miner1"`
			Reward      int64         `conf:"default:50"`
			Difficulty  uint32        `conf:"default:16"`
			Workers     int           `conf:"default:4"`
			Blocks      int           `conf:"default:0"`
			Timeout     time.Duration `conf:"default:0s"`
		}
		State struct {
			DBPath string `conf:"default:zblock/blocks"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "luxcoin proof of work miner",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "MINER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Miner.Difficulty > pow.MaxZeroBits {
		return fmt.Errorf("difficulty %d: %w", cfg.Miner.Difficulty, pow.ErrTargetOutOfRange)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	// Every event raised while mining carries the id of this run so the logs
	// of separate runs against the same database can be told apart.
	traceID := uuid.NewString()
	ev := logger.EvHandler(log.With("traceid", traceID))

	disk, err := storage.NewDisk(cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("opening block storage: %w", err)
	}
	defer disk.Close()

	m, err := miner.New(miner.Config{
		Serializer:  disk,
		Beneficiary: database.Address(cfg.Miner.Beneficiary),
		Reward:      database.Amount(cfg.Miner.Reward),
		Difficulty:  cfg.Miner.Difficulty,
		Workers:     cfg.Miner.Workers,
		EvHandler:   ev,
	})
	if err != nil {
		return fmt.Errorf("unable to load the chain: %w", err)
	}

	log.Infow("startup", "status", "chain loaded", "traceid", traceID, "height", m.Height(), "latest", m.LatestBlock().Hash().String())

	// =========================================================================
	// Start Mining

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Miner.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Miner.Timeout)
		defer cancel()
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the miner.
	minerErrors := make(chan error, 1)

	go func() {
		log.Infow("startup", "status", "miner started", "beneficiary", cfg.Miner.Beneficiary, "difficulty", cfg.Miner.Difficulty)
		minerErrors <- m.Run(ctx, cfg.Miner.Blocks)
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-minerErrors:
		if err != nil {
			return fmt.Errorf("miner error: %w", err)
		}

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		cancel()
		if err := <-minerErrors; err != nil {
			return fmt.Errorf("miner error: %w", err)
		}
	}

	log.Infow("shutdown", "status", "mining stopped", "height", m.Height(), "latest", m.LatestBlock().Hash().String())

	return nil
}
