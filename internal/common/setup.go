package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"token-tools-go/internal/aggregator"
	"token-tools-go/internal/chain"
	"token-tools-go/internal/config"
	"token-tools-go/internal/contracts"
	"token-tools-go/internal/database"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Chain          models.ChainDefinition
	Client         *chain.MultiClient
	Reader         *contracts.Reader
	TokenLocks     *aggregator.LockAggregator
	LiquidityLocks *aggregator.LockAggregator
	Vestings       *aggregator.VestingAggregator
	DbService      *database.Service
	Submitter      *submitter.Submitter
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices connects to the chain and the journal and builds the
// aggregators and the submitter
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	def, err := config.ResolveChain(cfg.Chain)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Connecting to chain",
		zap.String("chain", def.Name),
		zap.Uint64("chain_id", def.Id),
		zap.Int("rpc_urls", len(def.RpcUrls)))

	client, err := chain.NewMultiClient(ctx, def, chain.RetryConfigFrom(cfg.Chain))
	if err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		client.Close()
		return nil, err
	}

	opts, err := submitter.NewTransactor(cfg.Signer.PrivateKey, new(big.Int).SetUint64(def.Id))
	if errors.Is(err, submitter.ErrNoSigner) {
		zap.L().Warn("SIGNER_PRIVATE_KEY not set, write actions are disabled")
	} else if err != nil {
		dbService.Close()
		client.Close()
		return nil, err
	} else {
		zap.L().Info("Using signer", zap.String("address", opts.From.Hex()))
	}

	reader := contracts.NewReader(client)

	return &Services{
		Chain:          def,
		Client:         client,
		Reader:         reader,
		TokenLocks:     aggregator.NewLockAggregator(models.ToolTokenLocker, reader, cfg.Contracts.TokenLocker),
		LiquidityLocks: aggregator.NewLockAggregator(models.ToolLiquidityLocker, reader, cfg.Contracts.LiquidityLocker),
		Vestings:       aggregator.NewVestingAggregator(reader, cfg.Contracts.VestingFactory),
		DbService:      dbService,
		Submitter:      submitter.New(client, opts, dbService, cfg.Submitter),
	}, nil
}

// InitializeDatabaseOnly initializes just the journal without dialing the chain
// Useful for read-only operations like listing the journal
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

// LockTool returns the lock aggregator serving tool
func (cs *Services) LockTool(tool string) (*aggregator.LockAggregator, error) {
	switch tool {
	case models.ToolTokenLocker:
		return cs.TokenLocks, nil
	case models.ToolLiquidityLocker:
		return cs.LiquidityLocks, nil
	}
	return nil, fmt.Errorf("unknown lock tool %q, expected %s or %s", tool, models.ToolTokenLocker, models.ToolLiquidityLocker)
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
	if cs.Client != nil {
		cs.Client.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
