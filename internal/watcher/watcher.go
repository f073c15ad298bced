package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"token-tools-go/internal/common"
	"token-tools-go/internal/models"
	"token-tools-go/internal/store"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// LockSource produces lock summaries for one locker tool
type LockSource interface {
	Tool() string
	Enabled() bool
	Fetch(ctx context.Context, owner ethcommon.Address) models.LockSummary
}

// VestingSource produces vesting summaries
type VestingSource interface {
	Enabled() bool
	Fetch(ctx context.Context, beneficiary ethcommon.Address) models.VestingSummary
}

// ReceiptReader looks up mined transactions for startup recovery
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}

// Config contains configuration for Watcher
type Config struct {
	Locks    []LockSource
	Vestings VestingSource
	Journal  store.TxJournal
	Receipts ReceiptReader
	Features models.FeatureConfig

	PollingInterval time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
}

// Watcher periodically refreshes lock and vesting summaries for watched
// addresses and keeps the latest snapshot of each
type Watcher struct {
	locks    []LockSource
	vestings VestingSource
	journal  store.TxJournal
	receipts ReceiptReader
	features models.FeatureConfig

	pollingInterval time.Duration
	cleanupInterval time.Duration
	retention       time.Duration

	mutex     sync.RWMutex
	watchlist map[string]ethcommon.Address
	tracked   map[string]time.Time
	snapshots map[string]*Snapshot

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewWatcher creates a new watcher
func NewWatcher(cfg Config) *Watcher {
	if cfg.PollingInterval <= 0 {
		cfg.PollingInterval = 30 * time.Second
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 15 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 6 * time.Hour
	}
	return &Watcher{
		locks:           cfg.Locks,
		vestings:        cfg.Vestings,
		journal:         cfg.Journal,
		receipts:        cfg.Receipts,
		features:        cfg.Features,
		pollingInterval: cfg.PollingInterval,
		cleanupInterval: cfg.CleanupInterval,
		retention:       cfg.Retention,
		watchlist:       make(map[string]ethcommon.Address),
		tracked:         make(map[string]time.Time),
		snapshots:       make(map[string]*Snapshot),
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start loads the watchlist, settles journal entries left in flight and
// begins polling. A missing watchlist file is not an error: addresses can
// still be tracked on demand.
func (w *Watcher) Start(ctx context.Context, watchlistFile string) error {
	zap.L().Info("Starting watcher")

	if err := w.loadWatchlist(watchlistFile); err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	if err := w.performStartupRecovery(ctx); err != nil {
		zap.L().Error("Startup recovery failed", zap.Error(err))
		return fmt.Errorf("startup recovery failed: %w", err)
	}

	go w.pollLoop(ctx)
	go w.cleanupLoop(ctx)

	zap.L().Info("Watcher started successfully",
		zap.Int("watched_addresses", len(w.addresses())),
		zap.Duration("polling_interval", w.pollingInterval),
		zap.Duration("retention", w.retention))

	return nil
}

// Stop gracefully stops the watcher
func (w *Watcher) Stop() {
	zap.L().Info("Stopping watcher")
	close(w.stopChan)
	<-w.doneChan
	zap.L().Info("Watcher stopped")
}

func (w *Watcher) loadWatchlist(watchlistFile string) error {
	if watchlistFile == "" {
		return nil
	}

	addresses, err := common.LoadWatchlist(watchlistFile)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("Watchlist file not found, only on-demand addresses will be refreshed",
			zap.String("file", watchlistFile))
		return nil
	}
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, address := range addresses {
		w.watchlist[addressKey(address)] = address
	}

	if len(addresses) == 0 {
		zap.L().Warn("Watchlist is empty", zap.String("file", watchlistFile))
	}
	return nil
}

// Track adds address to the refresh set until it has not been requested
// for the retention period
func (w *Watcher) Track(address ethcommon.Address) {
	if address == (ethcommon.Address{}) {
		return
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.tracked[addressKey(address)] = time.Now().UTC()
}

// addresses returns the watchlist plus tracked addresses
func (w *Watcher) addresses() []ethcommon.Address {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	all := make([]ethcommon.Address, 0, len(w.watchlist)+len(w.tracked))
	for _, address := range w.watchlist {
		all = append(all, address)
	}
	for key := range w.tracked {
		if _, listed := w.watchlist[key]; !listed {
			all = append(all, ethcommon.HexToAddress(key))
		}
	}
	return all
}

// pollLoop runs the main polling loop
func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.pollingInterval)
	defer ticker.Stop()

	w.pollAddresses(ctx)

	for {
		select {
		case <-ticker.C:
			w.pollAddresses(ctx)
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// cleanupLoop periodically forgets addresses that stopped being requested
func (w *Watcher) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.cleanupTracked()
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// cleanupTracked drops tracked addresses and their snapshots once they
// are older than the retention window. Watchlist addresses are kept.
func (w *Watcher) cleanupTracked() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	cutoff := time.Now().UTC().Add(-w.retention)
	cleaned := 0

	for key, lastSeen := range w.tracked {
		if lastSeen.After(cutoff) {
			continue
		}
		delete(w.tracked, key)
		if _, listed := w.watchlist[key]; listed {
			continue
		}
		for snapshotKey := range w.snapshots {
			if strings.HasSuffix(snapshotKey, ":"+key) {
				delete(w.snapshots, snapshotKey)
			}
		}
		cleaned++
	}

	if cleaned > 0 {
		zap.L().Debug("Cleaned up stale tracked addresses",
			zap.Int("cleaned", cleaned),
			zap.Int("remaining", len(w.tracked)))
	}
}

func addressKey(address ethcommon.Address) string {
	return strings.ToLower(address.Hex())
}
