package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"token-tools-go/internal/format"
	"token-tools-go/internal/models"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ANSI color helpers for console output.
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// Snapshot is the last fetched state of one tool for one address
type Snapshot struct {
	Tool      string
	Address   ethcommon.Address
	Locks     *models.LockSummary
	Vestings  *models.VestingSummary
	FetchedAt time.Time
}

// LockSnapshot returns the latest lock summary of owner for tool
func (w *Watcher) LockSnapshot(tool string, owner ethcommon.Address) (models.LockSummary, time.Time, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	s, ok := w.snapshots[snapshotKey(tool, owner)]
	if !ok || s.Locks == nil {
		return models.LockSummary{}, time.Time{}, false
	}
	return *s.Locks, s.FetchedAt, true
}

// VestingSnapshot returns the latest vesting summary of beneficiary
func (w *Watcher) VestingSnapshot(beneficiary ethcommon.Address) (models.VestingSummary, time.Time, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	s, ok := w.snapshots[snapshotKey(models.ToolVesting, beneficiary)]
	if !ok || s.Vestings == nil {
		return models.VestingSummary{}, time.Time{}, false
	}
	return *s.Vestings, s.FetchedAt, true
}

// StoreLocks records a lock summary. The last write wins; fetches are not
// ordered against each other.
func (w *Watcher) StoreLocks(tool string, summary models.LockSummary) {
	w.store(&Snapshot{Tool: tool, Address: summary.Owner, Locks: &summary, FetchedAt: time.Now().UTC()})
}

// StoreVestings records a vesting summary, last write wins
func (w *Watcher) StoreVestings(summary models.VestingSummary) {
	w.store(&Snapshot{Tool: models.ToolVesting, Address: summary.Beneficiary, Vestings: &summary, FetchedAt: time.Now().UTC()})
}

func (w *Watcher) store(s *Snapshot) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.snapshots[snapshotKey(s.Tool, s.Address)] = s
}

// Refresh fetches every enabled, released tool for address and stores the
// results
func (w *Watcher) Refresh(ctx context.Context, address ethcommon.Address) {
	if address == (ethcommon.Address{}) {
		return
	}

	for _, source := range w.locks {
		if !source.Enabled() || w.features.ComingSoon(source.Tool()) {
			continue
		}
		summary := source.Fetch(ctx, address)
		w.StoreLocks(source.Tool(), summary)
		fmt.Printf("  %s✓ %s %s: %d locks, %d unlockable%s\n",
			colorGreen, source.Tool(), format.ShortAddress(address.Hex()),
			summary.TotalLocks, summary.TotalUnlock, colorReset)
	}

	if w.vestings != nil && w.vestings.Enabled() && !w.features.ComingSoon(models.ToolVesting) {
		summary := w.vestings.Fetch(ctx, address)
		w.StoreVestings(summary)
		fmt.Printf("  %s✓ %s %s: %d schedules, %d claimable%s\n",
			colorGreen, models.ToolVesting, format.ShortAddress(address.Hex()),
			summary.TotalSchedules, summary.ClaimableCount, colorReset)
	}
}

// RefreshFunc returns a callback that refreshes address once, suitable as
// a submitter success hook
func (w *Watcher) RefreshFunc(ctx context.Context, address ethcommon.Address) func() {
	return func() {
		zap.L().Debug("Refreshing after confirmed transaction", zap.String("address", address.Hex()))
		w.Refresh(context.WithoutCancel(ctx), address)
	}
}

// pollAddresses refreshes all watched addresses concurrently
func (w *Watcher) pollAddresses(ctx context.Context) {
	addresses := w.addresses()
	if len(addresses) == 0 {
		fmt.Printf("\n%s[%s] No addresses to refresh%s\n", colorGray, time.Now().Format("15:04:05"), colorReset)
		return
	}

	fmt.Printf("\n%s[%s] Refreshing %d addresses%s\n",
		colorCyan, time.Now().Format("15:04:05"), len(addresses), colorReset)

	var wg sync.WaitGroup

	for _, address := range addresses {
		wg.Add(1)

		go func(a ethcommon.Address) {
			defer wg.Done()
			w.Refresh(ctx, a)
		}(address)
	}

	wg.Wait()
}

func snapshotKey(tool string, address ethcommon.Address) string {
	return tool + ":" + addressKey(address)
}
