package aggregator

import (
	"context"
	"math/big"
	"strings"

	"token-tools-go/internal/contracts"
	"token-tools-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// LockReader is the subset of contract reads used to build a lock summary
type LockReader interface {
	LocksOf(ctx context.Context, locker, owner common.Address) ([]*big.Int, error)
	Lock(ctx context.Context, locker common.Address, id *big.Int) (contracts.LockInfo, contracts.DecodeStrategy, error)
	Withdrawable(ctx context.Context, locker common.Address, id *big.Int) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (int, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
}

// LockAggregator lists the active locks an owner holds in one locker contract
type LockAggregator struct {
	tool   string
	reader LockReader
	locker common.Address
}

// NewLockAggregator returns an aggregator for the locker at lockerAddress.
// An empty or malformed address leaves the aggregator disabled.
func NewLockAggregator(tool string, reader LockReader, lockerAddress string) *LockAggregator {
	a := &LockAggregator{tool: tool, reader: reader}
	if common.IsHexAddress(lockerAddress) {
		a.locker = common.HexToAddress(lockerAddress)
	} else if lockerAddress != "" {
		zap.L().Warn("Ignoring malformed locker address",
			zap.String("tool", tool),
			zap.String("address", lockerAddress))
	}
	return a
}

// Enabled reports whether a locker contract is configured
func (a *LockAggregator) Enabled() bool {
	return a.locker != (common.Address{})
}

func (a *LockAggregator) Tool() string {
	return a.tool
}

func (a *LockAggregator) Locker() common.Address {
	return a.locker
}

// Fetch reads every lock of owner one by one and keeps the active ones.
// Read failures never surface: enumeration errors give an empty summary,
// per-lock errors skip the lock and optional fields fall back to defaults.
func (a *LockAggregator) Fetch(ctx context.Context, owner common.Address) models.LockSummary {
	summary := models.LockSummary{Owner: owner, Rows: []models.LockRecord{}}
	if owner == (common.Address{}) || !a.Enabled() {
		return summary
	}

	ids, err := a.reader.LocksOf(ctx, a.locker, owner)
	if err != nil {
		zap.L().Warn("Unable to enumerate locks",
			zap.String("tool", a.tool),
			zap.String("owner", owner.Hex()),
			zap.Error(err))
		return summary
	}

	for _, id := range ids {
		record, ok := a.fetchLock(ctx, owner, id)
		if !ok || !record.IsActive() {
			continue
		}
		summary.Rows = append(summary.Rows, record)
		if record.HasWithdrawable() {
			summary.TotalUnlock++
		}
	}
	summary.TotalLocks = len(summary.Rows)

	zap.L().Debug("Locks aggregated",
		zap.String("tool", a.tool),
		zap.String("owner", owner.Hex()),
		zap.Int("ids", len(ids)),
		zap.Int("active", summary.TotalLocks),
		zap.Int("withdrawable", summary.TotalUnlock))

	return summary
}

func (a *LockAggregator) fetchLock(ctx context.Context, owner common.Address, id *big.Int) (models.LockRecord, bool) {
	info, strategy, err := a.reader.Lock(ctx, a.locker, id)
	if err != nil {
		zap.L().Warn("Unable to read lock, skipping",
			zap.String("tool", a.tool),
			zap.String("lock_id", id.String()),
			zap.Stringer("strategy", strategy),
			zap.Error(err))
		return models.LockRecord{}, false
	}

	if !strings.EqualFold(info.Owner.Hex(), owner.Hex()) {
		return models.LockRecord{}, false
	}

	withdrawable, err := a.reader.Withdrawable(ctx, a.locker, id)
	if err != nil {
		withdrawable = new(big.Int)
	}

	decimals, err := a.reader.Decimals(ctx, info.LpToken)
	if err != nil {
		decimals = models.DefaultTokenDecimals
	}

	symbol, err := a.reader.Symbol(ctx, info.LpToken)
	if err != nil {
		symbol = ""
	}

	return models.LockRecord{
		LockId:       id,
		Token:        info.LpToken,
		Amount:       info.Amount,
		Withdrawn:    info.Withdrawn,
		UnlockDate:   info.UnlockDate,
		Withdrawable: withdrawable,
		Decimals:     decimals,
		Symbol:       symbol,
	}, true
}

// CanWithdraw reports whether the withdraw action is available for row
func CanWithdraw(row models.LockRecord, busy bool) bool {
	return !busy && row.HasWithdrawable()
}
