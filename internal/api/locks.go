package api

import (
	"context"
	"math/big"

	"token-tools-go/internal/aggregator"
	"token-tools-go/internal/contracts"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const comingSoonMessage = "Coming soon"

// GetLocks lists the active locks of owner in the locker of tool. With
// cached set, a watcher snapshot is served when one exists.
func (s *ToolsService) GetLocks(ctx context.Context, tool string, owner common.Address, cached bool) (*models.LocksResponse, error) {
	agg, ok := s.locks[tool]
	if !ok {
		return nil, ErrUnknownTool
	}

	resp := &models.LocksResponse{Tool: tool, Owner: owner.Hex(), Locks: []models.LockView{}}
	if s.features.ComingSoon(tool) {
		resp.ComingSoon = true
		resp.Message = comingSoonMessage
		return resp, nil
	}

	summary := s.lockSummary(ctx, agg, owner, cached)

	state := s.CurrentTransaction()
	busy := s.busy()
	for _, row := range summary.Rows {
		resp.Locks = append(resp.Locks, s.lockView(row, state, busy))
	}
	resp.TotalLocks = summary.TotalLocks
	resp.TotalUnlock = summary.TotalUnlock
	return resp, nil
}

func (s *ToolsService) lockSummary(ctx context.Context, agg LockTool, owner common.Address, cached bool) models.LockSummary {
	if s.snapshots == nil {
		return agg.Fetch(ctx, owner)
	}

	s.snapshots.Track(owner)
	if cached {
		if summary, _, ok := s.snapshots.LockSnapshot(agg.Tool(), owner); ok {
			return summary
		}
	}

	summary := agg.Fetch(ctx, owner)
	s.snapshots.StoreLocks(agg.Tool(), summary)
	return summary
}

func (s *ToolsService) lockView(row models.LockRecord, state models.TransactionState, busy bool) models.LockView {
	lockId := row.LockId.String()
	return models.LockView{
		LockId:          lockId,
		Token:           row.Token.Hex(),
		TokenUrl:        format.ExplorerAddressURL(s.chain.ExplorerUrl, row.Token.Hex()),
		Symbol:          row.Symbol,
		Decimals:        row.Decimals,
		Amount:          format.SafeFormat(row.Remaining(), row.Decimals, row.Symbol),
		Withdrawable:    format.SafeFormat(row.Withdrawable, row.Decimals, row.Symbol),
		UnlockDate:      format.Time(row.UnlockDate),
		CanWithdraw:     aggregator.CanWithdraw(row, busy),
		WithdrawPending: state.InFlight() && state.Action == models.ActionWithdraw && state.Target == lockId,
	}
}

// Withdraw releases the withdrawable part of a lock owned by the signer
func (s *ToolsService) Withdraw(ctx context.Context, tool, lockId string) (*models.SubmitResponse, error) {
	agg, ok := s.locks[tool]
	if !ok {
		return nil, ErrUnknownTool
	}
	if err := s.checkWritable(tool); err != nil {
		return nil, err
	}
	if !agg.Enabled() {
		return nil, ErrToolDisabled
	}

	id, ok := new(big.Int).SetString(lockId, 10)
	if !ok || id.Sign() < 0 {
		return nil, ErrInvalidId
	}

	owner := s.submitter.From()
	summary := agg.Fetch(ctx, owner)
	var row *models.LockRecord
	for i := range summary.Rows {
		if summary.Rows[i].LockId.Cmp(id) == 0 {
			row = &summary.Rows[i]
			break
		}
	}
	if row == nil {
		return nil, ErrNotFound
	}
	if !aggregator.CanWithdraw(*row, s.busy()) {
		zap.L().Info("Withdraw refused",
			zap.String("tool", tool),
			zap.String("lock_id", lockId),
			zap.String("withdrawable", row.Withdrawable.String()))
		return nil, ErrNotActionable
	}

	return s.submit(ctx, submitterRequest(models.ActionWithdraw, lockId, agg.Locker(), &contracts.Locker, "withdraw", id))
}
