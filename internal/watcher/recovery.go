package watcher

import (
	"context"
	"errors"
	"fmt"

	"token-tools-go/internal/models"
	"token-tools-go/internal/store"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const errInterrupted = "interrupted before broadcast"

// performStartupRecovery settles journal entries left pending or
// confirming by a previous run
func (w *Watcher) performStartupRecovery(ctx context.Context) error {
	if w.journal == nil || w.receipts == nil {
		return nil
	}

	zap.L().Info("Starting startup recovery process")

	entries, err := w.journal.ListUnsettled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unsettled journal entries: %w", err)
	}

	var settled, waiting int
	for _, entry := range entries {
		done, err := w.settleEntry(ctx, entry)
		if err != nil {
			zap.L().Error("Failed to settle journal entry",
				zap.String("id", entry.Id),
				zap.String("tx_hash", entry.TxHash),
				zap.Error(err))
			continue
		}
		if done {
			settled++
		} else {
			waiting++
		}
	}

	zap.L().Info("Startup recovery completed",
		zap.Int("unsettled", len(entries)),
		zap.Int("settled", settled),
		zap.Int("still_waiting", waiting))

	return nil
}

// settleEntry updates entry from its receipt. It returns false when the
// transaction is not mined yet.
func (w *Watcher) settleEntry(ctx context.Context, entry models.JournalEntry) (bool, error) {
	if entry.TxHash == "" {
		err := w.journal.UpdateEntry(ctx, store.UpdateEntryParams{
			Id:     entry.Id,
			Status: models.JournalStatusFailed,
			Error:  errInterrupted,
		})
		return err == nil, err
	}

	receipt, err := w.receipts.TransactionReceipt(ctx, ethcommon.HexToHash(entry.TxHash))
	if errors.Is(err, ethereum.NotFound) {
		zap.L().Info("Journal entry still waiting for receipt",
			zap.String("id", entry.Id),
			zap.String("tx_hash", entry.TxHash))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get receipt: %w", err)
	}

	params := store.UpdateEntryParams{
		Id:          entry.Id,
		Status:      models.JournalStatusSuccess,
		BlockNumber: receipt.BlockNumber.Uint64(),
	}
	if receipt.Status == types.ReceiptStatusFailed {
		params.Status = models.JournalStatusReverted
		params.Error = "transaction reverted"
	}

	if err := w.journal.UpdateEntry(ctx, params); err != nil {
		return false, err
	}

	zap.L().Info("Settled journal entry",
		zap.String("id", entry.Id),
		zap.String("tx_hash", entry.TxHash),
		zap.String("status", params.Status),
		zap.Uint64("block", params.BlockNumber))
	return true, nil
}
