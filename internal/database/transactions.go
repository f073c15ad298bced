package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"token-tools-go/internal/models"
	"token-tools-go/internal/store"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	var txHash sql.NullString
	var blockNumber int64
	err := row.Scan(&entry.Id, &entry.Action, &entry.Contract, &entry.Method, &entry.Args,
		&txHash, &entry.Status, &blockNumber, &entry.Error, &entry.Origin,
		&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.TxHash = txHash.String
	entry.BlockNumber = uint64(blockNumber)
	return &entry, nil
}

// CreateEntry records a write call in pending state before it is signed
func (s *JournalService) CreateEntry(ctx context.Context, params store.CreateEntryParams) (*models.JournalEntry, error) {
	if params.Action == "" || params.Method == "" {
		return nil, fmt.Errorf("journal entry requires action and method")
	}

	now := time.Now().UTC()
	entry, err := scanEntry(s.db.QueryRowContext(ctx, queryInsertEntry,
		uuid.New().String(), params.Action, params.Contract, params.Method, params.Args,
		models.JournalStatusPending, params.Origin, now, now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert journal entry: %w", err)
	}

	zap.L().Info("Journal entry created",
		zap.String("id", entry.Id),
		zap.String("action", entry.Action),
		zap.String("contract", entry.Contract),
		zap.String("args", entry.Args))

	return entry, nil
}

// UpdateEntry moves an entry to a new status. A hash already recorded on
// another entry is rejected with ErrDuplicateTransaction.
func (s *JournalService) UpdateEntry(ctx context.Context, params store.UpdateEntryParams) error {
	if params.TxHash != "" {
		var existingId string
		err := s.db.QueryRowContext(ctx, queryCheckDuplicateHash, params.TxHash, params.Id).Scan(&existingId)
		if err == nil {
			zap.L().Warn("Duplicate transaction hash detected, skipping",
				zap.String("tx_hash", params.TxHash),
				zap.String("existing_entry_id", existingId))
			return fmt.Errorf("%w: tx_hash %s already recorded", ErrDuplicateTransaction, params.TxHash)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check for duplicate transaction: %w", err)
		}
	}

	result, err := s.db.ExecContext(ctx, queryUpdateEntry,
		params.Status, params.TxHash, int64(params.BlockNumber), params.Error, time.Now().UTC(), params.Id)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, params.Id)
	}

	zap.L().Info("Journal entry updated",
		zap.String("id", params.Id),
		zap.String("status", params.Status),
		zap.String("tx_hash", params.TxHash))

	return nil
}

func (s *JournalService) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, queryGetEntryById, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return entry, nil
}

func (s *JournalService) GetEntryByHash(ctx context.Context, txHash string) (*models.JournalEntry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, queryGetEntryByHash, txHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tx_hash %s", ErrEntryNotFound, txHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry by hash: %w", err)
	}
	return entry, nil
}

// ListEntries returns the journal newest first
func (s *JournalService) ListEntries(ctx context.Context, limit, offset int) ([]models.JournalEntry, error) {
	zap.L().Debug("Listing journal entries",
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	rows, err := s.db.QueryContext(ctx, queryListEntries, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return collectEntries(rows)
}

// ListUnsettled returns entries still pending or confirming, oldest first
func (s *JournalService) ListUnsettled(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryListUnsettled)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled journal entries: %w", err)
	}
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	entries := []models.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, nil
}
