package store

import (
	"context"
	"errors"

	"token-tools-go/internal/models"
)

// Sentinel errors shared across journal implementations.
var (
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrEntryNotFound        = errors.New("journal entry not found")
)

// CreateEntryParams describes a write call about to be signed.
type CreateEntryParams struct {
	Action   string
	Contract string
	Method   string
	Args     string
	Origin   string // cli, api:<ip>
}

// UpdateEntryParams moves an entry to a new status. An empty TxHash keeps
// the stored hash.
type UpdateEntryParams struct {
	Id          string
	Status      string
	TxHash      string
	BlockNumber uint64
	Error       string
}

// TxJournal is the audit trail of submitted write calls.
type TxJournal interface {
	CreateEntry(ctx context.Context, params CreateEntryParams) (*models.JournalEntry, error)
	UpdateEntry(ctx context.Context, params UpdateEntryParams) error
	GetEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	GetEntryByHash(ctx context.Context, txHash string) (*models.JournalEntry, error)
	ListEntries(ctx context.Context, limit, offset int) ([]models.JournalEntry, error)
	ListUnsettled(ctx context.Context) ([]models.JournalEntry, error)

	Close()
}
