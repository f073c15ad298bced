package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"token-tools-go/internal/models"
	"token-tools-go/internal/store"
)

func setupTestDb(t *testing.T) (*JournalService, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	service := NewJournalService(db)

	// Use the actual schema initialization
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func createWithdrawEntry(t *testing.T, service *JournalService, lockId string) *models.JournalEntry {
	t.Helper()
	entry, err := service.CreateEntry(context.Background(), store.CreateEntryParams{
		Action:   models.ActionWithdraw,
		Contract: "0x0000000000000000000000000000000000000101",
		Method:   "withdraw",
		Args:     lockId,
		Origin:   "cli",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	return entry
}

func TestCreateEntry(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	entry := createWithdrawEntry(t, service, "7")

	if entry.Id == "" {
		t.Errorf("Expected generated id")
	}
	if entry.Status != models.JournalStatusPending {
		t.Errorf("Expected status %s, got %s", models.JournalStatusPending, entry.Status)
	}
	if entry.TxHash != "" {
		t.Errorf("Expected empty tx hash, got %s", entry.TxHash)
	}
	if entry.Args != "7" || entry.Origin != "cli" {
		t.Errorf("Unexpected args/origin: %q %q", entry.Args, entry.Origin)
	}
}

func TestCreateEntry_RequiresMethod(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.CreateEntry(context.Background(), store.CreateEntryParams{Action: models.ActionClaim})
	if err == nil {
		t.Fatalf("Expected error for entry without method")
	}
}

func TestUpdateEntry_Lifecycle(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	entry := createWithdrawEntry(t, service, "1")

	err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: entry.Id, Status: models.JournalStatusConfirming, TxHash: "0xaaa"})
	if err != nil {
		t.Fatalf("UpdateEntry confirming failed: %v", err)
	}

	// empty hash keeps the recorded one
	err = service.UpdateEntry(ctx, store.UpdateEntryParams{Id: entry.Id, Status: models.JournalStatusSuccess, BlockNumber: 99})
	if err != nil {
		t.Fatalf("UpdateEntry success failed: %v", err)
	}

	got, err := service.GetEntry(ctx, entry.Id)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.TxHash != "0xaaa" {
		t.Errorf("Expected tx hash 0xaaa, got %s", got.TxHash)
	}
	if got.BlockNumber != 99 {
		t.Errorf("Expected block 99, got %d", got.BlockNumber)
	}
	if !got.IsSettled() {
		t.Errorf("Expected entry to be settled, status %s", got.Status)
	}

	byHash, err := service.GetEntryByHash(ctx, "0xAAA")
	if err != nil {
		t.Fatalf("GetEntryByHash failed: %v", err)
	}
	if byHash.Id != entry.Id {
		t.Errorf("Expected entry %s by hash, got %s", entry.Id, byHash.Id)
	}
}

func TestUpdateEntry_DuplicateHash(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	first := createWithdrawEntry(t, service, "1")
	second := createWithdrawEntry(t, service, "2")

	if err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: first.Id, Status: models.JournalStatusConfirming, TxHash: "0xdup"}); err != nil {
		t.Fatalf("First UpdateEntry failed: %v", err)
	}

	err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: second.Id, Status: models.JournalStatusConfirming, TxHash: "0xdup"})
	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("Expected duplicate transaction error, got: %v", err)
	}

	// re-recording the same hash on the same entry is allowed
	if err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: first.Id, Status: models.JournalStatusSuccess, TxHash: "0xdup"}); err != nil {
		t.Errorf("Expected same-entry update to succeed, got: %v", err)
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	err := service.UpdateEntry(context.Background(), store.UpdateEntryParams{Id: "missing", Status: models.JournalStatusFailed})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got: %v", err)
	}

	_, err = service.GetEntry(context.Background(), "missing")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound from GetEntry, got: %v", err)
	}
}

func TestListEntries_EmptyJournal(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	entries, err := service.ListEntries(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if entries == nil {
		t.Fatal("Expected an empty slice, got nil")
	}
	body, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("Expected [], got %s", body)
	}

	unsettled, err := service.ListUnsettled(ctx)
	if err != nil {
		t.Fatalf("ListUnsettled failed: %v", err)
	}
	if unsettled == nil || len(unsettled) != 0 {
		t.Errorf("Expected an empty slice, got %v", unsettled)
	}
}

func TestListEntries_NewestFirst(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	var ids []string
	for _, lockId := range []string{"1", "2", "3"} {
		ids = append(ids, createWithdrawEntry(t, service, lockId).Id)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := service.ListEntries(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Id != ids[2] || entries[1].Id != ids[1] {
		t.Errorf("Unexpected order: %s, %s", entries[0].Id, entries[1].Id)
	}

	rest, err := service.ListEntries(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListEntries offset failed: %v", err)
	}
	if len(rest) != 1 || rest[0].Id != ids[0] {
		t.Errorf("Expected oldest entry on second page, got %v", rest)
	}
}

func TestListUnsettled(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	pending := createWithdrawEntry(t, service, "1")
	confirming := createWithdrawEntry(t, service, "2")
	done := createWithdrawEntry(t, service, "3")

	if err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: confirming.Id, Status: models.JournalStatusConfirming, TxHash: "0x02"}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if err := service.UpdateEntry(ctx, store.UpdateEntryParams{Id: done.Id, Status: models.JournalStatusReverted, TxHash: "0x03"}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	entries, err := service.ListUnsettled(ctx)
	if err != nil {
		t.Fatalf("ListUnsettled failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 unsettled entries, got %d", len(entries))
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Id] = true
	}
	if !seen[pending.Id] || !seen[confirming.Id] {
		t.Errorf("Unexpected unsettled set: %v", seen)
	}
}
