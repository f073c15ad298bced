package submitter

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"sync"

	"token-tools-go/internal/models"
	"token-tools-go/internal/store"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend accepts any transaction and mines it after pendingPolls
// receipt lookups
type fakeBackend struct {
	mu           sync.Mutex
	sendErr      error
	status       uint64
	pendingPolls int
	polls        int
	sent         []*types.Transaction
}

func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(1)}, nil
}

func (b *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 50000, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *fakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++
	if b.polls <= b.pendingPolls {
		return nil, ethereum.NotFound
	}
	for _, tx := range b.sent {
		if tx.Hash() == hash {
			return &types.Receipt{Status: b.status, TxHash: hash, BlockNumber: big.NewInt(123)}, nil
		}
	}
	return nil, ethereum.NotFound
}

// memoryJournal keeps journal entries in a map
type memoryJournal struct {
	mu      sync.Mutex
	entries map[string]*models.JournalEntry
	next    int
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{entries: make(map[string]*models.JournalEntry)}
}

func (j *memoryJournal) CreateEntry(_ context.Context, p store.CreateEntryParams) (*models.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.next++
	e := &models.JournalEntry{
		Id: "entry-" + strconv.Itoa(j.next), Action: p.Action, Contract: p.Contract,
		Method: p.Method, Args: p.Args, Origin: p.Origin, Status: models.JournalStatusPending,
	}
	j.entries[e.Id] = e
	copied := *e
	return &copied, nil
}

func (j *memoryJournal) UpdateEntry(_ context.Context, p store.UpdateEntryParams) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[p.Id]
	if !ok {
		return store.ErrEntryNotFound
	}
	e.Status = p.Status
	if p.TxHash != "" {
		e.TxHash = p.TxHash
	}
	e.BlockNumber = p.BlockNumber
	e.Error = p.Error
	return nil
}

func (j *memoryJournal) GetEntry(_ context.Context, id string) (*models.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[id]
	if !ok {
		return nil, store.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (j *memoryJournal) GetEntryByHash(context.Context, string) (*models.JournalEntry, error) {
	return nil, store.ErrEntryNotFound
}

func (j *memoryJournal) ListEntries(context.Context, int, int) ([]models.JournalEntry, error) {
	return nil, nil
}

func (j *memoryJournal) ListUnsettled(context.Context) ([]models.JournalEntry, error) {
	return nil, nil
}

func (j *memoryJournal) Close() {}
