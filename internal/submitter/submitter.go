package submitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"token-tools-go/internal/chain"
	"token-tools-go/internal/models"
	"token-tools-go/internal/store"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var (
	ErrNoSigner = errors.New("no signer configured")
	ErrBusy     = errors.New("another transaction is in flight")

	// ErrUnconfirmed means the receipt wait ended before the transaction
	// was mined. The journal entry stays confirming.
	ErrUnconfirmed = errors.New("transaction sent but not confirmed")
)

// Backend is what the submitter needs from the node
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Request describes one contract write
type Request struct {
	Action   string
	Target   string // human id of the object acted upon, e.g. the lock id
	Contract common.Address
	ABI      *abi.ABI
	Method   string
	Args     []interface{}
	// OnSuccess runs once after the transaction is mined successfully
	OnSuccess func()
}

// Submitter signs, sends and confirms writes, one tracked operation at a
// time. Starting a write replaces the tracked state of the previous one.
type Submitter struct {
	backend Backend
	journal store.TxJournal
	opts    *bind.TransactOpts
	cfg     models.SubmitterConfig

	mu    sync.RWMutex
	op    uint64
	state models.TransactionState
}

// New returns a submitter. A nil opts disables writes; a nil journal skips
// the audit trail.
func New(backend Backend, opts *bind.TransactOpts, journal store.TxJournal, cfg models.SubmitterConfig) *Submitter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 2 * time.Minute
	}
	return &Submitter{backend: backend, opts: opts, journal: journal, cfg: cfg}
}

// CanSign reports whether a signer is configured
func (s *Submitter) CanSign() bool {
	return s.opts != nil
}

// From returns the signer address, zero when writes are disabled
func (s *Submitter) From() common.Address {
	if s.opts == nil {
		return common.Address{}
	}
	return s.opts.From
}

// State returns a copy of the tracked operation
func (s *Submitter) State() models.TransactionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Busy reports whether the tracked operation is pending or confirming
func (s *Submitter) Busy() bool {
	return s.State().InFlight()
}

// Submit sends the write and waits for its receipt
func (s *Submitter) Submit(ctx context.Context, req Request) (models.TransactionState, error) {
	op, err := s.send(ctx, req)
	if err != nil {
		return s.State(), err
	}
	err = op.confirm(ctx)
	return op.snapshot(), err
}

// SubmitAsync sends the write and returns once the hash is known. The
// receipt is awaited in the background; follow progress through State.
func (s *Submitter) SubmitAsync(ctx context.Context, req Request) (models.TransactionState, error) {
	op, err := s.send(ctx, req)
	if err != nil {
		return s.State(), err
	}
	go func() {
		if err := op.confirm(context.WithoutCancel(ctx)); err != nil {
			zap.L().Debug("Background confirmation ended with error", zap.Error(err))
		}
	}()
	return op.snapshot(), nil
}

// operation is one write from signing to receipt
type operation struct {
	s       *Submitter
	id      uint64
	req     Request
	tx      *types.Transaction
	once    sync.Once
	journal string
}

func (s *Submitter) send(ctx context.Context, req Request) (*operation, error) {
	if s.opts == nil {
		return nil, ErrNoSigner
	}
	if req.ABI == nil {
		return nil, fmt.Errorf("no ABI for %s", req.Method)
	}

	s.mu.Lock()
	s.op++
	op := &operation{s: s, id: s.op, req: req}
	s.state = models.TransactionState{Action: req.Action, Target: req.Target, Pending: true}
	s.mu.Unlock()

	zap.L().Info("Submitting transaction",
		zap.String("action", req.Action),
		zap.String("target", req.Target),
		zap.String("contract", req.Contract.Hex()),
		zap.String("method", req.Method))

	op.record(ctx)

	opts := *s.opts
	opts.Context = ctx
	contract := bind.NewBoundContract(req.Contract, *req.ABI, s.backend, s.backend, s.backend)
	tx, err := contract.Transact(&opts, req.Method, req.Args...)
	if err != nil {
		op.fail(ctx, models.JournalStatusFailed, 0, err)
		return nil, fmt.Errorf("unable to send %s: %w", req.Method, err)
	}
	op.tx = tx

	op.update(func(st *models.TransactionState) {
		st.Pending = false
		st.Confirming = true
		st.Hash = tx.Hash().Hex()
	})
	op.journalUpdate(ctx, store.UpdateEntryParams{Status: models.JournalStatusConfirming, TxHash: tx.Hash().Hex()})

	zap.L().Info("Transaction sent",
		zap.String("action", req.Action),
		zap.String("hash", tx.Hash().Hex()))

	return op, nil
}

func (op *operation) confirm(ctx context.Context) error {
	cfg := op.s.cfg
	receipt, err := chain.Confirm(ctx, op.s.backend, op.tx.Hash(), cfg.PollInterval, cfg.ConfirmTimeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			op.unconfirmed(err)
			return fmt.Errorf("%w: %w", ErrUnconfirmed, err)
		}
		status := models.JournalStatusFailed
		var block uint64
		if errors.Is(err, chain.ErrReverted) {
			status = models.JournalStatusReverted
			block = receipt.BlockNumber.Uint64()
		}
		op.fail(ctx, status, block, err)
		return err
	}

	block := receipt.BlockNumber.Uint64()
	op.update(func(st *models.TransactionState) {
		st.Confirming = false
		st.Success = true
		st.BlockNumber = block
	})
	op.journalUpdate(ctx, store.UpdateEntryParams{Status: models.JournalStatusSuccess, BlockNumber: block})

	zap.L().Info("Transaction confirmed",
		zap.String("action", op.req.Action),
		zap.String("hash", op.tx.Hash().Hex()),
		zap.Uint64("block", block))

	op.once.Do(func() {
		if op.req.OnSuccess != nil {
			op.req.OnSuccess()
		}
	})
	return nil
}

func (op *operation) fail(ctx context.Context, status string, block uint64, cause error) {
	zap.L().Error("Transaction failed",
		zap.String("action", op.req.Action),
		zap.String("target", op.req.Target),
		zap.String("status", status),
		zap.Error(cause))

	op.update(func(st *models.TransactionState) {
		st.Pending = false
		st.Confirming = false
		st.Failed = true
		st.BlockNumber = block
		st.Error = cause.Error()
	})
	op.journalUpdate(ctx, store.UpdateEntryParams{Status: status, BlockNumber: block, Error: cause.Error()})
}

// unconfirmed stops tracking a sent transaction whose receipt did not arrive
// in time. The journal entry is left confirming for startup recovery.
func (op *operation) unconfirmed(cause error) {
	zap.L().Warn("Transaction not confirmed yet",
		zap.String("action", op.req.Action),
		zap.String("target", op.req.Target),
		zap.String("hash", op.tx.Hash().Hex()),
		zap.Error(cause))

	op.update(func(st *models.TransactionState) {
		st.Pending = false
		st.Confirming = false
		st.Error = cause.Error()
	})
}

// update mutates the tracked state unless a newer write replaced it
func (op *operation) update(fn func(*models.TransactionState)) {
	op.s.mu.Lock()
	defer op.s.mu.Unlock()
	if op.s.op != op.id {
		return
	}
	fn(&op.s.state)
}

func (op *operation) snapshot() models.TransactionState {
	op.s.mu.RLock()
	defer op.s.mu.RUnlock()
	if op.s.op != op.id {
		return models.TransactionState{Action: op.req.Action, Target: op.req.Target, JournalId: op.journal}
	}
	return op.s.state
}

func (op *operation) record(ctx context.Context) {
	if op.s.journal == nil {
		return
	}
	entry, err := op.s.journal.CreateEntry(ctx, store.CreateEntryParams{
		Action:   op.req.Action,
		Contract: op.req.Contract.Hex(),
		Method:   op.req.Method,
		Args:     FormatArgs(op.req.Args),
		Origin:   models.OriginFrom(ctx),
	})
	if err != nil {
		zap.L().Warn("Unable to journal transaction", zap.String("action", op.req.Action), zap.Error(err))
		return
	}
	op.journal = entry.Id
	op.update(func(st *models.TransactionState) { st.JournalId = entry.Id })
}

func (op *operation) journalUpdate(ctx context.Context, params store.UpdateEntryParams) {
	if op.s.journal == nil || op.journal == "" {
		return
	}
	params.Id = op.journal
	if err := op.s.journal.UpdateEntry(context.WithoutCancel(ctx), params); err != nil {
		zap.L().Warn("Unable to update journal entry",
			zap.String("id", op.journal),
			zap.String("status", params.Status),
			zap.Error(err))
	}
}

// FormatArgs renders call arguments for the journal
func FormatArgs(args []interface{}) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case common.Address:
			parts[i] = v.Hex()
		case []common.Address:
			hexes := make([]string, len(v))
			for j, a := range v {
				hexes[j] = a.Hex()
			}
			parts[i] = "[" + strings.Join(hexes, " ") + "]"
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, ",")
}
