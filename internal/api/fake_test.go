package api

import (
	"context"
	"math/big"
	"sync"

	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/ethereum/go-ethereum/common"
)

var (
	signer   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	token    = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	locker   = common.HexToAddress("0x0000000000000000000000000000000000000101")
	factory  = common.HexToAddress("0x0000000000000000000000000000000000000202")
	testHash = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

type fakeLockTool struct {
	tool    string
	enabled bool
	rows    []models.LockRecord
	mu      sync.Mutex
	fetches int
}

func (f *fakeLockTool) Tool() string           { return f.tool }
func (f *fakeLockTool) Enabled() bool          { return f.enabled }
func (f *fakeLockTool) Locker() common.Address { return locker }

func (f *fakeLockTool) Fetch(_ context.Context, owner common.Address) models.LockSummary {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()

	summary := models.LockSummary{Owner: owner, Rows: f.rows, TotalLocks: len(f.rows)}
	for _, r := range f.rows {
		if r.HasWithdrawable() {
			summary.TotalUnlock++
		}
	}
	return summary
}

func (f *fakeLockTool) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeVestingTool struct {
	rows    []models.VestingSchedule
	fetches int
}

func (f *fakeVestingTool) Enabled() bool            { return true }
func (f *fakeVestingTool) Factory() common.Address { return factory }

func (f *fakeVestingTool) Fetch(_ context.Context, beneficiary common.Address) models.VestingSummary {
	f.fetches++
	summary := models.VestingSummary{
		Beneficiary:    beneficiary,
		Rows:           f.rows,
		Decimals:       map[string]int{models.TokenKey(token): 6},
		TotalSchedules: len(f.rows),
	}
	for _, r := range f.rows {
		if r.Claimable() {
			summary.ClaimableCount++
		}
	}
	return summary
}

type fakeSubmitter struct {
	canSign  bool
	busy     bool
	state    models.TransactionState
	requests []submitter.Request
	err      error
}

func (f *fakeSubmitter) CanSign() bool                  { return f.canSign }
func (f *fakeSubmitter) From() common.Address           { return signer }
func (f *fakeSubmitter) Busy() bool                     { return f.busy }
func (f *fakeSubmitter) State() models.TransactionState { return f.state }

func (f *fakeSubmitter) SubmitAsync(_ context.Context, req submitter.Request) (models.TransactionState, error) {
	if f.err != nil {
		return models.TransactionState{}, f.err
	}
	f.requests = append(f.requests, req)
	f.state = models.TransactionState{Action: req.Action, Target: req.Target, Confirming: true, Hash: testHash}
	return f.state, nil
}

type fakeNetwork struct {
	chainId uint64
}

func (f fakeNetwork) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(f.chainId), nil
}

func (f fakeNetwork) BlockNumber(context.Context) (uint64, error) {
	return 77, nil
}

func lockRow(id, amount, withdrawn, withdrawable int64) models.LockRecord {
	return models.LockRecord{
		LockId:       big.NewInt(id),
		Token:        token,
		Amount:       big.NewInt(amount),
		Withdrawn:    big.NewInt(withdrawn),
		UnlockDate:   big.NewInt(1700000000),
		Withdrawable: big.NewInt(withdrawable),
		Decimals:     0,
		Symbol:       "TKN",
	}
}
