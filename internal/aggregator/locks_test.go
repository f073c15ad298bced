package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"token-tools-go/internal/contracts"
	"token-tools-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
)

const testLocker = "0x0000000000000000000000000000000000000101"

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	lpToken  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func lock(amount, withdrawn, withdrawable int64, lockOwner common.Address) fakeLock {
	return fakeLock{
		info: contracts.LockInfo{
			LpToken:    lpToken,
			Amount:     big.NewInt(amount),
			Withdrawn:  big.NewInt(withdrawn),
			UnlockDate: big.NewInt(1700000000),
			Owner:      lockOwner,
		},
		withdrawable: big.NewInt(withdrawable),
	}
}

func ids(values ...int64) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestLockAggregator_ExcludesFullyWithdrawn(t *testing.T) {
	reader := &fakeReader{
		lockIds: ids(1, 2, 3, 4),
		locks: map[int64]fakeLock{
			1: lock(100, 0, 0, owner),
			2: lock(100, 100, 0, owner), // amount == withdrawn
			3: lock(50, 80, 0, owner),   // amount < withdrawn
			4: lock(100, 40, 60, owner),
		},
		tokens: map[common.Address]fakeToken{lpToken: {decimals: 18, symbol: "LP"}},
	}

	summary := NewLockAggregator("liquidity-locker", reader, testLocker).Fetch(context.Background(), owner)

	if summary.TotalLocks != 2 {
		t.Fatalf("Expected 2 active locks, got %d", summary.TotalLocks)
	}
	if summary.Rows[0].LockId.Int64() != 1 || summary.Rows[1].LockId.Int64() != 4 {
		t.Errorf("Unexpected active ids: %s, %s", summary.Rows[0].LockId, summary.Rows[1].LockId)
	}
	if summary.TotalUnlock != 1 {
		t.Errorf("Expected 1 withdrawable lock, got %d", summary.TotalUnlock)
	}
	for _, row := range summary.Rows {
		if !row.IsActive() {
			t.Errorf("Inactive lock %s in active set", row.LockId)
		}
	}
}

func TestLockAggregator_SkipsOtherOwners(t *testing.T) {
	reader := &fakeReader{
		lockIds: ids(1, 2),
		locks: map[int64]fakeLock{
			1: lock(100, 0, 0, stranger),
			2: lock(100, 0, 0, owner),
		},
		tokens: map[common.Address]fakeToken{lpToken: {decimals: 18, symbol: "LP"}},
	}

	summary := NewLockAggregator("liquidity-locker", reader, testLocker).Fetch(context.Background(), owner)

	if summary.TotalLocks != 1 || summary.Rows[0].LockId.Int64() != 2 {
		t.Errorf("Expected only lock 2, got %+v", summary.Rows)
	}
}

func TestLockAggregator_OptionalFieldDefaults(t *testing.T) {
	l := lock(100, 0, 0, owner)
	l.withdrawErr = errReverted
	reader := &fakeReader{
		lockIds: ids(1),
		locks:   map[int64]fakeLock{1: l},
		tokens: map[common.Address]fakeToken{
			lpToken: {decimalsErr: errReverted, symbolErr: errReverted},
		},
	}

	summary := NewLockAggregator("token-locker", reader, testLocker).Fetch(context.Background(), owner)

	if summary.TotalLocks != 1 {
		t.Fatalf("Expected 1 lock, got %d", summary.TotalLocks)
	}
	row := summary.Rows[0]
	if row.Decimals != models.DefaultTokenDecimals {
		t.Errorf("Expected default decimals, got %d", row.Decimals)
	}
	if row.Symbol != "" {
		t.Errorf("Expected empty symbol, got %q", row.Symbol)
	}
	if row.Withdrawable == nil || row.Withdrawable.Sign() != 0 {
		t.Errorf("Expected zero withdrawable, got %v", row.Withdrawable)
	}
}

func TestLockAggregator_FailedLockIsSkipped(t *testing.T) {
	reader := &fakeReader{
		lockIds: ids(1, 2),
		locks: map[int64]fakeLock{
			1: {err: errors.New("abi: cannot unmarshal")},
			2: lock(10, 0, 5, owner),
		},
		tokens: map[common.Address]fakeToken{lpToken: {decimals: 6, symbol: "LP"}},
	}

	summary := NewLockAggregator("token-locker", reader, testLocker).Fetch(context.Background(), owner)

	if summary.TotalLocks != 1 || summary.TotalUnlock != 1 {
		t.Errorf("Expected 1 lock with 1 withdrawable, got %d/%d", summary.TotalLocks, summary.TotalUnlock)
	}
	if summary.Rows[0].Decimals != 6 {
		t.Errorf("Expected decimals 6, got %d", summary.Rows[0].Decimals)
	}
}

func TestLockAggregator_EmptyResults(t *testing.T) {
	tests := []struct {
		name   string
		locker string
		owner  common.Address
		reader *fakeReader
	}{
		{"no owner", testLocker, common.Address{}, &fakeReader{lockIds: ids(1)}},
		{"no locker", "", owner, &fakeReader{lockIds: ids(1)}},
		{"malformed locker", "not-an-address", owner, &fakeReader{lockIds: ids(1)}},
		{"enumeration fails", testLocker, owner, &fakeReader{locksOfErr: errReverted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := NewLockAggregator("token-locker", tt.reader, tt.locker).Fetch(context.Background(), tt.owner)
			if summary.TotalLocks != 0 || len(summary.Rows) != 0 {
				t.Errorf("Expected empty summary, got %+v", summary)
			}
			if tt.reader.lockCalls != 0 {
				t.Errorf("Expected no per-lock reads, got %d", tt.reader.lockCalls)
			}
		})
	}
}

func TestCanWithdraw(t *testing.T) {
	tests := []struct {
		name         string
		withdrawable *big.Int
		busy         bool
		want         bool
	}{
		{"zero withdrawable", big.NewInt(0), false, false},
		{"nil withdrawable", nil, false, false},
		{"withdrawable", big.NewInt(1), false, true},
		{"write in flight", big.NewInt(1), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := models.LockRecord{Amount: big.NewInt(10), Withdrawn: big.NewInt(0), Withdrawable: tt.withdrawable}
			if got := CanWithdraw(row, tt.busy); got != tt.want {
				t.Errorf("CanWithdraw() = %v, want %v", got, tt.want)
			}
		})
	}
}
