package aggregator

import (
	"context"
	"errors"
	"math/big"

	"token-tools-go/internal/contracts"

	"github.com/ethereum/go-ethereum/common"
)

var errReverted = errors.New("execution reverted")

type fakeLock struct {
	info         contracts.LockInfo
	err          error
	withdrawable *big.Int
	withdrawErr  error
}

type fakeToken struct {
	decimals    int
	decimalsErr error
	symbol      string
	symbolErr   error
}

// fakeReader serves contract reads from in-memory fixtures
type fakeReader struct {
	lockIds    []*big.Int
	locksOfErr error
	locks      map[int64]fakeLock
	tokens     map[common.Address]fakeToken

	scheduleIds  []*big.Int
	schedulesErr error
	schedules    map[int64]contracts.ScheduleResult

	lockCalls  int
	batchCalls int
}

func (f *fakeReader) LocksOf(context.Context, common.Address, common.Address) ([]*big.Int, error) {
	return f.lockIds, f.locksOfErr
}

func (f *fakeReader) Lock(_ context.Context, _ common.Address, id *big.Int) (contracts.LockInfo, contracts.DecodeStrategy, error) {
	f.lockCalls++
	l, ok := f.locks[id.Int64()]
	if !ok {
		return contracts.LockInfo{}, contracts.DecodeUnknown, errReverted
	}
	if l.err != nil {
		return contracts.LockInfo{}, contracts.DecodeUnknown, l.err
	}
	return l.info, contracts.DecodePositional, nil
}

func (f *fakeReader) Withdrawable(_ context.Context, _ common.Address, id *big.Int) (*big.Int, error) {
	l := f.locks[id.Int64()]
	if l.withdrawErr != nil {
		return nil, l.withdrawErr
	}
	if l.withdrawable == nil {
		return big.NewInt(0), nil
	}
	return l.withdrawable, nil
}

func (f *fakeReader) Decimals(_ context.Context, token common.Address) (int, error) {
	t, ok := f.tokens[token]
	if !ok {
		return 0, errReverted
	}
	return t.decimals, t.decimalsErr
}

func (f *fakeReader) Symbol(_ context.Context, token common.Address) (string, error) {
	t, ok := f.tokens[token]
	if !ok {
		return "", errReverted
	}
	return t.symbol, t.symbolErr
}

func (f *fakeReader) UserSchedules(context.Context, common.Address, common.Address) ([]*big.Int, error) {
	return f.scheduleIds, f.schedulesErr
}

func (f *fakeReader) Schedules(_ context.Context, _ common.Address, ids []*big.Int) []contracts.ScheduleResult {
	f.batchCalls++
	results := make([]contracts.ScheduleResult, len(ids))
	for i, id := range ids {
		res, ok := f.schedules[id.Int64()]
		if !ok {
			res = contracts.ScheduleResult{Err: errReverted}
		}
		res.Id = id
		results[i] = res
	}
	return results
}

func (f *fakeReader) BatchDecimals(ctx context.Context, tokens []common.Address) ([]int, []error) {
	f.batchCalls++
	decimals := make([]int, len(tokens))
	errs := make([]error, len(tokens))
	for i, token := range tokens {
		decimals[i], errs[i] = f.Decimals(ctx, token)
	}
	return decimals, errs
}
