package contracts

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lockerAddr  = common.HexToAddress("0x0000000000000000000000000000000000000101")
	factoryAddr = common.HexToAddress("0x0000000000000000000000000000000000000202")
	otherToken  = common.HexToAddress("0x00000000000000000000000000000000000000cc")
)

func TestReader_LockerReads(t *testing.T) {
	backend := newFakeBackend()
	backend.register(lockerAddr, Locker, "locksOf", constant([]*big.Int{big.NewInt(1), big.NewInt(2)}))
	backend.register(lockerAddr, Locker, "locks", func(args []interface{}) ([]interface{}, error) {
		id := args[0].(*big.Int)
		return []interface{}{tokenAddr, big.NewInt(100), id, big.NewInt(0), ownerAddr}, nil
	})
	backend.register(lockerAddr, Locker, "withdrawable", constant(big.NewInt(7)))

	reader := NewReader(backend)
	ctx := context.Background()

	ids, err := reader.LocksOf(ctx, lockerAddr, ownerAddr)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	info, strategy, err := reader.Lock(ctx, lockerAddr, big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, DecodePositional, strategy)
	assert.Equal(t, int64(2), info.Withdrawn.Int64())

	w, err := reader.Withdrawable(ctx, lockerAddr, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.Int64())
}

func TestReader_CallToMissingContractFails(t *testing.T) {
	reader := NewReader(newFakeBackend())

	_, err := reader.Decimals(context.Background(), otherToken)
	require.Error(t, err)

	has, err := reader.HasCode(context.Background(), otherToken)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestReader_SchedulesUsesBatch(t *testing.T) {
	backend := &batchBackend{fakeBackend: newFakeBackend()}
	backend.register(factoryAddr, VestingFactory, "schedules", func(args []interface{}) ([]interface{}, error) {
		id := args[0].(*big.Int)
		if id.Int64() == 2 {
			return nil, errors.New("execution reverted")
		}
		return []interface{}{
			tokenAddr, ownerAddr, big.NewInt(10), big.NewInt(0), big.NewInt(0),
			big.NewInt(0), big.NewInt(0), uint8(0), true,
		}, nil
	})

	reader := NewReader(backend)
	results := reader.Schedules(context.Background(), factoryAddr, []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})

	require.Len(t, results, 3)
	assert.Equal(t, 1, backend.batches)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, int64(3), results[2].Id.Int64())
	assert.Equal(t, DecodePositional, results[2].Strategy)
}

func TestReader_BatchFallsBackToSequential(t *testing.T) {
	backend := &batchBackend{fakeBackend: newFakeBackend(), batchErr: errors.New("batch not supported")}
	backend.register(tokenAddr, ERC20, "decimals", constant(uint8(6)))

	reader := NewReader(backend)
	decimals, errs := reader.BatchDecimals(context.Background(), []common.Address{tokenAddr, otherToken})

	require.Len(t, decimals, 2)
	assert.Equal(t, 6, decimals[0])
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.Equal(t, 2, backend.calls)
}

func TestReader_TokenMetadata(t *testing.T) {
	backend := newFakeBackend()
	backend.register(tokenAddr, ERC20, "symbol", constant("LP"))
	backend.register(tokenAddr, ERC20, "allowance", constant(big.NewInt(50)))
	backend.register(tokenAddr, ERC20, "balanceOf", constant(big.NewInt(900)))

	reader := NewReader(backend)
	ctx := context.Background()

	symbol, err := reader.Symbol(ctx, tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, "LP", symbol)

	allowance, err := reader.Allowance(ctx, tokenAddr, ownerAddr, lockerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(50), allowance.Int64())

	balance, err := reader.BalanceOf(ctx, tokenAddr, ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance.Int64())
}
