package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReverted is returned for a mined transaction with a failed status
var ErrReverted = errors.New("transaction reverted")

// WaitMinedWithInterval polls for the receipt of txHash every tick until it
// is found or ctx is done
func WaitMinedWithInterval(ctx context.Context, tick time.Duration, b bind.DeployBackend, txHash common.Hash) (*types.Receipt, error) {
	queryTicker := time.NewTicker(tick)
	defer queryTicker.Stop()
	for {
		receipt, err := b.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

// Confirm waits at most timeout for txHash to be mined. A reverted receipt
// is returned together with ErrReverted.
func Confirm(ctx context.Context, b bind.DeployBackend, txHash common.Hash, tick, timeout time.Duration) (*types.Receipt, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	receipt, err := WaitMinedWithInterval(ctxTimeout, tick, b, txHash)
	if err != nil {
		return nil, fmt.Errorf("tx %s failed to confirm: %w", txHash.Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("tx %s in block %d: %w", txHash.Hex(), receipt.BlockNumber.Uint64(), ErrReverted)
	}
	return receipt, nil
}
