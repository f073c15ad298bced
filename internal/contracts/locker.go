package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LocksOf returns the lock ids registered for owner
func (r *Reader) LocksOf(ctx context.Context, locker, owner common.Address) ([]*big.Int, error) {
	values, err := r.Call(ctx, Call{Contract: locker, ABI: &Locker, Method: "locksOf", Args: []interface{}{owner}})
	if err != nil {
		return nil, err
	}
	ids, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("locksOf returned %T", values[0])
	}
	return ids, nil
}

// Lock reads locks(id) and reports the decoding strategy that applied
func (r *Reader) Lock(ctx context.Context, locker common.Address, id *big.Int) (LockInfo, DecodeStrategy, error) {
	data, err := r.CallRaw(ctx, Call{Contract: locker, ABI: &Locker, Method: "locks", Args: []interface{}{id}})
	if err != nil {
		return LockInfo{}, DecodeUnknown, err
	}
	return DecodeLockInfo(Locker.Methods["locks"], data)
}

// Withdrawable returns the amount the locker would release for id right now
func (r *Reader) Withdrawable(ctx context.Context, locker common.Address, id *big.Int) (*big.Int, error) {
	values, err := r.Call(ctx, Call{Contract: locker, ABI: &Locker, Method: "withdrawable", Args: []interface{}{id}})
	if err != nil {
		return nil, err
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("withdrawable returned %T", values[0])
	}
	return amount, nil
}
