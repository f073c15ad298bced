package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Decimals reads decimals() of token
func (r *Reader) Decimals(ctx context.Context, token common.Address) (int, error) {
	values, err := r.Call(ctx, Call{Contract: token, ABI: &ERC20, Method: "decimals"})
	if err != nil {
		return 0, err
	}
	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals returned %T", values[0])
	}
	return int(d), nil
}

// Symbol reads symbol() of token
func (r *Reader) Symbol(ctx context.Context, token common.Address) (string, error) {
	values, err := r.Call(ctx, Call{Contract: token, ABI: &ERC20, Method: "symbol"})
	if err != nil {
		return "", err
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol returned %T", values[0])
	}
	return s, nil
}

// BatchDecimals reads decimals() for every token in a single batch. Errors
// are positional.
func (r *Reader) BatchDecimals(ctx context.Context, tokens []common.Address) ([]int, []error) {
	calls := make([]Call, len(tokens))
	for i, token := range tokens {
		calls[i] = Call{Contract: token, ABI: &ERC20, Method: "decimals"}
	}

	decimals := make([]int, len(tokens))
	errs := make([]error, len(tokens))
	for i, res := range r.BatchCall(ctx, calls) {
		if res.Err != nil {
			errs[i] = res.Err
			continue
		}
		values, err := ERC20.Unpack("decimals", res.Data)
		if err != nil {
			errs[i] = fmt.Errorf("unable to unpack decimals from %s: %w", tokens[i].Hex(), err)
			continue
		}
		d, ok := values[0].(uint8)
		if !ok {
			errs[i] = fmt.Errorf("decimals returned %T", values[0])
			continue
		}
		decimals[i] = int(d)
	}
	return decimals, errs
}

// Allowance reads allowance(owner, spender) of token
func (r *Reader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	values, err := r.Call(ctx, Call{Contract: token, ABI: &ERC20, Method: "allowance", Args: []interface{}{owner, spender}})
	if err != nil {
		return nil, err
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("allowance returned %T", values[0])
	}
	return amount, nil
}

// BalanceOf reads balanceOf(account) of token
func (r *Reader) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	values, err := r.Call(ctx, Call{Contract: token, ABI: &ERC20, Method: "balanceOf", Args: []interface{}{account}})
	if err != nil {
		return nil, err
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf returned %T", values[0])
	}
	return amount, nil
}
