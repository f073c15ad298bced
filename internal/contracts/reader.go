package contracts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// BatchCaller sends several eth_call requests in one JSON-RPC batch. The
// outer error is a transport failure; per-call errors are positional.
type BatchCaller interface {
	BatchCallContract(ctx context.Context, msgs []ethereum.CallMsg) ([][]byte, []error, error)
}

// Call is one contract read
type Call struct {
	Contract common.Address
	ABI      *abi.ABI
	Method   string
	Args     []interface{}
}

// Result is the raw answer to one Call
type Result struct {
	Data []byte
	Err  error
}

// Reader issues read-only contract calls
type Reader struct {
	caller bind.ContractCaller
	batch  BatchCaller
}

// NewReader wraps caller; batching is used when caller supports it
func NewReader(caller bind.ContractCaller) *Reader {
	r := &Reader{caller: caller}
	if b, ok := caller.(BatchCaller); ok {
		r.batch = b
	}
	return r
}

// CallRaw performs one eth_call and returns the undecoded return data
func (r *Reader) CallRaw(ctx context.Context, call Call) ([]byte, error) {
	msg, err := callMsg(call)
	if err != nil {
		return nil, err
	}
	data, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", call.Method, call.Contract.Hex(), err)
	}
	return data, nil
}

// Call performs one eth_call and unpacks the outputs
func (r *Reader) Call(ctx context.Context, call Call) ([]interface{}, error) {
	data, err := r.CallRaw(ctx, call)
	if err != nil {
		return nil, err
	}
	values, err := call.ABI.Unpack(call.Method, data)
	if err != nil {
		return nil, fmt.Errorf("unable to unpack %s from %s: %w", call.Method, call.Contract.Hex(), err)
	}
	return values, nil
}

// BatchCall performs the calls in one batch when possible and falls back to
// sequential calls otherwise. Results keep the order of calls.
func (r *Reader) BatchCall(ctx context.Context, calls []Call) []Result {
	results := make([]Result, len(calls))
	if len(calls) == 0 {
		return results
	}

	if r.batch != nil {
		msgs := make([]ethereum.CallMsg, 0, len(calls))
		index := make([]int, 0, len(calls))
		for i, call := range calls {
			msg, err := callMsg(call)
			if err != nil {
				results[i].Err = err
				continue
			}
			msgs = append(msgs, msg)
			index = append(index, i)
		}

		data, errs, err := r.batch.BatchCallContract(ctx, msgs)
		if err == nil {
			for j, i := range index {
				if errs[j] != nil {
					results[i].Err = fmt.Errorf("%s call to %s failed: %w", calls[i].Method, calls[i].Contract.Hex(), errs[j])
					continue
				}
				results[i].Data = data[j]
			}
			return results
		}
		zap.L().Warn("Batch call failed, falling back to sequential calls",
			zap.Int("calls", len(msgs)),
			zap.Error(err))
	}

	for i, call := range calls {
		results[i].Data, results[i].Err = r.CallRaw(ctx, call)
	}
	return results
}

// HasCode reports whether a contract is deployed at address
func (r *Reader) HasCode(ctx context.Context, address common.Address) (bool, error) {
	code, err := r.caller.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("unable to read code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

func callMsg(call Call) (ethereum.CallMsg, error) {
	if call.ABI == nil {
		return ethereum.CallMsg{}, fmt.Errorf("no ABI for %s", call.Method)
	}
	input, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return ethereum.CallMsg{}, fmt.Errorf("unable to pack %s: %w", call.Method, err)
	}
	to := call.Contract
	return ethereum.CallMsg{To: &to, Data: input}, nil
}
