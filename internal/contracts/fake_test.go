package contracts

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type answerFunc func(args []interface{}) ([]interface{}, error)

type fakeContract struct {
	abi     abi.ABI
	answers map[string]answerFunc
}

// fakeBackend answers eth_call with ABI-encoded data from registered handlers
type fakeBackend struct {
	contracts map[common.Address]*fakeContract
	calls     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{contracts: make(map[common.Address]*fakeContract)}
}

func (b *fakeBackend) register(address common.Address, parsed abi.ABI, method string, fn answerFunc) {
	c, ok := b.contracts[address]
	if !ok {
		c = &fakeContract{abi: parsed, answers: make(map[string]answerFunc)}
		b.contracts[address] = c
	}
	c.answers[method] = fn
}

func (b *fakeBackend) CodeAt(_ context.Context, contract common.Address, _ *big.Int) ([]byte, error) {
	if _, ok := b.contracts[contract]; ok {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.calls++
	c, ok := b.contracts[*msg.To]
	if !ok {
		return nil, nil
	}
	method, err := c.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	fn, ok := c.answers[method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	out, err := fn(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

// batchBackend adds JSON-RPC style batching on top of fakeBackend
type batchBackend struct {
	*fakeBackend
	batches  int
	batchErr error
}

func (b *batchBackend) BatchCallContract(ctx context.Context, msgs []ethereum.CallMsg) ([][]byte, []error, error) {
	b.batches++
	if b.batchErr != nil {
		return nil, nil, b.batchErr
	}
	data := make([][]byte, len(msgs))
	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		data[i], errs[i] = b.fakeBackend.CallContract(ctx, msg, nil)
	}
	return data, errs, nil
}

func constant(values ...interface{}) answerFunc {
	return func([]interface{}) ([]interface{}, error) { return values, nil }
}
