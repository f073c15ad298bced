package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ScheduleResult is one entry of a batched schedules(id) read
type ScheduleResult struct {
	Id       *big.Int
	Info     ScheduleInfo
	Strategy DecodeStrategy
	Err      error
}

// UserSchedules returns the schedule ids of beneficiary
func (r *Reader) UserSchedules(ctx context.Context, factory, beneficiary common.Address) ([]*big.Int, error) {
	values, err := r.Call(ctx, Call{Contract: factory, ABI: &VestingFactory, Method: "getUserSchedules", Args: []interface{}{beneficiary}})
	if err != nil {
		return nil, err
	}
	ids, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("getUserSchedules returned %T", values[0])
	}
	return ids, nil
}

// Schedules reads schedules(id) for every id in a single batch
func (r *Reader) Schedules(ctx context.Context, factory common.Address, ids []*big.Int) []ScheduleResult {
	calls := make([]Call, len(ids))
	for i, id := range ids {
		calls[i] = Call{Contract: factory, ABI: &VestingFactory, Method: "schedules", Args: []interface{}{id}}
	}

	method := VestingFactory.Methods["schedules"]
	results := make([]ScheduleResult, len(ids))
	for i, res := range r.BatchCall(ctx, calls) {
		results[i].Id = ids[i]
		if res.Err != nil {
			results[i].Err = res.Err
			continue
		}
		results[i].Info, results[i].Strategy, results[i].Err = DecodeSchedule(method, res.Data)
	}
	return results
}
