package contracts

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DecodeStrategy records which return shape a struct read was decoded from
type DecodeStrategy int

const (
	DecodeUnknown DecodeStrategy = iota
	// DecodeNamed is a single tuple output whose components are read by name
	DecodeNamed
	// DecodePositional is a flat list of outputs read by index
	DecodePositional
)

func (s DecodeStrategy) String() string {
	switch s {
	case DecodeNamed:
		return "named"
	case DecodePositional:
		return "positional"
	default:
		return "unknown"
	}
}

// LockInfo is the decoded result of locks(id)
type LockInfo struct {
	LpToken    common.Address
	Amount     *big.Int
	Withdrawn  *big.Int
	UnlockDate *big.Int
	Owner      common.Address
}

var lockFields = []string{"LpToken", "Amount", "Withdrawn", "UnlockDate", "Owner"}

// ScheduleInfo is the decoded result of schedules(id)
type ScheduleInfo struct {
	Token          common.Address
	Beneficiary    common.Address
	TotalAmount    *big.Int
	Released       *big.Int
	Start          *big.Int
	CliffMonths    *big.Int
	DurationMonths *big.Int
	Mode           uint8
	IsActive       bool
}

var scheduleFields = []string{
	"Token", "Beneficiary", "TotalAmount", "Released", "Start",
	"CliffMonths", "DurationMonths", "Mode", "IsActive",
}

// DecodeLockInfo unpacks the return data of locks(id)
func DecodeLockInfo(method abi.Method, data []byte) (LockInfo, DecodeStrategy, error) {
	values, strategy, err := unpackStruct(method, data, lockFields)
	if err != nil {
		return LockInfo{}, strategy, err
	}

	var info LockInfo
	var ok [5]bool
	info.LpToken, ok[0] = values[0].(common.Address)
	info.Amount, ok[1] = values[1].(*big.Int)
	info.Withdrawn, ok[2] = values[2].(*big.Int)
	info.UnlockDate, ok[3] = values[3].(*big.Int)
	info.Owner, ok[4] = values[4].(common.Address)
	for i, good := range ok {
		if !good {
			return LockInfo{}, strategy, fmt.Errorf("lock field %s has unexpected type %T", lockFields[i], values[i])
		}
	}
	return info, strategy, nil
}

// DecodeSchedule unpacks the return data of schedules(id)
func DecodeSchedule(method abi.Method, data []byte) (ScheduleInfo, DecodeStrategy, error) {
	values, strategy, err := unpackStruct(method, data, scheduleFields)
	if err != nil {
		return ScheduleInfo{}, strategy, err
	}

	var info ScheduleInfo
	var ok [9]bool
	info.Token, ok[0] = values[0].(common.Address)
	info.Beneficiary, ok[1] = values[1].(common.Address)
	info.TotalAmount, ok[2] = values[2].(*big.Int)
	info.Released, ok[3] = values[3].(*big.Int)
	info.Start, ok[4] = values[4].(*big.Int)
	info.CliffMonths, ok[5] = values[5].(*big.Int)
	info.DurationMonths, ok[6] = values[6].(*big.Int)
	info.Mode, ok[7] = values[7].(uint8)
	info.IsActive, ok[8] = values[8].(bool)
	for i, good := range ok {
		if !good {
			return ScheduleInfo{}, strategy, fmt.Errorf("schedule field %s has unexpected type %T", scheduleFields[i], values[i])
		}
	}
	return info, strategy, nil
}

// unpackStruct returns the outputs in field order, choosing the strategy from
// the method's declared outputs
func unpackStruct(method abi.Method, data []byte, fields []string) ([]interface{}, DecodeStrategy, error) {
	unpacked, err := method.Outputs.Unpack(data)
	if err != nil {
		return nil, DecodeUnknown, fmt.Errorf("unable to unpack %s: %w", method.Name, err)
	}

	if len(unpacked) == 1 && method.Outputs[0].Type.T == abi.TupleTy {
		values, err := namedValues(unpacked[0], fields)
		if err != nil {
			return nil, DecodeNamed, fmt.Errorf("unable to decode %s: %w", method.Name, err)
		}
		return values, DecodeNamed, nil
	}

	if len(unpacked) != len(fields) {
		return nil, DecodePositional, fmt.Errorf("%s returned %d values, expected %d", method.Name, len(unpacked), len(fields))
	}
	return unpacked, DecodePositional, nil
}

func namedValues(tuple interface{}, fields []string) ([]interface{}, error) {
	v := reflect.ValueOf(tuple)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tuple decoded as %T", tuple)
	}

	values := make([]interface{}, len(fields))
	for i, name := range fields {
		f := v.FieldByName(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("tuple has no field %s", name)
		}
		values[i] = f.Interface()
	}
	return values, nil
}
