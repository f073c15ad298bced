package models

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultTokenDecimals is assumed when a token does not answer decimals()
const DefaultTokenDecimals = 18

// LockRecord is a UI-local projection of one on-chain lock
type LockRecord struct {
	LockId       *big.Int
	Token        common.Address
	Amount       *big.Int
	Withdrawn    *big.Int
	UnlockDate   *big.Int
	Withdrawable *big.Int
	Decimals     int
	Symbol       string
}

// Remaining returns amount minus withdrawn, treating nil as zero
func (r LockRecord) Remaining() *big.Int {
	return new(big.Int).Sub(orZero(r.Amount), orZero(r.Withdrawn))
}

// IsActive reports whether the lock still holds tokens
func (r LockRecord) IsActive() bool {
	return r.Remaining().Sign() > 0
}

// HasWithdrawable reports whether the locker currently releases anything
func (r LockRecord) HasWithdrawable() bool {
	return orZero(r.Withdrawable).Sign() > 0
}

// LockSummary is the result of one lock aggregation pass
type LockSummary struct {
	Owner       common.Address
	Rows        []LockRecord
	TotalLocks  int
	TotalUnlock int
}

// VestingSchedule is a UI-local projection of one on-chain vesting schedule
type VestingSchedule struct {
	ScheduleId     *big.Int
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

// Claimable reports whether part of the schedule has not been released yet
func (s VestingSchedule) Claimable() bool {
	return orZero(s.TotalAmount).Cmp(orZero(s.Released)) > 0
}

// VestingSummary is the result of one vesting aggregation pass
type VestingSummary struct {
	Beneficiary    common.Address
	Rows           []VestingSchedule
	Decimals       map[string]int
	TotalSchedules int
	ClaimableCount int
}

// DecimalsFor returns the decimals recorded for token, or the default
func (s VestingSummary) DecimalsFor(token common.Address) int {
	if d, ok := s.Decimals[TokenKey(token)]; ok {
		return d
	}
	return DefaultTokenDecimals
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// TokenKey is the map key used for per-token lookups
func TokenKey(a common.Address) string {
	return strings.ToLower(a.Hex())
}
