package aggregator

import (
	"context"
	"math/big"

	"token-tools-go/internal/contracts"
	"token-tools-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// VestingReader is the subset of contract reads used to build a vesting summary
type VestingReader interface {
	UserSchedules(ctx context.Context, factory, beneficiary common.Address) ([]*big.Int, error)
	Schedules(ctx context.Context, factory common.Address, ids []*big.Int) []contracts.ScheduleResult
	BatchDecimals(ctx context.Context, tokens []common.Address) ([]int, []error)
}

// VestingAggregator lists the active vesting schedules of a beneficiary
type VestingAggregator struct {
	reader  VestingReader
	factory common.Address
}

func NewVestingAggregator(reader VestingReader, factoryAddress string) *VestingAggregator {
	a := &VestingAggregator{reader: reader}
	if common.IsHexAddress(factoryAddress) {
		a.factory = common.HexToAddress(factoryAddress)
	} else if factoryAddress != "" {
		zap.L().Warn("Ignoring malformed vesting factory address", zap.String("address", factoryAddress))
	}
	return a
}

func (a *VestingAggregator) Enabled() bool {
	return a.factory != (common.Address{})
}

func (a *VestingAggregator) Factory() common.Address {
	return a.factory
}

// Fetch reads all schedules of beneficiary in one batch, then the decimals
// of every distinct token in a second batch
func (a *VestingAggregator) Fetch(ctx context.Context, beneficiary common.Address) models.VestingSummary {
	summary := models.VestingSummary{
		Beneficiary: beneficiary,
		Rows:        []models.VestingSchedule{},
		Decimals:    map[string]int{},
	}
	if beneficiary == (common.Address{}) || !a.Enabled() {
		return summary
	}

	ids, err := a.reader.UserSchedules(ctx, a.factory, beneficiary)
	if err != nil {
		zap.L().Warn("Unable to enumerate vesting schedules",
			zap.String("beneficiary", beneficiary.Hex()),
			zap.Error(err))
		return summary
	}
	if len(ids) == 0 {
		return summary
	}

	var fetched []models.VestingSchedule
	var tokens []common.Address
	for _, res := range a.reader.Schedules(ctx, a.factory, ids) {
		if res.Err != nil {
			zap.L().Warn("Unable to read vesting schedule, skipping",
				zap.String("schedule_id", res.Id.String()),
				zap.Stringer("strategy", res.Strategy),
				zap.Error(res.Err))
			continue
		}
		fetched = append(fetched, scheduleRecord(res))

		key := models.TokenKey(res.Info.Token)
		if _, seen := summary.Decimals[key]; !seen {
			summary.Decimals[key] = models.DefaultTokenDecimals
			tokens = append(tokens, res.Info.Token)
		}
	}

	if len(tokens) > 0 {
		decimals, errs := a.reader.BatchDecimals(ctx, tokens)
		for i, token := range tokens {
			if errs[i] == nil {
				summary.Decimals[models.TokenKey(token)] = decimals[i]
			}
		}
	}

	for _, s := range fetched {
		if !s.IsActive {
			continue
		}
		summary.Rows = append(summary.Rows, s)
		if s.Claimable() {
			summary.ClaimableCount++
		}
	}
	summary.TotalSchedules = len(summary.Rows)

	return summary
}

func scheduleRecord(res contracts.ScheduleResult) models.VestingSchedule {
	return models.VestingSchedule{
		ScheduleId:     res.Id,
		Token:          res.Info.Token,
		Beneficiary:    res.Info.Beneficiary,
		TotalAmount:    res.Info.TotalAmount,
		Released:       res.Info.Released,
		Start:          res.Info.Start,
		CliffMonths:    res.Info.CliffMonths,
		DurationMonths: res.Info.DurationMonths,
		Mode:           res.Info.Mode,
		IsActive:       res.Info.IsActive,
	}
}
