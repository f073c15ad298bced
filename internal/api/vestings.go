package api

import (
	"context"
	"math/big"

	"token-tools-go/internal/contracts"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// GetVestings lists the active vesting schedules of beneficiary
func (s *ToolsService) GetVestings(ctx context.Context, beneficiary common.Address, cached bool) (*models.VestingsResponse, error) {
	resp := &models.VestingsResponse{Beneficiary: beneficiary.Hex(), Schedules: []models.VestingView{}}
	if s.features.ComingSoon(models.ToolVesting) {
		resp.ComingSoon = true
		resp.Message = comingSoonMessage
		return resp, nil
	}
	if s.vestings == nil {
		return resp, nil
	}

	summary := s.vestingSummary(ctx, beneficiary, cached)
	for _, row := range summary.Rows {
		decimals := summary.DecimalsFor(row.Token)
		resp.Schedules = append(resp.Schedules, models.VestingView{
			ScheduleId:  row.ScheduleId.String(),
			Token:       row.Token.Hex(),
			Beneficiary: row.Beneficiary.Hex(),
			Decimals:    decimals,
			Total:       format.FormatUnits(row.TotalAmount, decimals),
			Released:    format.FormatUnits(row.Released, decimals),
			Start:       format.Time(row.Start),
			Claimable:   row.Claimable(),
		})
	}
	resp.TotalSchedules = summary.TotalSchedules
	resp.ClaimableCount = summary.ClaimableCount
	return resp, nil
}

func (s *ToolsService) vestingSummary(ctx context.Context, beneficiary common.Address, cached bool) models.VestingSummary {
	if s.snapshots == nil {
		return s.vestings.Fetch(ctx, beneficiary)
	}

	s.snapshots.Track(beneficiary)
	if cached {
		if summary, _, ok := s.snapshots.VestingSnapshot(beneficiary); ok {
			return summary
		}
	}

	summary := s.vestings.Fetch(ctx, beneficiary)
	s.snapshots.StoreVestings(summary)
	return summary
}

// Claim releases the vested part of a schedule of the signer
func (s *ToolsService) Claim(ctx context.Context, scheduleId string) (*models.SubmitResponse, error) {
	if err := s.checkWritable(models.ToolVesting); err != nil {
		return nil, err
	}
	if s.vestings == nil || !s.vestings.Enabled() {
		return nil, ErrToolDisabled
	}

	id, ok := new(big.Int).SetString(scheduleId, 10)
	if !ok || id.Sign() < 0 {
		return nil, ErrInvalidId
	}

	summary := s.vestings.Fetch(ctx, s.submitter.From())
	var row *models.VestingSchedule
	for i := range summary.Rows {
		if summary.Rows[i].ScheduleId.Cmp(id) == 0 {
			row = &summary.Rows[i]
			break
		}
	}
	if row == nil {
		return nil, ErrNotFound
	}
	if !row.Claimable() {
		return nil, ErrNotActionable
	}

	return s.submit(ctx, submitterRequest(models.ActionClaim, scheduleId, s.vestings.Factory(), &contracts.VestingFactory, "claim", id))
}

func submitterRequest(action, target string, contract common.Address, parsed *abi.ABI, method string, args ...interface{}) submitter.Request {
	return submitter.Request{
		Action:   action,
		Target:   target,
		Contract: contract,
		ABI:      parsed,
		Method:   method,
		Args:     args,
	}
}

func explorerTxURL(def models.ChainDefinition, hash string) string {
	return format.ExplorerTxURL(def.ExplorerUrl, hash)
}
