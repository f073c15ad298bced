/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"

	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/contracts"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func parseScheduleId() (*big.Int, error) {
	scheduleFlag := flag.String("schedule", "", "Vesting schedule id (required)")
	flag.Parse()

	if *scheduleFlag == "" {
		return nil, fmt.Errorf("--schedule is required")
	}

	id, ok := new(big.Int).SetString(*scheduleFlag, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid schedule id: %q", *scheduleFlag)
	}
	return id, nil
}

func findSchedule(summary models.VestingSummary, id *big.Int) (models.VestingSchedule, bool) {
	for _, row := range summary.Rows {
		if row.ScheduleId.Cmp(id) == 0 {
			return row, true
		}
	}
	return models.VestingSchedule{}, false
}

func failClaim(message string, fields ...zap.Field) {
	common.PrintHeader("CLAIM FAILED", common.DefaultWidth)
	fmt.Printf("Error: %s\n", message)
	common.PrintSeparator("=", common.DefaultWidth)
	zap.L().Fatal(message, fields...)
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	scheduleId, err := parseScheduleId()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	ctx := models.WithSubmissionContext(context.Background(), &models.SubmissionContext{
		Origin:    "cli",
		RequestId: uuid.New().String(),
	})

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Features.ComingSoon(models.ToolVesting) {
		failClaim("vesting is coming soon")
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if !services.Vestings.Enabled() {
		failClaim("vesting factory address not configured")
	}
	if !services.Submitter.CanSign() {
		failClaim(submitter.ErrNoSigner.Error())
	}
	if services.Submitter.Busy() {
		failClaim(submitter.ErrBusy.Error())
	}

	beneficiary := services.Submitter.From()
	summary := services.Vestings.Fetch(ctx, beneficiary)
	row, ok := findSchedule(summary, scheduleId)
	if !ok {
		failClaim(fmt.Sprintf("schedule #%s not found among the active schedules of %s", scheduleId, beneficiary.Hex()))
	}

	decimals := summary.DecimalsFor(row.Token)
	common.PrintHeader("CLAIM REQUEST", common.DefaultWidth)
	fmt.Printf("Chain:      %s\n", services.Chain.Name)
	fmt.Printf("Schedule:   #%s\n", row.ScheduleId.String())
	fmt.Printf("Token:      %s\n", row.Token.Hex())
	fmt.Printf("Released:   %s of %s\n", format.FormatUnits(row.Released, decimals), format.FormatUnits(row.TotalAmount, decimals))
	fmt.Printf("Start:      %s\n", format.FormatTimestamp(row.Start))
	common.PrintSeparator("=", common.DefaultWidth)

	if !row.Claimable() {
		failClaim("schedule is fully released", zap.String("schedule_id", scheduleId.String()))
	}

	fmt.Println("\n🔄 Sending claim transaction...")
	state, err := services.Submitter.Submit(ctx, submitter.Request{
		Action:   models.ActionClaim,
		Target:   scheduleId.String(),
		Contract: services.Vestings.Factory(),
		ABI:      &contracts.VestingFactory,
		Method:   "claim",
		Args:     []interface{}{scheduleId},
		OnSuccess: func() {
			updated := services.Vestings.Fetch(ctx, beneficiary)
			fmt.Printf("   Schedules: %d, claimable: %d\n", updated.TotalSchedules, updated.ClaimableCount)
		},
	})
	if url := format.ExplorerTxURL(services.Chain.ExplorerUrl, state.Hash); url != "" {
		fmt.Printf("   %s\n", url)
	}
	if errors.Is(err, submitter.ErrUnconfirmed) {
		fmt.Println("⏳ Claim sent but not confirmed yet, the journal keeps it confirming")
		zap.L().Warn("Claim not confirmed", zap.String("hash", state.Hash), zap.Error(err))
		return
	}
	if err != nil {
		fmt.Println("❌ Claim failed")
		zap.L().Fatal("Claim failed", zap.String("hash", state.Hash), zap.Error(err))
	}

	fmt.Printf("✅ Claim confirmed in block %d\n\n", state.BlockNumber)
	zap.L().Info("Claim completed successfully",
		zap.String("schedule_id", scheduleId.String()),
		zap.String("hash", state.Hash))
}
