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

	"token-tools-go/internal/aggregator"
	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/contracts"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type withdrawRequest struct {
	tool   string
	lockId *big.Int
}

func parseAndValidateFlags() (*withdrawRequest, error) {
	toolFlag := flag.String("tool", models.ToolTokenLocker, "Locker holding the lock: token-locker or liquidity-locker")
	lockFlag := flag.String("lock", "", "Lock id (required)")
	flag.Parse()

	if *lockFlag == "" {
		return nil, fmt.Errorf("--lock is required")
	}

	lockId, ok := new(big.Int).SetString(*lockFlag, 10)
	if !ok || lockId.Sign() < 0 {
		return nil, fmt.Errorf("invalid lock id: %q", *lockFlag)
	}

	return &withdrawRequest{tool: *toolFlag, lockId: lockId}, nil
}

func findLock(summary models.LockSummary, lockId *big.Int) (models.LockRecord, bool) {
	for _, row := range summary.Rows {
		if row.LockId.Cmp(lockId) == 0 {
			return row, true
		}
	}
	return models.LockRecord{}, false
}

func printWithdrawSummary(req *withdrawRequest, row models.LockRecord, chainName string) {
	common.PrintHeader("WITHDRAW REQUEST", common.DefaultWidth)
	fmt.Printf("Chain:         %s\n", chainName)
	fmt.Printf("Tool:          %s\n", req.tool)
	fmt.Printf("Lock:          #%s\n", row.LockId.String())
	fmt.Printf("Token:         %s\n", row.Token.Hex())
	fmt.Printf("Locked:        %s\n", format.SafeFormat(row.Remaining(), row.Decimals, row.Symbol))
	fmt.Printf("Withdrawable:  %s\n", format.SafeFormat(row.Withdrawable, row.Decimals, row.Symbol))
	fmt.Printf("Unlock date:   %s\n", format.FormatTimestamp(row.UnlockDate))
	common.PrintSeparator("=", common.DefaultWidth)
}

func failWithdraw(message string, fields ...zap.Field) {
	common.PrintHeader("WITHDRAW FAILED", common.DefaultWidth)
	fmt.Printf("Error: %s\n", message)
	common.PrintSeparator("=", common.DefaultWidth)
	zap.L().Fatal(message, fields...)
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
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

	if cfg.Features.ComingSoon(req.tool) {
		failWithdraw(fmt.Sprintf("%s is coming soon", req.tool))
	}

	zap.L().Info("Initializing services")
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	agg, err := services.LockTool(req.tool)
	if err != nil {
		failWithdraw(err.Error())
	}
	if !agg.Enabled() {
		failWithdraw("locker address not configured", zap.String("tool", req.tool))
	}
	if !services.Submitter.CanSign() {
		failWithdraw(submitter.ErrNoSigner.Error())
	}
	if services.Submitter.Busy() {
		failWithdraw(submitter.ErrBusy.Error())
	}

	owner := services.Submitter.From()
	row, ok := findLock(agg.Fetch(ctx, owner), req.lockId)
	if !ok {
		failWithdraw(fmt.Sprintf("lock #%s not found among the active locks of %s", req.lockId, owner.Hex()))
	}

	printWithdrawSummary(req, row, services.Chain.Name)

	if !aggregator.CanWithdraw(row, services.Submitter.Busy()) {
		failWithdraw("nothing to withdraw yet", zap.String("lock_id", req.lockId.String()))
	}

	fmt.Println("\n🔄 Sending withdraw transaction...")
	state, err := services.Submitter.Submit(ctx, submitter.Request{
		Action:   models.ActionWithdraw,
		Target:   req.lockId.String(),
		Contract: agg.Locker(),
		ABI:      &contracts.Locker,
		Method:   "withdraw",
		Args:     []interface{}{req.lockId},
		OnSuccess: func() {
			summary := agg.Fetch(ctx, owner)
			fmt.Printf("   Active locks: %d, withdrawable: %d\n", summary.TotalLocks, summary.TotalUnlock)
		},
	})
	if url := format.ExplorerTxURL(services.Chain.ExplorerUrl, state.Hash); url != "" {
		fmt.Printf("   %s\n", url)
	}
	if errors.Is(err, submitter.ErrUnconfirmed) {
		fmt.Println("⏳ Withdraw sent but not confirmed yet, the journal keeps it confirming")
		zap.L().Warn("Withdraw not confirmed", zap.String("hash", state.Hash), zap.Error(err))
		return
	}
	if err != nil {
		fmt.Println("❌ Withdraw failed")
		zap.L().Fatal("Withdraw failed", zap.String("hash", state.Hash), zap.Error(err))
	}

	fmt.Printf("✅ Withdraw confirmed in block %d\n\n", state.BlockNumber)
	zap.L().Info("Withdraw completed successfully",
		zap.String("tool", req.tool),
		zap.String("lock_id", req.lockId.String()),
		zap.String("hash", state.Hash))
}
