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
	"flag"
	"fmt"

	"token-tools-go/internal/aggregator"
	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type vestingStats struct {
	totalBeneficiaries int
	withSchedules      int
	totalSchedules     int
	claimable          int
}

func printSchedule(row models.VestingSchedule, decimals int, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	status := "fully released"
	if row.Claimable() {
		status = "claimable"
	}

	fmt.Printf("%s #%-6s released %s of %s  start: %s  [%s]\n",
		symbol,
		row.ScheduleId.String(),
		format.FormatUnits(row.Released, decimals),
		format.FormatUnits(row.TotalAmount, decimals),
		format.FormatTimestamp(row.Start),
		status)

	detail := common.BoxDetailPrefix(isLast)
	fmt.Printf("%s   Token: %s\n", detail, row.Token.Hex())
}

func generateReport(ctx context.Context, agg *aggregator.VestingAggregator, beneficiaries []ethcommon.Address) vestingStats {
	stats := vestingStats{}

	for _, beneficiary := range beneficiaries {
		stats.totalBeneficiaries++

		summary := agg.Fetch(ctx, beneficiary)
		if len(summary.Rows) == 0 {
			continue
		}

		stats.withSchedules++
		stats.totalSchedules += summary.TotalSchedules
		stats.claimable += summary.ClaimableCount

		fmt.Printf("\n┌─ Beneficiary: %s\n", beneficiary.Hex())
		fmt.Printf("│  Schedules: %d, claimable: %d\n", summary.TotalSchedules, summary.ClaimableCount)
		common.PrintBoxSeparator(78)

		for i, row := range summary.Rows {
			printSchedule(row, summary.DecimalsFor(row.Token), i == len(summary.Rows)-1)
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	addressFlag := flag.String("address", "", "Beneficiary address (default: watchlist addresses, then the signer)")
	flag.Parse()

	logger.Info("Starting vesting query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Features.ComingSoon(models.ToolVesting) {
		common.PrintComingSoon(models.ToolVesting)
		return
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if !services.Vestings.Enabled() {
		logger.Warn("Vesting factory address not configured, the report will be empty")
	}

	beneficiaries, err := common.InitializeAddresses(*addressFlag, services.Submitter.From(), cfg.Watcher.WatchlistFile, logger)
	if err != nil {
		logger.Fatal("Failed to resolve beneficiaries", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("VESTING REPORT on %s", services.Chain.Name), common.DefaultWidth)

	stats := generateReport(ctx, services.Vestings, beneficiaries)

	summary := fmt.Sprintf("SUMMARY: %d beneficiaries with schedules (%d schedules, %d claimable, %d queried)",
		stats.withSchedules, stats.totalSchedules, stats.claimable, stats.totalBeneficiaries)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Vesting query completed",
		zap.Int("beneficiaries_queried", stats.totalBeneficiaries),
		zap.Int("schedules", stats.totalSchedules),
		zap.Int("claimable", stats.claimable))
}
