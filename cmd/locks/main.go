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

type lockStats struct {
	totalOwners     int
	ownersWithLocks int
	totalLocks      int
	totalUnlock     int
}

func printLock(row models.LockRecord, explorerUrl string, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	action := "locked"
	if aggregator.CanWithdraw(row, false) {
		action = "withdrawable"
	}

	fmt.Printf("%s #%-6s %24s  unlock: %s  [%s]\n",
		symbol,
		row.LockId.String(),
		format.SafeFormat(row.Remaining(), row.Decimals, row.Symbol),
		format.FormatTimestamp(row.UnlockDate),
		action)

	detail := common.BoxDetailPrefix(isLast)
	fmt.Printf("%s   Token: %s\n", detail, row.Token.Hex())
	if row.HasWithdrawable() {
		fmt.Printf("%s   Withdrawable now: %s\n", detail, format.SafeFormat(row.Withdrawable, row.Decimals, row.Symbol))
	}
	if url := format.ExplorerAddressURL(explorerUrl, row.Token.Hex()); url != "" {
		fmt.Printf("%s   %s\n", detail, url)
	}
}

func printOwnerHeader(owner ethcommon.Address, summary models.LockSummary) {
	fmt.Printf("\n┌─ Owner: %s\n", owner.Hex())
	fmt.Printf("│  Active locks: %d, withdrawable: %d\n", summary.TotalLocks, summary.TotalUnlock)
	common.PrintBoxSeparator(78)
}

func generateReport(ctx context.Context, agg *aggregator.LockAggregator, owners []ethcommon.Address, explorerUrl string) lockStats {
	stats := lockStats{}

	for _, owner := range owners {
		stats.totalOwners++

		summary := agg.Fetch(ctx, owner)
		if len(summary.Rows) == 0 {
			continue
		}

		stats.ownersWithLocks++
		stats.totalLocks += summary.TotalLocks
		stats.totalUnlock += summary.TotalUnlock

		printOwnerHeader(owner, summary)
		for i, row := range summary.Rows {
			printLock(row, explorerUrl, i == len(summary.Rows)-1)
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	toolFlag := flag.String("tool", models.ToolTokenLocker, "Locker to query: token-locker or liquidity-locker")
	addressFlag := flag.String("address", "", "Owner address (default: watchlist addresses, then the signer)")
	flag.Parse()

	logger.Info("Starting lock query", zap.String("tool", *toolFlag))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Features.ComingSoon(*toolFlag) {
		common.PrintComingSoon(*toolFlag)
		return
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	agg, err := services.LockTool(*toolFlag)
	if err != nil {
		logger.Fatal("Invalid tool", zap.Error(err))
	}
	if !agg.Enabled() {
		logger.Warn("Locker address not configured, the report will be empty", zap.String("tool", *toolFlag))
	}

	owners, err := common.InitializeAddresses(*addressFlag, services.Submitter.From(), cfg.Watcher.WatchlistFile, logger)
	if err != nil {
		logger.Fatal("Failed to resolve owners", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("LOCK REPORT: %s on %s", *toolFlag, services.Chain.Name), common.DefaultWidth)

	stats := generateReport(ctx, agg, owners, services.Chain.ExplorerUrl)

	summary := fmt.Sprintf("SUMMARY: %d owners with locks (%d active locks, %d withdrawable, %d owners queried)",
		stats.ownersWithLocks, stats.totalLocks, stats.totalUnlock, stats.totalOwners)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Lock query completed",
		zap.String("tool", *toolFlag),
		zap.Int("owners_queried", stats.totalOwners),
		zap.Int("active_locks", stats.totalLocks),
		zap.Int("withdrawable", stats.totalUnlock))
}
