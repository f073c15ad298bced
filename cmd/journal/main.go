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

	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/models"

	"go.uber.org/zap"
)

type journalStats struct {
	total    int
	settled  int
	inFlight int
	failed   int
}

func formatHash(hash string) string {
	if hash == "" {
		return "none"
	}
	if len(hash) > 14 {
		return hash[:10] + "..." + hash[len(hash)-4:]
	}
	return hash
}

func printEntry(entry models.JournalEntry, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	fmt.Printf("%s %-10s %-11s %-20s tx: %s  (%s)\n",
		symbol,
		entry.Action,
		entry.Status,
		entry.Method,
		formatHash(entry.TxHash),
		entry.CreatedAt.Format("2006-01-02 15:04:05"))

	detail := common.BoxDetailPrefix(isLast)
	fmt.Printf("%s   Contract: %s  Args: %s\n", detail, entry.Contract, entry.Args)
	if entry.BlockNumber > 0 {
		fmt.Printf("%s   Block: %d\n", detail, entry.BlockNumber)
	}
	if entry.Error != "" {
		fmt.Printf("%s   Error: %s\n", detail, entry.Error)
	}
}

func collectStats(entries []models.JournalEntry) journalStats {
	stats := journalStats{total: len(entries)}
	for _, e := range entries {
		switch {
		case !e.IsSettled():
			stats.inFlight++
		case e.Status == models.JournalStatusSuccess:
			stats.settled++
		default:
			stats.failed++
		}
	}
	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	limitFlag := flag.Int("limit", 50, "Number of entries to show")
	offsetFlag := flag.Int("offset", 0, "Number of entries to skip")
	unsettledFlag := flag.Bool("unsettled", false, "Only show entries still pending or confirming")
	flag.Parse()

	logger.Info("Starting journal query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Read-only: the chain is not needed
	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	var entries []models.JournalEntry
	if *unsettledFlag {
		entries, err = dbService.ListUnsettled(ctx)
	} else {
		entries, err = dbService.ListEntries(ctx, *limitFlag, *offsetFlag)
	}
	if err != nil {
		logger.Fatal("Failed to list journal", zap.Error(err))
	}

	common.PrintHeader("TRANSACTION JOURNAL", common.WideWidth)
	for i, entry := range entries {
		printEntry(entry, i == len(entries)-1)
	}

	stats := collectStats(entries)
	summary := fmt.Sprintf("SUMMARY: %d entries (%d succeeded, %d failed or reverted, %d in flight)",
		stats.total, stats.settled, stats.failed, stats.inFlight)
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Journal query completed", zap.Int("entries", stats.total))
}
