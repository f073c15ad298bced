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

	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/format"
	"token-tools-go/internal/models"
	"token-tools-go/internal/multisend"
	"token-tools-go/internal/submitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func printPlan(plan *multisend.Plan, chainName string) {
	common.PrintHeader("MULTI-SEND REQUEST", common.WideWidth)
	fmt.Printf("Chain:       %s\n", chainName)
	fmt.Printf("Token:       %s\n", plan.Token.Hex())
	fmt.Printf("Recipients:  %d\n", len(plan.Recipients))
	fmt.Printf("Total:       %s\n", format.SafeFormat(plan.Total, plan.Decimals, plan.Symbol))
	fmt.Printf("Balance:     %s\n", format.SafeFormat(plan.Balance, plan.Decimals, plan.Symbol))
	fmt.Printf("Allowance:   %s\n", format.SafeFormat(plan.Allowance, plan.Decimals, plan.Symbol))
	common.PrintBoxSeparator(98)
	for i, r := range plan.Recipients {
		fmt.Printf("%s %s → %s\n", common.BoxPrefix(i == len(plan.Recipients)-1), r.Address.Hex(),
			format.SafeFormat(r.Raw, plan.Decimals, plan.Symbol))
	}
	common.PrintSeparator("=", common.WideWidth)
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	tokenFlag := flag.String("token", "", "ERC-20 token address (required)")
	fileFlag := flag.String("file", "", "CSV file with address,amount rows (required)")
	dryRunFlag := flag.Bool("dry-run", false, "Check balance and allowance without sending")
	flag.Parse()

	if *tokenFlag == "" || *fileFlag == "" {
		zap.L().Fatal("Invalid flags", zap.Error(fmt.Errorf("--token and --file are required")))
	}
	token, err := common.ParseAddress(*tokenFlag)
	if err != nil {
		zap.L().Fatal("Invalid token", zap.Error(err))
	}

	ctx := models.WithSubmissionContext(context.Background(), &models.SubmissionContext{
		Origin:    "cli",
		RequestId: uuid.New().String(),
	})

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	sender, err := multisend.NewSender(services.Reader, services.Submitter, cfg.Contracts.MultiSender)
	if err != nil {
		zap.L().Fatal("Multi-send unavailable", zap.Error(err))
	}

	decimals := sender.TokenDecimals(ctx, token)
	recipients, err := multisend.LoadRecipients(*fileFlag, decimals)
	if err != nil {
		zap.L().Fatal("Invalid recipients file", zap.String("file", *fileFlag), zap.Error(err))
	}

	plan, err := sender.Prepare(ctx, token, decimals, recipients)
	if plan != nil {
		printPlan(plan, services.Chain.Name)
	}
	if err != nil {
		fmt.Println("\n❌ Multi-send check failed")
		zap.L().Fatal("Multi-send check failed", zap.Error(err))
	}

	if plan.NeedsApproval {
		fmt.Println("\nApproval required before sending")
	}
	if *dryRunFlag {
		fmt.Println("\n✅ Dry run passed, nothing sent")
		return
	}

	fmt.Println("\n🔄 Sending multi-send transaction...")
	state, err := sender.Execute(ctx, plan, func() {
		balance, err := services.Reader.BalanceOf(ctx, token, services.Submitter.From())
		if err == nil {
			fmt.Printf("   Remaining balance: %s\n", format.SafeFormat(balance, plan.Decimals, plan.Symbol))
		}
	})
	if url := format.ExplorerTxURL(services.Chain.ExplorerUrl, state.Hash); url != "" {
		fmt.Printf("   %s\n", url)
	}
	if errors.Is(err, submitter.ErrUnconfirmed) {
		fmt.Println("⏳ Multi-send sent but not confirmed yet, the journal keeps it confirming")
		zap.L().Warn("Multi-send not confirmed", zap.String("hash", state.Hash), zap.Error(err))
		return
	}
	if err != nil {
		fmt.Println("❌ Multi-send failed")
		zap.L().Fatal("Multi-send failed", zap.Error(err))
	}

	fmt.Printf("✅ Multi-send confirmed in block %d\n\n", state.BlockNumber)
	zap.L().Info("Multi-send completed successfully",
		zap.String("token", token.Hex()),
		zap.Int("recipients", len(plan.Recipients)),
		zap.String("total", plan.Total.String()),
		zap.String("hash", state.Hash))
}
