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

	"token-tools-go/internal/chain"
	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/models"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type contractCheck struct {
	label   string
	tool    string
	address string
}

func contractChecks(cfg models.ContractsConfig) []contractCheck {
	return []contractCheck{
		{label: "Token locker", tool: models.ToolTokenLocker, address: cfg.TokenLocker},
		{label: "Liquidity locker", tool: models.ToolLiquidityLocker, address: cfg.LiquidityLocker},
		{label: "Vesting factory", tool: models.ToolVesting, address: cfg.VestingFactory},
		{label: "Multi sender", tool: models.ToolMultisend, address: cfg.MultiSender},
	}
}

// checkContracts reports whether every configured contract has code. Empty
// addresses disable the tool and are not failures.
func checkContracts(ctx context.Context, services *common.Services, cfg *models.Config) bool {
	ok := true
	for _, c := range contractChecks(cfg.Contracts) {
		status := ""
		if cfg.Features.ComingSoon(c.tool) {
			status = " (coming soon)"
		}

		if c.address == "" {
			common.PrintCheck(c.label, true, "not configured, tool disabled"+status)
			continue
		}
		if !ethcommon.IsHexAddress(c.address) {
			common.PrintCheck(c.label, false, fmt.Sprintf("invalid address %q", c.address))
			ok = false
			continue
		}

		address := ethcommon.HexToAddress(c.address)
		deployed, err := services.Reader.HasCode(ctx, address)
		if err != nil {
			zap.L().Error("Code check failed", zap.String("contract", c.label), zap.Error(err))
			common.PrintCheck(c.label, false, err.Error())
			ok = false
			continue
		}
		if !deployed {
			common.PrintCheck(c.label, false, address.Hex()+" has no code")
			ok = false
			continue
		}
		common.PrintCheck(c.label, true, address.Hex()+status)
	}
	return ok
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	skipContracts := flag.Bool("skip-contracts", false, "Only check the network and the journal")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	// Opening the journal creates its schema
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("TOKEN TOOLS SETUP", common.DefaultWidth)

	ok := true
	status, err := chain.CheckNetwork(ctx, services.Client, services.Chain)
	switch {
	case err != nil:
		common.PrintCheck("Network", false, err.Error())
		ok = false
	case !status.Correct:
		common.PrintCheck("Network", false, fmt.Sprintf("%s (node serves chain %d, expected %d)",
			status.Label, status.ActualChainId, status.ExpectedChainId))
		ok = false
	default:
		common.PrintCheck("Network", true, fmt.Sprintf("%s at block %d", status.Label, status.BlockNumber))
	}

	common.PrintCheck("Journal", true, cfg.Database.Path)

	if services.Submitter.CanSign() {
		common.PrintCheck("Signer", true, services.Submitter.From().Hex())
	} else {
		common.PrintCheck("Signer", true, "not configured, writes disabled")
	}

	if !*skipContracts && ok {
		common.PrintBoxSeparator(common.DefaultWidth - 2)
		ok = checkContracts(ctx, services, cfg)
	}

	if !ok {
		common.PrintFooter("SETUP: checks failed", common.DefaultWidth)
		zap.L().Fatal("Setup checks failed")
	}
	common.PrintFooter("SETUP: ready", common.DefaultWidth)
	zap.L().Info("Setup complete", zap.String("chain", services.Chain.Name))
}
