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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-tools-go/internal/api"
	"token-tools-go/internal/common"
	"token-tools-go/internal/config"
	"token-tools-go/internal/watcher"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Token Tools API")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	w := watcher.NewWatcher(watcher.Config{
		Locks:           []watcher.LockSource{services.TokenLocks, services.LiquidityLocks},
		Vestings:        services.Vestings,
		Journal:         services.DbService,
		Receipts:        services.Client,
		Features:        cfg.Features,
		PollingInterval: cfg.Watcher.PollingInterval,
		CleanupInterval: cfg.Watcher.CleanupInterval,
		Retention:       cfg.Watcher.Retention,
	})
	if err := w.Start(ctx, cfg.Watcher.WatchlistFile); err != nil {
		zap.L().Fatal("Failed to start watcher", zap.Error(err))
	}

	svc := api.NewToolsService(api.ToolsServiceConfig{
		Chain:     services.Chain,
		Network:   services.Client,
		Locks:     []api.LockTool{services.TokenLocks, services.LiquidityLocks},
		Vestings:  services.Vestings,
		Submitter: services.Submitter,
		Journal:   services.DbService,
		Snapshots: w,
		Features:  cfg.Features,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zap.L().Info("HTTP server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("chain", services.Chain.Name),
			zap.Bool("writes_enabled", services.Submitter.CanSign()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping server and watcher...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("HTTP server did not shut down cleanly", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Watcher stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
