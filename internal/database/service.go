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

package database

import (
	"context"
	"database/sql"
	"fmt"

	"token-tools-go/internal/models"
	"token-tools-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.TxJournal.
var _ store.TxJournal = (*Service)(nil)

type Service struct {
	db      *sql.DB
	journal *JournalService
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	journal := NewJournalService(db)
	if err := journal.InitSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize journal schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return &Service{db: db, journal: journal}, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) CreateEntry(ctx context.Context, params store.CreateEntryParams) (*models.JournalEntry, error) {
	return s.journal.CreateEntry(ctx, params)
}

func (s *Service) UpdateEntry(ctx context.Context, params store.UpdateEntryParams) error {
	return s.journal.UpdateEntry(ctx, params)
}

func (s *Service) GetEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	return s.journal.GetEntry(ctx, id)
}

func (s *Service) GetEntryByHash(ctx context.Context, txHash string) (*models.JournalEntry, error) {
	return s.journal.GetEntryByHash(ctx, txHash)
}

func (s *Service) ListEntries(ctx context.Context, limit, offset int) ([]models.JournalEntry, error) {
	return s.journal.ListEntries(ctx, limit, offset)
}

func (s *Service) ListUnsettled(ctx context.Context) ([]models.JournalEntry, error) {
	return s.journal.ListUnsettled(ctx)
}
