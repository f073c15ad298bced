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
	"database/sql"

	"token-tools-go/internal/store"
)

// Sentinel errors for database operations
var (
	ErrDuplicateTransaction = store.ErrDuplicateTransaction
	ErrEntryNotFound        = store.ErrEntryNotFound
)

// JournalService records submitted write calls
type JournalService struct {
	db *sql.DB
}

func NewJournalService(db *sql.DB) *JournalService {
	return &JournalService{
		db: db,
	}
}

func (s *JournalService) InitSchema() error {
	schema := `
	-- One row per write call handed to the signer
	CREATE TABLE IF NOT EXISTS tx_journal (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		contract TEXT NOT NULL,
		method TEXT NOT NULL,
		args TEXT NOT NULL DEFAULT '',
		tx_hash TEXT,
		status TEXT NOT NULL,
		block_number INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_tx_journal_hash ON tx_journal(tx_hash);
	CREATE INDEX IF NOT EXISTS idx_tx_journal_status ON tx_journal(status);
	CREATE INDEX IF NOT EXISTS idx_tx_journal_created_at ON tx_journal(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}
