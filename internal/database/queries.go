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

const (
	entryColumns = `id, action, contract, method, args, tx_hash, status, block_number, error, origin, created_at, updated_at`

	queryInsertEntry = `
		INSERT INTO tx_journal (id, action, contract, method, args, status, origin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + entryColumns

	queryCheckDuplicateHash = `
		SELECT id FROM tx_journal WHERE tx_hash = ? AND id != ? LIMIT 1`

	queryUpdateEntry = `
		UPDATE tx_journal
		SET status = ?,
		    tx_hash = COALESCE(NULLIF(?, ''), tx_hash),
		    block_number = ?,
		    error = ?,
		    updated_at = ?
		WHERE id = ?`

	queryGetEntryById = `
		SELECT ` + entryColumns + `
		FROM tx_journal
		WHERE id = ?`

	queryGetEntryByHash = `
		SELECT ` + entryColumns + `
		FROM tx_journal
		WHERE LOWER(tx_hash) = LOWER(?)`

	queryListEntries = `
		SELECT ` + entryColumns + `
		FROM tx_journal
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	queryListUnsettled = `
		SELECT ` + entryColumns + `
		FROM tx_journal
		WHERE status IN ('pending', 'confirming')
		ORDER BY created_at`
)
