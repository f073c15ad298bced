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

package models

import "time"

// Journal entry statuses
const (
	JournalStatusPending    = "pending"
	JournalStatusConfirming = "confirming"
	JournalStatusSuccess    = "success"
	JournalStatusReverted   = "reverted"
	JournalStatusFailed     = "failed"
)

// JournalEntry is the audit record of one submitted write call
type JournalEntry struct {
	Id          string    `db:"id" json:"id"`
	Action      string    `db:"action" json:"action"`
	Contract    string    `db:"contract" json:"contract"`
	Method      string    `db:"method" json:"method"`
	Args        string    `db:"args" json:"args"`
	TxHash      string    `db:"tx_hash" json:"tx_hash,omitempty"`
	Status      string    `db:"status" json:"status"`
	BlockNumber uint64    `db:"block_number" json:"block_number,omitempty"`
	Error       string    `db:"error" json:"error,omitempty"`
	Origin      string    `db:"origin" json:"origin,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IsSettled reports whether the entry reached a terminal status
func (e JournalEntry) IsSettled() bool {
	switch e.Status {
	case JournalStatusSuccess, JournalStatusReverted, JournalStatusFailed:
		return true
	}
	return false
}
