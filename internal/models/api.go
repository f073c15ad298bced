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

// LockView is a lock row as presented to clients
type LockView struct {
	LockId          string    `json:"lock_id"`
	Token           string    `json:"token"`
	TokenUrl        string    `json:"token_url,omitempty"`
	Symbol          string    `json:"symbol"`
	Decimals        int       `json:"decimals"`
	Amount          string    `json:"amount"`
	Withdrawable    string    `json:"withdrawable"`
	UnlockDate      time.Time `json:"unlock_date"`
	CanWithdraw     bool      `json:"can_withdraw"`
	WithdrawPending bool      `json:"withdraw_pending"`
}

// LocksResponse is the payload of the lock listing endpoints
type LocksResponse struct {
	Tool        string     `json:"tool"`
	Owner       string     `json:"owner"`
	ComingSoon  bool       `json:"coming_soon"`
	Message     string     `json:"message,omitempty"`
	TotalLocks  int        `json:"total_locks"`
	TotalUnlock int        `json:"total_unlock"`
	Locks       []LockView `json:"locks"`
}

// VestingView is a vesting schedule as presented to clients
type VestingView struct {
	ScheduleId  string    `json:"schedule_id"`
	Token       string    `json:"token"`
	Beneficiary string    `json:"beneficiary"`
	Decimals    int       `json:"decimals"`
	Total       string    `json:"total"`
	Released    string    `json:"released"`
	Start       time.Time `json:"start"`
	Claimable   bool      `json:"claimable"`
}

// VestingsResponse is the payload of the vesting listing endpoint
type VestingsResponse struct {
	Beneficiary    string        `json:"beneficiary"`
	ComingSoon     bool          `json:"coming_soon"`
	Message        string        `json:"message,omitempty"`
	TotalSchedules int           `json:"total_schedules"`
	ClaimableCount int           `json:"claimable_count"`
	Schedules      []VestingView `json:"schedules"`
}

// SubmitResponse is returned when a write call was accepted
type SubmitResponse struct {
	State       TransactionState `json:"state"`
	ExplorerUrl string           `json:"explorer_url,omitempty"`
}

// ErrorResponse is the body of every non-2xx API answer
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceId string `json:"trace_id,omitempty"`
}
