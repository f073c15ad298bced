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

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-tools-go/internal/chain"
	"token-tools-go/internal/models"
	"token-tools-go/internal/store"
	"token-tools-go/internal/submitter"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrComingSoon    = errors.New("tool is coming soon")
	ErrToolDisabled  = errors.New("tool is not configured")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrNotFound      = errors.New("record not found")
	ErrNotActionable = errors.New("nothing to withdraw or claim")
	ErrInvalidId     = errors.New("invalid id")
)

// LockTool lists the locks of one locker contract
type LockTool interface {
	Tool() string
	Enabled() bool
	Locker() common.Address
	Fetch(ctx context.Context, owner common.Address) models.LockSummary
}

// VestingTool lists vesting schedules of the factory
type VestingTool interface {
	Enabled() bool
	Factory() common.Address
	Fetch(ctx context.Context, beneficiary common.Address) models.VestingSummary
}

// TxSubmitter sends write calls
type TxSubmitter interface {
	CanSign() bool
	From() common.Address
	Busy() bool
	State() models.TransactionState
	SubmitAsync(ctx context.Context, req submitter.Request) (models.TransactionState, error)
}

// Snapshots keeps the latest summaries per address
type Snapshots interface {
	LockSnapshot(tool string, owner common.Address) (models.LockSummary, time.Time, bool)
	VestingSnapshot(beneficiary common.Address) (models.VestingSummary, time.Time, bool)
	StoreLocks(tool string, summary models.LockSummary)
	StoreVestings(summary models.VestingSummary)
	Track(address common.Address)
	RefreshFunc(ctx context.Context, address common.Address) func()
}

// ToolsServiceConfig contains the dependencies of ToolsService
type ToolsServiceConfig struct {
	Chain     models.ChainDefinition
	Network   chain.ChainInfoReader
	Locks     []LockTool
	Vestings  VestingTool
	Submitter TxSubmitter
	Journal   store.TxJournal
	Snapshots Snapshots
	Features  models.FeatureConfig
}

// ToolsService exposes the token tools to the HTTP layer
type ToolsService struct {
	chain     models.ChainDefinition
	network   chain.ChainInfoReader
	locks     map[string]LockTool
	vestings  VestingTool
	submitter TxSubmitter
	journal   store.TxJournal
	snapshots Snapshots
	features  models.FeatureConfig
}

func NewToolsService(cfg ToolsServiceConfig) *ToolsService {
	locks := make(map[string]LockTool, len(cfg.Locks))
	for _, l := range cfg.Locks {
		locks[l.Tool()] = l
	}
	return &ToolsService{
		chain:     cfg.Chain,
		network:   cfg.Network,
		locks:     locks,
		vestings:  cfg.Vestings,
		submitter: cfg.Submitter,
		journal:   cfg.Journal,
		snapshots: cfg.Snapshots,
		features:  cfg.Features,
	}
}

func (s *ToolsService) HealthCheck(ctx context.Context) error {
	if s.network != nil {
		if _, err := s.network.BlockNumber(ctx); err != nil {
			return fmt.Errorf("rpc health check failed: %w", err)
		}
	}
	if s.journal != nil {
		if _, err := s.journal.ListEntries(ctx, 1, 0); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	return nil
}

// Network compares the node chain id with the configured chain
func (s *ToolsService) Network(ctx context.Context) (models.NetworkStatus, error) {
	return chain.CheckNetwork(ctx, s.network, s.chain)
}

// CurrentTransaction returns the tracked write operation
func (s *ToolsService) CurrentTransaction() models.TransactionState {
	if s.submitter == nil {
		return models.TransactionState{}
	}
	return s.submitter.State()
}

// Journal lists submitted writes, newest first
func (s *ToolsService) Journal(ctx context.Context, limit, offset int) ([]models.JournalEntry, error) {
	if s.journal == nil {
		return []models.JournalEntry{}, nil
	}
	return s.journal.ListEntries(ctx, limit, offset)
}

func (s *ToolsService) busy() bool {
	return s.submitter != nil && s.submitter.Busy()
}

// checkWritable validates the common preconditions of a write
func (s *ToolsService) checkWritable(tool string) error {
	if s.features.ComingSoon(tool) {
		return ErrComingSoon
	}
	if s.submitter == nil || !s.submitter.CanSign() {
		return submitter.ErrNoSigner
	}
	if s.submitter.Busy() {
		return submitter.ErrBusy
	}
	return nil
}

func (s *ToolsService) submit(ctx context.Context, req submitter.Request) (*models.SubmitResponse, error) {
	if s.snapshots != nil {
		req.OnSuccess = s.snapshots.RefreshFunc(ctx, s.submitter.From())
	}
	state, err := s.submitter.SubmitAsync(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.SubmitResponse{
		State:       state,
		ExplorerUrl: explorerTxURL(s.chain, state.Hash),
	}, nil
}
