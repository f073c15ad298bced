package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"
	"token-tools-go/internal/watcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	tokenLocks     *fakeLockTool
	liquidityLocks *fakeLockTool
	vestings       *fakeVestingTool
	submitter      *fakeSubmitter
	snapshots      *watcher.Watcher
	router         http.Handler
}

func newTestEnv(features models.FeatureConfig) *testEnv {
	env := &testEnv{
		tokenLocks:     &fakeLockTool{tool: models.ToolTokenLocker, enabled: true},
		liquidityLocks: &fakeLockTool{tool: models.ToolLiquidityLocker, enabled: true},
		vestings:       &fakeVestingTool{},
		submitter:      &fakeSubmitter{canSign: true},
	}
	env.snapshots = watcher.NewWatcher(watcher.Config{
		Locks:    []watcher.LockSource{env.tokenLocks, env.liquidityLocks},
		Vestings: env.vestings,
		Features: features,
	})
	svc := NewToolsService(ToolsServiceConfig{
		Chain: models.ChainDefinition{
			Id:           9745,
			Name:         "Test Chain",
			ExplorerName: "TestScan",
			ExplorerUrl:  "https://scan.example/",
		},
		Network:   fakeNetwork{chainId: 9745},
		Locks:     []LockTool{env.tokenLocks, env.liquidityLocks},
		Vestings:  env.vestings,
		Submitter: env.submitter,
		Snapshots: env.snapshots,
		Features:  features,
	})
	env.router = NewRouter(svc)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGetLocks(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.tokenLocks.rows = []models.LockRecord{lockRow(1, 100, 40, 0), lockRow(2, 50, 0, 10)}

	rec := env.do(t, http.MethodGet, "/token-locker/"+signer.Hex()+"/locks")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIdHeader))

	resp := decode[models.LocksResponse](t, rec)
	assert.Equal(t, 2, resp.TotalLocks)
	assert.Equal(t, 1, resp.TotalUnlock)
	require.Len(t, resp.Locks, 2)
	assert.Equal(t, "60 TKN", resp.Locks[0].Amount)
	assert.False(t, resp.Locks[0].CanWithdraw)
	assert.True(t, resp.Locks[1].CanWithdraw)
	assert.Equal(t, "https://scan.example/address/"+token.Hex(), resp.Locks[0].TokenUrl)

	_, _, ok := env.snapshots.LockSnapshot(models.ToolTokenLocker, signer)
	assert.True(t, ok, "live fetch should be stored as snapshot")
}

func TestGetLocks_CachedServesSnapshot(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.snapshots.StoreLocks(models.ToolTokenLocker, models.LockSummary{
		Owner: signer, Rows: []models.LockRecord{lockRow(9, 5, 0, 5)}, TotalLocks: 1, TotalUnlock: 1,
	})

	rec := env.do(t, http.MethodGet, "/token-locker/"+signer.Hex()+"/locks?cached=true")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.LocksResponse](t, rec)
	require.Len(t, resp.Locks, 1)
	assert.Equal(t, "9", resp.Locks[0].LockId)
	assert.Equal(t, 0, env.tokenLocks.fetchCount())
}

func TestGetLocks_ComingSoonPerformsNoReads(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{LiquidityLockerComingSoon: true})

	rec := env.do(t, http.MethodGet, "/liquidity-locker/"+signer.Hex()+"/locks")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.LocksResponse](t, rec)
	assert.True(t, resp.ComingSoon)
	assert.Empty(t, resp.Locks)
	assert.Equal(t, 0, env.liquidityLocks.fetchCount())
}

func TestGetLocks_InvalidOwner(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})

	rec := env.do(t, http.MethodGet, "/token-locker/not-an-address/locks")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_address", decode[models.ErrorResponse](t, rec).Code)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.tokenLocks.rows = []models.LockRecord{lockRow(2, 50, 0, 10)}

	rec := env.do(t, http.MethodPost, "/token-locker/locks/2/withdraw")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decode[models.SubmitResponse](t, rec)
	assert.True(t, resp.State.Confirming)
	assert.Equal(t, "https://scan.example/tx/"+testHash, resp.ExplorerUrl)

	require.Len(t, env.submitter.requests, 1)
	req := env.submitter.requests[0]
	assert.Equal(t, models.ActionWithdraw, req.Action)
	assert.Equal(t, "withdraw", req.Method)
	assert.Equal(t, locker, req.Contract)
	assert.Equal(t, 0, big.NewInt(2).Cmp(req.Args[0].(*big.Int)))
	require.NotNil(t, req.OnSuccess)

	before := env.tokenLocks.fetchCount()
	req.OnSuccess()
	assert.Equal(t, before+1, env.tokenLocks.fetchCount(), "success hook refetches once")
}

func TestWithdraw_Refusals(t *testing.T) {
	tests := []struct {
		name     string
		features models.FeatureConfig
		setup    func(env *testEnv)
		path     string
		status   int
		code     string
	}{
		{
			name:   "nothing withdrawable",
			setup:  func(env *testEnv) { env.tokenLocks.rows = []models.LockRecord{lockRow(1, 100, 0, 0)} },
			path:   "/token-locker/locks/1/withdraw",
			status: http.StatusUnprocessableEntity,
			code:   "not_actionable",
		},
		{
			name:   "unknown lock",
			setup:  func(env *testEnv) {},
			path:   "/token-locker/locks/5/withdraw",
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name: "busy",
			setup: func(env *testEnv) {
				env.tokenLocks.rows = []models.LockRecord{lockRow(1, 100, 0, 10)}
				env.submitter.busy = true
			},
			path:   "/token-locker/locks/1/withdraw",
			status: http.StatusConflict,
			code:   "busy",
		},
		{
			name:   "no signer",
			setup:  func(env *testEnv) { env.submitter.canSign = false },
			path:   "/token-locker/locks/1/withdraw",
			status: http.StatusServiceUnavailable,
			code:   "no_signer",
		},
		{
			name:     "coming soon",
			features: models.FeatureConfig{LiquidityLockerComingSoon: true},
			setup:    func(env *testEnv) {},
			path:     "/liquidity-locker/locks/1/withdraw",
			status:   http.StatusForbidden,
			code:     "coming_soon",
		},
		{
			name:   "bad id",
			setup:  func(env *testEnv) {},
			path:   "/token-locker/locks/abc/withdraw",
			status: http.StatusBadRequest,
			code:   "invalid_id",
		},
		{
			name:   "disabled tool",
			setup:  func(env *testEnv) { env.tokenLocks.enabled = false },
			path:   "/token-locker/locks/1/withdraw",
			status: http.StatusServiceUnavailable,
			code:   "tool_disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(tt.features)
			tt.setup(env)

			rec := env.do(t, http.MethodPost, tt.path)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[models.ErrorResponse](t, rec).Code)
			assert.Empty(t, env.submitter.requests)
		})
	}
}

func TestWithdraw_SubmitFailure(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.tokenLocks.rows = []models.LockRecord{lockRow(1, 100, 0, 10)}
	env.submitter.err = submitter.ErrNoSigner

	rec := env.do(t, http.MethodPost, "/token-locker/locks/1/withdraw")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetVestings(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.vestings.rows = []models.VestingSchedule{{
		ScheduleId:  big.NewInt(3),
		Token:       token,
		Beneficiary: signer,
		TotalAmount: big.NewInt(2_500_000),
		Released:    big.NewInt(1_000_000),
		Start:       big.NewInt(1700000000),
		IsActive:    true,
	}}

	rec := env.do(t, http.MethodGet, "/vesting/"+signer.Hex()+"/schedules")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.VestingsResponse](t, rec)
	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, "2.5", resp.Schedules[0].Total)
	assert.Equal(t, "1", resp.Schedules[0].Released)
	assert.True(t, resp.Schedules[0].Claimable)
	assert.Equal(t, 1, resp.ClaimableCount)
}

func TestGetVestings_ComingSoon(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{VestingComingSoon: true})

	rec := env.do(t, http.MethodGet, "/vesting/"+signer.Hex()+"/schedules")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.VestingsResponse](t, rec).ComingSoon)
	assert.Equal(t, 0, env.vestings.fetches)
}

func TestClaim(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.vestings.rows = []models.VestingSchedule{
		{ScheduleId: big.NewInt(3), Token: token, TotalAmount: big.NewInt(10), Released: big.NewInt(4), IsActive: true},
		{ScheduleId: big.NewInt(4), Token: token, TotalAmount: big.NewInt(10), Released: big.NewInt(10), IsActive: true},
	}

	rec := env.do(t, http.MethodPost, "/vesting/schedules/3/claim")
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, env.submitter.requests, 1)
	assert.Equal(t, "claim", env.submitter.requests[0].Method)
	assert.Equal(t, factory, env.submitter.requests[0].Contract)

	env.submitter.state = models.TransactionState{}
	rec = env.do(t, http.MethodPost, "/vesting/schedules/4/claim")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCurrentTransaction(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})
	env.submitter.state = models.TransactionState{Action: models.ActionWithdraw, Pending: true}

	rec := env.do(t, http.MethodGet, "/transactions/current")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.SubmitResponse](t, rec).State.Pending)
}

func TestNetworkAndHealth(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})

	rec := env.do(t, http.MethodGet, "/network")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[models.NetworkStatus](t, rec)
	assert.True(t, status.Correct)
	assert.Equal(t, "Test Chain • 9745", status.Label)

	rec = env.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExplorerTx(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})

	rec := env.do(t, http.MethodGet, "/explorer/tx/"+testHash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://scan.example/tx/"+testHash, decode[map[string]string](t, rec)["url"])

	rec = env.do(t, http.MethodGet, "/explorer/tx/0x1234")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJournal_Pagination(t *testing.T) {
	env := newTestEnv(models.FeatureConfig{})

	rec := env.do(t, http.MethodGet, "/transactions?limit=10&offset=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.JournalEntry](t, rec))

	rec = env.do(t, http.MethodGet, "/transactions?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
