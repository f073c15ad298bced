package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"token-tools-go/internal/common"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// NewRouter wires the HTTP routes of svc
func NewRouter(svc *ToolsService) *mux.Router {
	h := &handlers{svc: svc}

	r := mux.NewRouter()
	r.Use(requestContext, accessLog)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/network", h.network).Methods(http.MethodGet)

	for _, tool := range []string{models.ToolTokenLocker, models.ToolLiquidityLocker} {
		r.HandleFunc("/"+tool+"/{owner}/locks", h.locks(tool)).Methods(http.MethodGet)
		r.HandleFunc("/"+tool+"/locks/{id}/withdraw", h.withdraw(tool)).Methods(http.MethodPost)
	}

	r.HandleFunc("/vesting/{beneficiary}/schedules", h.vestings).Methods(http.MethodGet)
	r.HandleFunc("/vesting/schedules/{id}/claim", h.claim).Methods(http.MethodPost)

	r.HandleFunc("/transactions/current", h.currentTransaction).Methods(http.MethodGet)
	r.HandleFunc("/transactions", h.journal).Methods(http.MethodGet)
	r.HandleFunc("/explorer/tx/{hash}", h.explorerTx).Methods(http.MethodGet)

	return r
}

type handlers struct {
	svc *ToolsService
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		zap.L().Warn("Health check failed", zap.Error(err))
		WriteError(w, http.StatusServiceUnavailable, "unhealthy", err.Error(), requestId(r))
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) network(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Network(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, "rpc_error", err.Error(), requestId(r))
		return
	}
	WriteSuccess(w, http.StatusOK, status)
}

func (h *handlers) locks(tool string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := common.ParseAddress(mux.Vars(r)["owner"])
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_address", err.Error(), requestId(r))
			return
		}

		resp, err := h.svc.GetLocks(r.Context(), tool, owner, cached(r))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusOK, resp)
	}
}

func (h *handlers) withdraw(tool string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Withdraw(r.Context(), tool, mux.Vars(r)["id"])
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		WriteSuccess(w, http.StatusAccepted, resp)
	}
}

func (h *handlers) vestings(w http.ResponseWriter, r *http.Request) {
	beneficiary, err := common.ParseAddress(mux.Vars(r)["beneficiary"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_address", err.Error(), requestId(r))
		return
	}

	resp, err := h.svc.GetVestings(r.Context(), beneficiary, cached(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusOK, resp)
}

func (h *handlers) claim(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Claim(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, http.StatusAccepted, resp)
}

func (h *handlers) currentTransaction(w http.ResponseWriter, r *http.Request) {
	state := h.svc.CurrentTransaction()
	WriteSuccess(w, http.StatusOK, models.SubmitResponse{
		State:       state,
		ExplorerUrl: explorerTxURL(h.svc.chain, state.Hash),
	})
}

func (h *handlers) journal(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultJournalLimit)
	if err != nil || limit <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer", requestId(r))
		return
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer", requestId(r))
		return
	}

	entries, err := h.svc.Journal(r.Context(), limit, offset)
	if err != nil {
		zap.L().Error("Failed to list journal", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "db_error", "failed to list transactions", requestId(r))
		return
	}
	WriteSuccess(w, http.StatusOK, entries)
}

func (h *handlers) explorerTx(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]
	if b, err := hexutil.Decode(hash); err != nil || len(b) != 32 {
		WriteError(w, http.StatusBadRequest, "invalid_hash", "expected a 32 byte 0x-prefixed hash", requestId(r))
		return
	}

	url := explorerTxURL(h.svc.chain, hash)
	if url == "" {
		WriteError(w, http.StatusNotFound, "no_explorer", "no block explorer configured", requestId(r))
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]string{"url": url, "explorer": h.svc.chain.ExplorerName})
}

func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusBadGateway, "submit_failed"
	switch {
	case errors.Is(err, ErrComingSoon):
		status, code = http.StatusForbidden, "coming_soon"
	case errors.Is(err, ErrUnknownTool), errors.Is(err, ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrToolDisabled):
		status, code = http.StatusServiceUnavailable, "tool_disabled"
	case errors.Is(err, ErrInvalidId):
		status, code = http.StatusBadRequest, "invalid_id"
	case errors.Is(err, ErrNotActionable):
		status, code = http.StatusUnprocessableEntity, "not_actionable"
	case errors.Is(err, submitter.ErrBusy):
		status, code = http.StatusConflict, "busy"
	case errors.Is(err, submitter.ErrNoSigner):
		status, code = http.StatusServiceUnavailable, "no_signer"
	default:
		zap.L().Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	WriteError(w, status, code, err.Error(), requestId(r))
}

func cached(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("cached"))
	return v
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
