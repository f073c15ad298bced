package api

import (
	"net"
	"net/http"
	"time"

	"token-tools-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestContext tags the request with an id and a submission origin so
// journal entries can be traced back to the API call
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(requestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		w.Header().Set(requestIdHeader, requestId)

		remoteIp, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			remoteIp = r.RemoteAddr
		}

		ctx := models.WithSubmissionContext(r.Context(), &models.SubmissionContext{
			Origin:    "api",
			RemoteIp:  remoteIp,
			RequestId: requestId,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		zap.L().Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get(requestIdHeader)))
	})
}

func requestId(r *http.Request) string {
	if sc := models.GetSubmissionContext(r.Context()); sc != nil {
		return sc.RequestId
	}
	return ""
}
