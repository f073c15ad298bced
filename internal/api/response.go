package api

import (
	"encoding/json"
	"net/http"

	"token-tools-go/internal/models"

	"go.uber.org/zap"
)

// WriteError writes a JSON error body
func WriteError(w http.ResponseWriter, statusCode int, code, message, traceId string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
		TraceId: traceId,
	}); err != nil {
		zap.L().Debug("Failed to write error response", zap.Error(err))
	}
}

// WriteSuccess writes data as a JSON body
func WriteSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Debug("Failed to write response", zap.Error(err))
	}
}
