// Package transport exposes the oracle's HTTP handlers.
package transport

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("response encode failed", zap.Error(err))
	}
}

func writeRequestError(w http.ResponseWriter, logger *zap.Logger, reqErr *service.RequestError) {
	writeJSON(w, logger, reqErr.Status, errorBody{
		Error: reqErr.Message,
		Code:  reqErr.Code,
		Hint:  reqErr.Hint,
	})
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, errorBody{Error: message})
}
