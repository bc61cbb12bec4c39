package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/service"
)

// FortuneProcessor runs the offering pipeline.
type FortuneProcessor interface {
	Process(ctx context.Context, offering model.Offering) (*model.Reading, *service.RequestError)
}

// FortuneHandler serves POST /fortune.
type FortuneHandler struct {
	processor FortuneProcessor
	logger    *zap.Logger
}

// NewFortuneHandler returns a FortuneHandler instance.
func NewFortuneHandler(processor FortuneProcessor, logger *zap.Logger) *FortuneHandler {
	return &FortuneHandler{
		processor: processor,
		logger:    logger.Named("fortuneHandler"),
	}
}

type fortuneRequest struct {
	TxHash      string `json:"txhash"`
	Message     string `json:"message"`
	Network     string `json:"network"`
	CallbackURL string `json:"callback_url"`
}

func (h *FortuneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req fortuneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	// Explicit network in the body wins over the query parameter; both win
	// over auto-detection.
	network := req.Network
	if network == "" {
		network = r.URL.Query().Get("network")
	}

	reading, reqErr := h.processor.Process(r.Context(), model.Offering{
		TxHash:      req.TxHash,
		Message:     req.Message,
		Network:     model.Network(network),
		CallbackURL: req.CallbackURL,
	})
	if reqErr != nil {
		writeRequestError(w, h.logger, reqErr)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, reading)
}
