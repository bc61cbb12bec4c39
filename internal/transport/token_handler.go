package transport

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/token"
	"github.com/monfortune/oracle-backend/internal/utils"
)

// TokenTrader is the trade/info surface of the token manager.
type TokenTrader interface {
	TokenInfo(ctx context.Context) (*token.Info, error)
	Buy(ctx context.Context, value, minTokens *big.Int) (*token.TradeResult, error)
	Sell(ctx context.Context, tokenAmount, minNative *big.Int) (*token.TradeResult, error)
}

// TokenHandler serves the FORTUNE token routes. Everything here is a thin
// wrapper over the manager; failures never touch the fortune pipeline.
type TokenHandler struct {
	managers       map[model.Network]TokenTrader
	defaultNetwork model.Network
	logger         *zap.Logger
}

// NewTokenHandler returns a TokenHandler instance.
func NewTokenHandler(managers map[model.Network]TokenTrader, defaultNetwork model.Network, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		managers:       managers,
		defaultNetwork: defaultNetwork,
		logger:         logger.Named("tokenHandler"),
	}
}

func (h *TokenHandler) manager(w http.ResponseWriter, network string) (TokenTrader, bool) {
	tag := model.Network(network)
	if tag == "" {
		tag = h.defaultNetwork
	}
	manager, ok := h.managers[tag]
	if !ok {
		writeError(w, h.logger, http.StatusBadRequest, "FORTUNE token not configured for network "+string(tag))
		return nil, false
	}
	return manager, true
}

func (h *TokenHandler) writeManagerError(w http.ResponseWriter, err error) {
	if errors.Is(err, token.ErrNotConfigured) {
		writeError(w, h.logger, http.StatusBadRequest, "FORTUNE token not configured")
		return
	}
	h.logger.Error("token operation failed", zap.Error(err))
	writeError(w, h.logger, http.StatusBadGateway, "token operation failed")
}

// Info serves GET /token/info.
func (h *TokenHandler) Info(w http.ResponseWriter, r *http.Request) {
	manager, ok := h.manager(w, r.URL.Query().Get("network"))
	if !ok {
		return
	}
	info, err := manager.TokenInfo(r.Context())
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, info)
}

type tradeRequest struct {
	Network   string `json:"network"`
	Amount    string `json:"amount"`
	MinTokens string `json:"min_tokens"`
	MinNative string `json:"min_native"`
}

func (h *TokenHandler) decodeTrade(w http.ResponseWriter, r *http.Request) (*tradeRequest, bool) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	if req.Amount == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Missing amount")
		return nil, false
	}
	return &req, true
}

func parseOptionalAmount(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	return utils.ParseWei(value)
}

// Buy serves POST /token/buy.
func (h *TokenHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTrade(w, r)
	if !ok {
		return
	}
	manager, ok := h.manager(w, req.Network)
	if !ok {
		return
	}
	value, err := utils.ParseWei(req.Amount)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid amount")
		return
	}
	minTokens, err := parseOptionalAmount(req.MinTokens)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid min_tokens")
		return
	}
	result, err := manager.Buy(r.Context(), value, minTokens)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// Sell serves POST /token/sell.
func (h *TokenHandler) Sell(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTrade(w, r)
	if !ok {
		return
	}
	manager, ok := h.manager(w, req.Network)
	if !ok {
		return
	}
	amount, err := utils.ParseWei(req.Amount)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid amount")
		return
	}
	minNative, err := parseOptionalAmount(req.MinNative)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid min_native")
		return
	}
	result, err := manager.Sell(r.Context(), amount, minNative)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
