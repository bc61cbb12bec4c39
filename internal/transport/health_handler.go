package transport

import (
	"context"
	"math/big"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/utils"
	"github.com/monfortune/oracle-backend/pkg/workerpool"
)

// BalanceProber reports one network's oracle account state.
type BalanceProber interface {
	OracleAddress() common.Address
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
}

// HealthHandler serves GET /health with per-network oracle status.
type HealthHandler struct {
	known   []model.Network // every network the deployment knows about
	probers map[model.Network]BalanceProber
	logger  *zap.Logger
}

// NewHealthHandler returns a HealthHandler instance.
func NewHealthHandler(known []model.Network, probers map[model.Network]BalanceProber, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		known:   known,
		probers: probers,
		logger:  logger.Named("healthHandler"),
	}
}

type networkHealth struct {
	Configured bool   `json:"configured"`
	Address    string `json:"address,omitempty"`
	Balance    string `json:"balance,omitempty"`
	Status     string `json:"status"`
}

type healthResponse struct {
	Status   string                          `json:"status"`
	Networks map[model.Network]networkHealth `json:"networks"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Networks: make(map[model.Network]networkHealth, len(h.known)),
	}
	var mu sync.Mutex
	for _, network := range h.known {
		if _, ok := h.probers[network]; !ok {
			resp.Networks[network] = networkHealth{Status: "not configured"}
		}
	}

	configured := make([]model.Network, 0, len(h.probers))
	for network := range h.probers {
		configured = append(configured, network)
	}
	err := workerpool.Process(r.Context(), len(configured), configured,
		func(ctx context.Context, network model.Network) error {
			prober := h.probers[network]
			entry := networkHealth{
				Configured: true,
				Address:    prober.OracleAddress().Hex(),
				Status:     "ok",
			}
			balance, err := prober.Balance(ctx, prober.OracleAddress())
			if err != nil {
				h.logger.Warn("health balance probe failed",
					zap.String("network", string(network)),
					zap.Error(err),
				)
				entry.Status = "unreachable"
			} else {
				entry.Balance = utils.FormatWei(balance)
			}
			mu.Lock()
			resp.Networks[network] = entry
			mu.Unlock()
			// Probe failures degrade the entry, never the endpoint.
			return nil
		}, nil)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "health probe canceled")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}
