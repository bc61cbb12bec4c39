// Package resolver determines which configured network a transaction hash
// belongs to.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
)

// ErrNoNetwork reports that no configured network has a receipt for the hash.
// Callers treat this as terminal: it is never retried automatically.
var ErrNoNetwork = errors.New("transaction not found on any configured network")

// ReceiptProber checks whether a receipt exists for a hash on one network.
type ReceiptProber interface {
	HasReceipt(ctx context.Context, hash string) (bool, error)
}

// Resolver resolves the network for a transaction hash. Explicit always wins,
// a configured default network skips probing entirely, and otherwise every
// configured network is probed in a fixed priority order.
type Resolver struct {
	order          []model.Network
	probers        map[model.Network]ReceiptProber
	defaultNetwork model.Network
	logger         *zap.Logger
}

// New builds a Resolver. order fixes the probe priority; defaultNetwork may be
// empty to enable probing.
func New(order []model.Network, probers map[model.Network]ReceiptProber, defaultNetwork model.Network, logger *zap.Logger) *Resolver {
	return &Resolver{
		order:          order,
		probers:        probers,
		defaultNetwork: defaultNetwork,
		logger:         logger.Named("resolver"),
	}
}

// Resolve picks the network for the hash. An explicit configured network is
// returned without any chain query, even if the hash does not exist there:
// the subsequent transaction fetch surfaces that as not-found.
func (r *Resolver) Resolve(ctx context.Context, hash string, explicit model.Network) (model.Network, error) {
	if explicit != "" {
		if _, ok := r.probers[explicit]; !ok {
			return "", fmt.Errorf("network %q is not configured: %w", explicit, ErrNoNetwork)
		}
		return explicit, nil
	}
	if r.defaultNetwork != "" {
		if _, ok := r.probers[r.defaultNetwork]; ok {
			return r.defaultNetwork, nil
		}
	}
	for _, network := range r.order {
		prober, ok := r.probers[network]
		if !ok {
			continue
		}
		found, err := prober.HasReceipt(ctx, hash)
		if err != nil {
			r.logger.Warn("receipt probe failed",
				zap.String("network", string(network)),
				zap.String("txhash", hash),
				zap.Error(err),
			)
			continue
		}
		if found {
			return network, nil
		}
	}
	return "", ErrNoNetwork
}
