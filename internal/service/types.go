package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/monfortune/oracle-backend/internal/fortune"
	"github.com/monfortune/oracle-backend/internal/model"
)

type (
	// ChainReader is the observational capability of one network's client.
	ChainReader interface {
		TransactionByHash(ctx context.Context, hash string) (model.ChainTransaction, error)
		OracleAddress() common.Address
		ExplorerTxURL(hash string) string
	}

	// NetworkResolver decides which configured network a hash belongs to.
	NetworkResolver interface {
		Resolve(ctx context.Context, hash string, explicit model.Network) (model.Network, error)
	}

	// ReplayLedger is the single source of truth for replay state.
	ReplayLedger interface {
		HasProcessed(network model.Network, hash string) bool
		Mark(network model.Network, hash string) bool
	}

	// OutcomeEngine maps an offering to its deterministic outcome.
	OutcomeEngine interface {
		Compute(amount *big.Int, message, txHash string, fctx fortune.Context) model.Outcome
	}

	// TextDecorator supplies flavor text for a tier.
	TextDecorator interface {
		Decorate(tier model.Tier) string
	}

	// PayoutExecutor issues the bounded refund transfer on one network.
	PayoutExecutor interface {
		Payout(ctx context.Context, recipient common.Address, multiplier int64, principal *big.Int) model.PayoutResult
	}

	// TokenRewarder opportunistically issues FORTUNE token rewards. Failures
	// must never abort the primary payout response.
	TokenRewarder interface {
		Reward(ctx context.Context, to common.Address, luckScore int, principal *big.Int) (*model.TokenReward, error)
	}

	// CallbackSink accepts best-effort asynchronous response deliveries.
	CallbackSink interface {
		Enqueue(ctx context.Context, url string, reading *model.Reading)
	}

	// Metrics records pipeline outcomes.
	Metrics interface {
		ObserveReading(network model.Network, tier model.Tier, status model.PayoutStatus, started time.Time)
		ObserveRejection(network model.Network, code string)
	}
)

// NetworkBundle groups the per-network capabilities the orchestrator uses.
// Token is optional; Reader and Payout are required.
type NetworkBundle struct {
	Reader ChainReader
	Payout PayoutExecutor
	Token  TokenRewarder
}
