// Package payout issues the bounded refund transfer for a reading.
package payout

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/model"
)

// Submitter is the transfer-submission capability of one network's chain
// client. Nonce ordering across concurrent submissions is its concern.
type Submitter interface {
	SendNative(ctx context.Context, to common.Address, amount *big.Int) (string, error)
	WaitMined(ctx context.Context, hash string) error
}

// Metrics records payout attempt outcomes.
type Metrics interface {
	ObservePayout(status model.PayoutStatus, started time.Time)
}

// Executor computes the bounded payout amount and submits a single native
// transfer, waiting for confirmation up to a bound.
type Executor struct {
	submitter      Submitter
	maxReturn      *big.Int
	confirmTimeout time.Duration
	metrics        Metrics
	logger         *zap.Logger
}

// NewExecutor builds an Executor for one network.
func NewExecutor(submitter Submitter, maxReturn *big.Int, confirmTimeout time.Duration, metrics Metrics, logger *zap.Logger) *Executor {
	return &Executor{
		submitter:      submitter,
		maxReturn:      maxReturn,
		confirmTimeout: confirmTimeout,
		metrics:        metrics,
		logger:         logger.Named("payout"),
	}
}

// Payout sends floor(principal x multiplier) back to the recipient, truncated
// to the configured ceiling. The multiplier is fixed-point hundredths and the
// multiplication is amount-first, so the math stays exact on wei.
//
// Errors never escalate: by the time Payout runs the offering is already
// irreversibly marked processed, so every failure mode is reported in the
// result status instead.
func (e *Executor) Payout(ctx context.Context, recipient common.Address, multiplier int64, principal *big.Int) model.PayoutResult {
	started := time.Now()

	amount := new(big.Int).Mul(principal, big.NewInt(multiplier))
	amount.Quo(amount, big.NewInt(100))
	if amount.Cmp(e.maxReturn) > 0 {
		// Partial reward, not failure.
		e.logger.Info("payout truncated to ceiling",
			zap.String("computed_wei", amount.String()),
			zap.String("ceiling_wei", e.maxReturn.String()),
		)
		amount = new(big.Int).Set(e.maxReturn)
	}
	if amount.Sign() == 0 {
		e.metrics.ObservePayout(model.PayoutNone, started)
		return model.PayoutResult{Amount: amount, Status: model.PayoutNone}
	}

	hash, err := e.submitter.SendNative(ctx, recipient, amount)
	if err != nil {
		e.logger.Error("payout submission failed",
			zap.String("recipient", recipient.Hex()),
			zap.String("amount_wei", amount.String()),
			zap.Error(err),
		)
		e.metrics.ObservePayout(model.PayoutFailed, started)
		return model.PayoutResult{Amount: amount, Status: model.PayoutFailed}
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()
	if err := e.submitter.WaitMined(waitCtx, hash); err != nil {
		// The transfer may still confirm later out-of-band; report pending,
		// never a success or failure we cannot yet know.
		e.logger.Warn("payout confirmation still pending",
			zap.String("txhash", hash),
			zap.Error(err),
		)
		e.metrics.ObservePayout(model.PayoutPending, started)
		return model.PayoutResult{Amount: amount, TxHash: hash, Status: model.PayoutPending}
	}

	e.metrics.ObservePayout(model.PayoutConfirmed, started)
	return model.PayoutResult{Amount: amount, TxHash: hash, Status: model.PayoutConfirmed}
}
