// Package service sequences offering validation, outcome computation and
// payout into readings.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/chain"
	"github.com/monfortune/oracle-backend/internal/fortune"
	"github.com/monfortune/oracle-backend/internal/model"
	"github.com/monfortune/oracle-backend/internal/utils"
)

var txHashPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)

// Config wires the orchestrator's collaborators.
type Config struct {
	Resolver    NetworkResolver
	Ledger      ReplayLedger
	Networks    map[model.Network]NetworkBundle
	Engine      OutcomeEngine
	Decorator   TextDecorator
	Callbacks   CallbackSink // optional
	Metrics     Metrics
	MinOffering *big.Int
	Logger      *zap.Logger
}

// FortuneService runs the verification -> outcome -> payout pipeline for one
// offering at a time; many offerings may be in flight concurrently, sharing
// the ledger and the per-network submitters.
type FortuneService struct {
	resolver    NetworkResolver
	ledger      ReplayLedger
	networks    map[model.Network]NetworkBundle
	engine      OutcomeEngine
	decorator   TextDecorator
	callbacks   CallbackSink
	metrics     Metrics
	minOffering *big.Int
	now         func() fortune.Context
	logger      *zap.Logger
}

// New builds the FortuneService with its dependencies.
func New(cfg Config) (*FortuneService, error) {
	if cfg.Resolver == nil || cfg.Ledger == nil || cfg.Engine == nil {
		return nil, errors.New("resolver, ledger and engine are required")
	}
	if len(cfg.Networks) == 0 {
		return nil, errors.New("at least one network must be configured")
	}
	if cfg.Metrics == nil {
		return nil, errors.New("metrics is required")
	}
	return &FortuneService{
		resolver:    cfg.Resolver,
		ledger:      cfg.Ledger,
		networks:    cfg.Networks,
		engine:      cfg.Engine,
		decorator:   cfg.Decorator,
		callbacks:   cfg.Callbacks,
		metrics:     cfg.Metrics,
		minOffering: cfg.MinOffering,
		now:         fortune.Now,
		logger:      cfg.Logger.Named("fortuneService"),
	}, nil
}

// Process runs the pipeline for one offering. Every rejection before the
// ledger mark is side-effect free; once the hash is marked the method always
// returns a Reading, degraded or not.
func (s *FortuneService) Process(ctx context.Context, offering model.Offering) (*model.Reading, *RequestError) {
	started := time.Now()

	if offering.TxHash == "" || offering.Message == "" {
		return nil, s.reject("", badRequest(CodeMissingFields, "Missing txhash or message"))
	}
	if !txHashPattern.MatchString(offering.TxHash) {
		return nil, s.reject("", badRequest(CodeInvalidTxHash, "Invalid txhash"))
	}
	hash := strings.ToLower(offering.TxHash)

	network, err := s.resolver.Resolve(ctx, hash, offering.Network)
	if err != nil {
		reqErr := badRequest(CodeNetworkNotFound, "Transaction not found on any configured network")
		reqErr.Hint = "pass an explicit network parameter to disambiguate"
		return nil, s.reject("", reqErr)
	}
	bundle, ok := s.networks[network]
	if !ok {
		return nil, s.reject(network, internalError(fmt.Sprintf("network %s resolved but not configured", network)))
	}

	// Read-only replay gate; the authoritative mark happens at the commit
	// point below.
	if s.ledger.HasProcessed(network, hash) {
		return nil, s.reject(network, badRequest(CodeAlreadyProcessed, "Transaction already processed"))
	}

	tx, txErr := bundle.Reader.TransactionByHash(ctx, hash)
	if txErr != nil {
		if errors.Is(txErr, chain.ErrNotFound) {
			return nil, s.reject(network, badRequest(CodeTransactionRejected, "Transaction not found or failed"))
		}
		s.logger.Error("transaction fetch failed",
			zap.String("network", string(network)),
			zap.String("txhash", hash),
			zap.Error(txErr),
		)
		return nil, s.reject(network, internalError("chain lookup failed"))
	}
	if !tx.Succeeded {
		return nil, s.reject(network, badRequest(CodeTransactionRejected, "Transaction not found or failed"))
	}
	oracleAddr := bundle.Reader.OracleAddress()
	if tx.To == nil || *tx.To != oracleAddr {
		return nil, s.reject(network, badRequest(CodeWrongRecipient, "Not sent to oracle"))
	}
	if s.minOffering != nil && tx.Value.Cmp(s.minOffering) < 0 {
		return nil, s.reject(network, badRequest(CodeBelowMinimum,
			fmt.Sprintf("Minimum %s required", utils.FormatWei(s.minOffering))))
	}

	// Commit point: mark strictly before payout dispatch. Losing the race to
	// a concurrent request with the same hash is a replay.
	if !s.ledger.Mark(network, hash) {
		return nil, s.reject(network, badRequest(CodeAlreadyProcessed, "Transaction already processed"))
	}

	outcome := s.engine.Compute(tx.Value, offering.Message, hash, s.now())
	if outcome.Text == "" && s.decorator != nil {
		outcome.Text = s.decorator.Decorate(outcome.Tier)
	}

	result := bundle.Payout.Payout(ctx, tx.From, outcome.Multiplier, tx.Value)

	reading := s.assemble(bundle, hash, tx, outcome, result)
	if bundle.Token != nil {
		reading.TokenReward = s.rewardTokens(ctx, bundle.Token, tx, outcome)
	}

	s.metrics.ObserveReading(network, outcome.Tier, result.Status, started)
	s.logger.Info("reading complete",
		zap.String("network", string(network)),
		zap.String("txhash", hash),
		zap.String("tier", string(outcome.Tier)),
		zap.Int("score", outcome.Score),
		zap.String("payout_status", string(result.Status)),
	)

	if s.callbacks != nil && offering.CallbackURL != "" {
		s.callbacks.Enqueue(ctx, offering.CallbackURL, reading)
	}
	return reading, nil
}

func (s *FortuneService) assemble(bundle NetworkBundle, hash string, tx model.ChainTransaction, outcome model.Outcome, result model.PayoutResult) *model.Reading {
	reading := &model.Reading{
		Fortune:      outcome.Text,
		LuckScore:    outcome.Score,
		LuckTier:     outcome.Tier,
		Multiplier:   outcome.MultiplierRatio(),
		Received:     utils.FormatWei(tx.Value),
		Sent:         utils.FormatWei(result.Amount),
		PayoutStatus: result.Status,
		Network:      tx.Network,
		Sender:       tx.From.Hex(),
		ExplorerURL:  bundle.Reader.ExplorerTxURL(hash),
	}
	if result.TxHash != "" {
		returnHash := result.TxHash
		reading.ReturnTxHash = &returnHash
	}
	return reading
}

// rewardTokens is opportunistic: any failure is reported as an absent field.
func (s *FortuneService) rewardTokens(ctx context.Context, rewarder TokenRewarder, tx model.ChainTransaction, outcome model.Outcome) *model.TokenReward {
	reward, err := rewarder.Reward(ctx, tx.From, outcome.Score, tx.Value)
	if err != nil {
		s.logger.Warn("token reward failed",
			zap.String("network", string(tx.Network)),
			zap.String("sender", tx.From.Hex()),
			zap.Error(err),
		)
		return nil
	}
	return reward
}

func (s *FortuneService) reject(network model.Network, reqErr *RequestError) *RequestError {
	s.metrics.ObserveRejection(network, reqErr.Code)
	return reqErr
}
