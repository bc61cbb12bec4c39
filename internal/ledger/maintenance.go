package ledger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/monfortune/oracle-backend/internal/clock"
)

// Maintenance periodically truncates oversized processed sets. The sweep is a
// plain method call so tests exercise it directly instead of waiting on the
// timer.
type Maintenance struct {
	ledger   *Ledger
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
	logger   *zap.Logger
}

// NewMaintenance builds the maintenance task for a ledger.
func NewMaintenance(ledger *Ledger, interval time.Duration, logger *zap.Logger) *Maintenance {
	return &Maintenance{
		ledger:   ledger,
		interval: interval,
		sleep:    clock.SleepWithContext,
		logger:   logger.Named("ledgerMaintenance"),
	}
}

// Run sweeps the ledger on the configured period until the context ends.
func (m *Maintenance) Run(ctx context.Context) error {
	m.logger.Info("starting ledger maintenance", zap.Duration("interval", m.interval))
	for {
		if err := m.sleep(ctx, m.interval); err != nil {
			return err
		}
		m.ledger.Sweep()
	}
}
