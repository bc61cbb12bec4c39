package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/monfortune/oracle-backend/internal/model"
)

var (
	payoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fortune_oracle",
		Subsystem: "payout",
		Name:      "transfers_total",
		Help:      "Count of payout attempts by final status.",
	}, []string{"network", "status"})

	payoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fortune_oracle",
		Subsystem: "payout",
		Name:      "transfer_duration_seconds",
		Help:      "Duration of payout submission and confirmation wait.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})
)

// Payout tracks payout executor metrics for one network.
type Payout struct {
	network model.Network
}

// NewPayout constructs a Payout recorder with defaults.
func NewPayout(network model.Network) *Payout {
	if network == "" {
		network = "unknown"
	}
	return &Payout{network: network}
}

// ObservePayout records one payout attempt.
func (m Payout) ObservePayout(status model.PayoutStatus, started time.Time) {
	payoutsTotal.WithLabelValues(string(m.network), string(status)).Inc()
	payoutDuration.WithLabelValues(string(m.network), string(status)).
		Observe(time.Since(started).Seconds())
}
