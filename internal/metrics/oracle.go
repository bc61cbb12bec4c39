// Package metrics exposes Prometheus instrumentation for the oracle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/monfortune/oracle-backend/internal/model"
)

var (
	readingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fortune_oracle",
		Subsystem: "pipeline",
		Name:      "readings_total",
		Help:      "Count of completed readings by tier and payout status.",
	}, []string{"network", "tier", "payout_status"})

	readingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fortune_oracle",
		Subsystem: "pipeline",
		Name:      "reading_duration_seconds",
		Help:      "Duration of the full offering pipeline.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network"})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fortune_oracle",
		Subsystem: "pipeline",
		Name:      "rejections_total",
		Help:      "Count of offerings rejected before the commit point.",
	}, []string{"network", "code"})
)

// Oracle tracks metrics for the offering pipeline.
type Oracle struct{}

// NewOracle constructs the pipeline metrics recorder.
func NewOracle() *Oracle {
	return &Oracle{}
}

// ObserveReading records a completed reading.
func (Oracle) ObserveReading(network model.Network, tier model.Tier, status model.PayoutStatus, started time.Time) {
	net := networkLabel(network)
	readingsTotal.WithLabelValues(net, string(tier), string(status)).Inc()
	readingDuration.WithLabelValues(net).Observe(time.Since(started).Seconds())
}

// ObserveRejection records a gate failure.
func (Oracle) ObserveRejection(network model.Network, code string) {
	rejectionsTotal.WithLabelValues(networkLabel(network), code).Inc()
}

func networkLabel(network model.Network) string {
	if network == "" {
		return "unknown"
	}
	return string(network)
}
