package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/monfortune/oracle-backend/internal/model"
)

var (
	rpcCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fortune_oracle",
		Subsystem: "chain_rpc",
		Name:      "calls_total",
		Help:      "Count of chain RPC calls.",
	}, []string{"network", "operation", "status"})

	rpcCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fortune_oracle",
		Subsystem: "chain_rpc",
		Name:      "call_duration_seconds",
		Help:      "Duration of chain RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "operation", "status"})
)

// RPCClient records metrics for one network's chain RPC calls.
type RPCClient struct {
	network model.Network
}

// NewRPCClient constructs an RPCClient recorder with defaults.
func NewRPCClient(network model.Network) *RPCClient {
	if network == "" {
		network = "unknown"
	}
	return &RPCClient{network: network}
}

// Observe records one RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcCallsTotal.WithLabelValues(string(m.network), operation, status).Inc()
	rpcCallDuration.WithLabelValues(string(m.network), operation, status).
		Observe(time.Since(started).Seconds())
}
