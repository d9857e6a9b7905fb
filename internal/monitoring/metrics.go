package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

// StoreMetrics contains all metrics for key-value backend monitoring
type StoreMetrics struct {
	// Store operation duration histogram
	opDuration *prometheus.HistogramVec

	// Store operation count counter
	opCalls *prometheus.CounterVec

	// Circuit breaker state gauge
	circuitBreakerState *prometheus.GaugeVec
}

// NewStoreMetrics creates a new instance of store metrics
func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "htlc_backend_store_operation_duration_seconds",
				Help:    "Duration of key-value store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation", "status"},
		),

		opCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "htlc_backend_store_operations_total",
				Help: "Total number of key-value store operations",
			},
			[]string{"backend", "operation", "status"},
		),

		circuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "htlc_backend_circuit_breaker_state",
				Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"backend"},
		),
	}
}

// MustRegister registers all metrics with the provided registry
func (m *StoreMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.opDuration,
		m.opCalls,
		m.circuitBreakerState,
	)
}

// RecordOperation records a store operation with duration and status
func (m *StoreMetrics) RecordOperation(backend, operation, status string, duration float64) {
	m.opDuration.WithLabelValues(backend, operation, status).Observe(duration)
	m.opCalls.WithLabelValues(backend, operation, status).Inc()
}

// UpdateCircuitBreakerState updates the circuit breaker state metric
func (m *StoreMetrics) UpdateCircuitBreakerState(backend string, state gobreaker.State) {
	m.circuitBreakerState.WithLabelValues(backend).Set(float64(state))
}
