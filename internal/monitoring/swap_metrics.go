package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SwapSnapshot is one pass of the swap monitor over the store.
type SwapSnapshot struct {
	// ByStatus counts swaps per status label.
	ByStatus map[string]int
	// Expired counts pending swaps whose timelock has passed.
	Expired int
	// Escrowed sums pending amounts per denom.
	Escrowed map[string]float64
}

// SwapMetrics exposes the current swap book as gauges.
type SwapMetrics struct {
	swaps        *prometheus.GaugeVec
	expiredSwaps prometheus.Gauge
	escrowed     *prometheus.GaugeVec
}

func NewSwapMetrics() *SwapMetrics {
	return &SwapMetrics{
		swaps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "htlc_backend_swaps",
				Help: "Number of swaps by status",
			},
			[]string{"status"},
		),
		expiredSwaps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "htlc_backend_swaps_expired_pending",
				Help: "Pending swaps past their timelock, waiting for a refund",
			},
		),
		escrowed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "htlc_backend_escrowed_amount",
				Help: "Amount held by pending swaps per denom (approximate)",
			},
			[]string{"denom"},
		),
	}
}

func (m *SwapMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.swaps,
		m.expiredSwaps,
		m.escrowed,
	)
}

// Observe replaces the previous snapshot.
func (m *SwapMetrics) Observe(snapshot SwapSnapshot) {
	m.swaps.Reset()
	for status, count := range snapshot.ByStatus {
		m.swaps.WithLabelValues(status).Set(float64(count))
	}

	m.expiredSwaps.Set(float64(snapshot.Expired))

	m.escrowed.Reset()
	for denom, amount := range snapshot.Escrowed {
		m.escrowed.WithLabelValues(denom).Set(amount)
	}
}
