package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds request series per route plus the business operation
// series fed by BusinessMetricsRecorder.
type HTTPMetrics struct {
	requestDuration    *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	businessOperations *prometheus.CounterVec
	businessDuration   *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	requestLabels := []string{"method", "path", "status"}
	businessLabels := []string{"operation_type", "category", "status"}

	return &HTTPMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "htlc_backend_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, requestLabels),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "htlc_backend_http_requests_total",
			Help: "HTTP requests by route and status",
		}, requestLabels),
		businessOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "htlc_backend_business_operations_total",
			Help: "Swap, query and bank operations by outcome",
		}, businessLabels),
		businessDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "htlc_backend_business_operation_duration_seconds",
			Help:    "Swap and query latency, store transaction included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, businessLabels),
	}
}

func (m *HTTPMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(m.requestDuration, m.requestsTotal, m.businessOperations, m.businessDuration)
}

// RecordBusinessMetric counts one operation; a zero duration is not observed.
func (m *HTTPMetrics) RecordBusinessMetric(operationType, category, status string, duration float64) {
	m.businessOperations.WithLabelValues(operationType, category, status).Inc()
	if duration > 0 {
		m.businessDuration.WithLabelValues(operationType, category, status).Observe(duration)
	}
}

// HTTPMetricsMiddleware labels requests by route template, so /swaps/:id
// stays one series. Requests matching no route share the "unmatched" series.
func HTTPMetricsMiddleware(metrics *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// BusinessMetricsRecorder names the categories the controller records.
type BusinessMetricsRecorder struct {
	metrics *HTTPMetrics
}

func NewBusinessMetricsRecorder(metrics *HTTPMetrics) *BusinessMetricsRecorder {
	return &BusinessMetricsRecorder{metrics: metrics}
}

// RecordSwapOperation records an initiate, withdraw or refund call.
func (r *BusinessMetricsRecorder) RecordSwapOperation(operation, status string, duration float64) {
	r.metrics.RecordBusinessMetric("swap_operation", operation, status, duration)
}

func (r *BusinessMetricsRecorder) RecordSwapQuery(query, status string, duration float64) {
	r.metrics.RecordBusinessMetric("swap_query", query, status, duration)
}

// RecordBankOperation records an escrow, release or deposit.
func (r *BusinessMetricsRecorder) RecordBankOperation(operation, status string) {
	r.metrics.RecordBusinessMetric("bank_operation", operation, status, 0)
}
