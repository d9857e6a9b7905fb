package metrics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const refreshTimeout = 5 * time.Second

// RefreshFunc recomputes gauges that are derived from the swap store.
type RefreshFunc func(ctx context.Context) error

// MetricsHandler serves the Prometheus registry, refreshing swap gauges
// before each scrape.
type MetricsHandler struct {
	registry *prometheus.Registry
	refresh  RefreshFunc
	logger   *logger.Logger
}

func NewMetricsHandler(registry *prometheus.Registry, refresh RefreshFunc, logger *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		registry: registry,
		refresh:  refresh,
		logger:   logger,
	}
}

func (h *MetricsHandler) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})

	return func(c *gin.Context) {
		if h.refresh != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), refreshTimeout)
			// refresh failures never fail the scrape
			if err := h.refresh(ctx); err != nil {
				h.logger.Warn("[MetricsHandler][Refresh] serving stale swap gauges", map[string]string{
					"error": err.Error(),
				})
			}
			cancel()
		}
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
