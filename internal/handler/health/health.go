package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const pingTimeout = 5 * time.Second

type HealthHandler struct {
	config           *config.AppConfig
	logger           *logger.Logger
	db               kv.DB
	jobStatusManager *monitoring.JobStatusManager
}

func New(config *config.AppConfig, logger *logger.Logger, db kv.DB, jobStatusManager *monitoring.JobStatusManager) IHealthHandler {
	return &HealthHandler{
		config:           config,
		logger:           logger,
		db:               db,
		jobStatusManager: jobStatusManager,
	}
}

// Basic handles the liveness endpoint
// @Summary Basic health check
// @Description Returns basic system availability status
// @Tags health
// @Produce json
// @Success 200 {object} BasicHealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, BasicHealthResponse{Message: "ok"})
}

// Database pings the configured swap store
// @Summary Store health check
// @Description Validates connectivity to the key-value backend holding swaps and balances
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	ctx := context.Background()
	if c.Request != nil {
		ctx = c.Request.Context()
	}

	check := h.checkStore(ctx)
	response.Checks["store"] = check
	response.DurationMs = time.Since(start).Milliseconds()

	if check.Status != "healthy" {
		h.logger.Warn("[HealthHandler][Database] store unhealthy", map[string]string{
			"error": check.Error,
		})
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Status = "healthy"
	c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkStore(ctx context.Context) HealthCheck {
	start := time.Now()

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}
	if h.config != nil {
		check.Metadata["backend"] = h.config.Store.Backend
	}

	if h.db == nil {
		check.Status = "unhealthy"
		check.Error = "store not available"
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		check.Status = "unhealthy"
		if pingCtx.Err() == context.DeadlineExceeded {
			check.Error = "timeout"
		} else {
			check.Error = err.Error()
		}
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	check.Status = "healthy"
	check.Latency = time.Since(start).Milliseconds()
	return check
}
