package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwarvesf/htlc-backend/internal/controller"
	"github.com/dwarvesf/htlc-backend/internal/handler/account"
	"github.com/dwarvesf/htlc-backend/internal/handler/health"
	"github.com/dwarvesf/htlc-backend/internal/handler/metrics"
	"github.com/dwarvesf/htlc-backend/internal/handler/swap"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

type Handler struct {
	SwapHandler    swap.IHandler
	AccountHandler account.IHandler
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	ctrl controller.IController,
	db kv.DB,
	metricsRegistry *prometheus.Registry,
	jobStatusManager *monitoring.JobStatusManager) *Handler {
	return &Handler{
		SwapHandler:    swap.New(ctrl, logger, appConfig),
		AccountHandler: account.New(ctrl, logger),
		HealthHandler:  health.New(appConfig, logger, db, jobStatusManager),
		MetricsHandler: metrics.NewMetricsHandler(metricsRegistry, ctrl.MonitorSwaps, logger),
	}
}
