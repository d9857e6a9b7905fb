package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/htlc-backend/internal/address"
	"github.com/dwarvesf/htlc-backend/internal/bank"
	"github.com/dwarvesf/htlc-backend/internal/controller"
	"github.com/dwarvesf/htlc-backend/internal/handler"
	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/store"
	transport "github.com/dwarvesf/htlc-backend/internal/transport/http"
	"github.com/dwarvesf/htlc-backend/internal/utils/clock"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
	"github.com/dwarvesf/htlc-backend/internal/utils/webhook"
)

const (
	swapMonitorJob     = "swap_monitor"
	swapMonitorTimeout = 30 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	storeMetrics := monitoring.NewStoreMetrics()
	storeMetrics.MustRegister(registry)
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)
	swapMetrics := monitoring.NewSwapMetrics()
	swapMetrics.MustRegister(registry)
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)

	db, err := store.NewKVStore(appConfig, logger, storeMetrics)
	if err != nil {
		logger.Error("[server][Init] failed to open store", map[string]string{
			"backend": appConfig.Store.Backend,
			"error":   err.Error(),
		})
		return
	}
	defer db.Close()

	addresses, err := address.New(appConfig.Address)
	if err != nil {
		logger.Error("[server][Init] invalid address config", map[string]string{
			"format": appConfig.Address.Format,
			"error":  err.Error(),
		})
		return
	}

	webhookClient := webhook.New(logger)

	s := store.New()
	engine := htlc.NewEngine(htlc.Config{
		MinTimelock: appConfig.HTLC.MinTimelock,
		MaxTimelock: appConfig.HTLC.MaxTimelock,
	}, s, addresses)

	ctrl := controller.New(
		db,
		engine,
		bank.New(s, appConfig.HTLC.ContractAddress),
		addresses,
		clock.NewSystem(),
		monitoring.NewBusinessMetricsRecorder(httpMetrics),
		swapMetrics,
		webhook.NewEventPublisher(webhookClient, appConfig.Events.WebhookURL, logger),
		logger,
		appConfig,
	)

	jobStatusManager := monitoring.NewJobStatusManager(logger, jobMetrics)
	jobStatusManager.Start(ctx)

	c := cron.New()
	monitorSwaps := func(ctx context.Context) error {
		if err := ctrl.MonitorSwaps(ctx); err != nil {
			return err
		}
		webhookClient.CallUptimeWebhook(ctx, appConfig.SwapMonitor.UptimeWebhookURL)
		return nil
	}
	swapMonitor := monitoring.NewInstrumentedJob(swapMonitorJob, monitorSwaps, jobStatusManager, logger, swapMonitorTimeout)
	if _, err := c.AddJob(appConfig.SwapMonitor.Schedule, swapMonitor); err != nil {
		logger.Error("[server][Init] invalid swap monitor schedule", map[string]string{
			"schedule": appConfig.SwapMonitor.Schedule,
			"error":    err.Error(),
		})
		return
	}
	c.Start()
	defer c.Stop()

	h := handler.New(appConfig, logger, ctrl, db, registry, jobStatusManager)
	router := transport.NewHttpServer(appConfig, logger, h, httpMetrics)

	srv := &http.Server{
		Addr:    ":" + appConfig.ApiServer.Port,
		Handler: router,
	}

	go func() {
		logger.Info("[server][Init] listening", map[string]string{
			"port":    appConfig.ApiServer.Port,
			"backend": appConfig.Store.Backend,
			"env":     string(appConfig.Environment),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[server][ListenAndServe]", map[string]string{
				"error": err.Error(),
			})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[server][Shutdown]", map[string]string{
			"error": err.Error(),
		})
	}
	logger.Info("[server][Init] stopped")
}
