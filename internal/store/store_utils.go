package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	boltstore "github.com/dwarvesf/htlc-backend/internal/store/bolt"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/store/memory"
	pgstore "github.com/dwarvesf/htlc-backend/internal/store/postgres"
	redisstore "github.com/dwarvesf/htlc-backend/internal/store/redis"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// NewKVStore opens the configured backend, retrying the first connection,
// and wraps it with operation metrics.
func NewKVStore(appConfig *config.AppConfig, logger *logger.Logger, metrics *monitoring.StoreMetrics) (kv.DB, error) {
	backend := appConfig.Store.Backend

	var db kv.DB
	connect := func() error {
		var err error
		db, err = openBackend(appConfig, logger, metrics)
		if err != nil {
			logger.Warn("[store][NewKVStore] backend not ready", map[string]string{
				"backend": backend,
				"error":   err.Error(),
			})
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, errors.Wrapf(err, "open %s store", backend)
	}

	logger.Info("[store][NewKVStore] store connected", map[string]string{
		"backend": backend,
	})
	return monitoring.NewInstrumentedDB(db, backend, metrics, logger), nil
}

func openBackend(appConfig *config.AppConfig, logger *logger.Logger, metrics *monitoring.StoreMetrics) (kv.DB, error) {
	switch appConfig.Store.Backend {
	case BackendMemory:
		return memory.New(), nil

	case BackendBolt:
		db, err := boltstore.Open(appConfig.Store.BoltPath)
		if err != nil {
			// a locked file will not unlock by itself within the retry window
			return nil, backoff.Permanent(err)
		}
		return db, nil

	case BackendPostgres:
		db, err := pgstore.New(appConfig)
		if err != nil {
			return nil, err
		}
		return pingOrClose(db)

	case BackendRedis:
		breaker, err := monitoring.NewCircuitBreaker(
			BackendRedis,
			monitoring.CircuitBreakerConfigs[BackendRedis],
			metrics,
			logger,
			func(err error) bool {
				return err == nil || errors.Is(err, redis.Nil) || errors.Is(err, redis.TxFailedErr)
			},
		)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return pingOrClose(redisstore.New(appConfig.Redis, breaker))

	default:
		return nil, backoff.Permanent(fmt.Errorf("unknown store backend %q", appConfig.Store.Backend))
	}
}

func pingOrClose(db kv.DB) (kv.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
