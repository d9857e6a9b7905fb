package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

// InstrumentedDB records duration and outcome of every transaction run
// against the wrapped backend.
type InstrumentedDB struct {
	wrapped kv.DB
	backend string
	metrics *StoreMetrics
	logger  *logger.Logger
}

func NewInstrumentedDB(wrapped kv.DB, backend string, metrics *StoreMetrics, logger *logger.Logger) *InstrumentedDB {
	return &InstrumentedDB{
		wrapped: wrapped,
		backend: backend,
		metrics: metrics,
		logger:  logger,
	}
}

func (d *InstrumentedDB) View(ctx context.Context, fn func(r kv.Reader) error) error {
	return d.observe("view", func() error {
		return d.wrapped.View(ctx, fn)
	})
}

func (d *InstrumentedDB) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	return d.observe("update", func() error {
		return d.wrapped.Update(ctx, fn)
	})
}

func (d *InstrumentedDB) Ping(ctx context.Context) error {
	return d.observe("ping", func() error {
		return d.wrapped.Ping(ctx)
	})
}

func (d *InstrumentedDB) Close() error {
	return d.wrapped.Close()
}

// observe counts an error returned by the callback the same as a backend
// failure; domain rejections surface here as "error" too.
func (d *InstrumentedDB) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		errType := classifyError(err)
		if errType != ErrorTypeUnknown {
			d.logger.Error("[InstrumentedDB] store operation failed", map[string]string{
				"backend":    d.backend,
				"operation":  operation,
				"duration":   strconv.FormatFloat(duration, 'f', 3, 64),
				"error":      err.Error(),
				"error_type": string(errType),
			})
		}
	}
	d.metrics.RecordOperation(d.backend, operation, status, duration)
	return err
}
