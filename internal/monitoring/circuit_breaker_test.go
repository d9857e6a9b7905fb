package monitoring

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/htlc-backend/internal/types/environments"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

var errBackendDown = errors.New("dial tcp: connection refused")

func setupTestLogger() *logger.Logger {
	return logger.New(environments.Test)
}

func testBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxRequests:                 1,
		Interval:                    30 * time.Second,
		Timeout:                     60 * time.Second,
		ConsecutiveFailureThreshold: 3,
	}
}

func gaugeValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCircuitBreaker_InitialState(t *testing.T) {
	metrics := NewStoreMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	cb, err := NewCircuitBreaker("redis", testBreakerConfig(), metrics, setupTestLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, float64(gobreaker.StateClosed), gaugeValue(t, registry, "htlc_backend_circuit_breaker_state"))
}

func TestCircuitBreaker_ClosedToOpen(t *testing.T) {
	metrics := NewStoreMetrics()
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	cb, err := NewCircuitBreaker("redis", testBreakerConfig(), metrics, setupTestLogger(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, errBackendDown })
		assert.ErrorIs(t, err, errBackendDown)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	assert.Equal(t, float64(gobreaker.StateOpen), gaugeValue(t, registry, "htlc_backend_circuit_breaker_state"))

	called := false
	_, err = cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called, "open breaker must not reach the backend")
}

func TestCircuitBreaker_IsSuccessfulIgnoresExpectedErrors(t *testing.T) {
	errMiss := errors.New("miss")
	cb, err := NewCircuitBreaker("redis", testBreakerConfig(), NewStoreMetrics(), setupTestLogger(), func(err error) bool {
		return err == nil || errors.Is(err, errMiss)
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, errMiss })
		assert.ErrorIs(t, err, errMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	config := testBreakerConfig()
	config.Timeout = 50 * time.Millisecond

	cb, err := NewCircuitBreaker("redis", config, nil, setupTestLogger(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errBackendDown })
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	_, err = cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestValidateCircuitBreakerConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  CircuitBreakerConfig
		wantErr bool
	}{
		{name: "valid", config: testBreakerConfig()},
		{name: "zero max requests", config: CircuitBreakerConfig{ConsecutiveFailureThreshold: 1}, wantErr: true},
		{name: "zero threshold", config: CircuitBreakerConfig{MaxRequests: 1}, wantErr: true},
		{name: "negative timeout", config: CircuitBreakerConfig{MaxRequests: 1, ConsecutiveFailureThreshold: 1, Timeout: -1}, wantErr: true},
		{name: "negative interval", config: CircuitBreakerConfig{MaxRequests: 1, ConsecutiveFailureThreshold: 1, Interval: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCircuitBreakerConfig(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := NewCircuitBreaker("redis", CircuitBreakerConfig{}, nil, setupTestLogger(), nil)
	assert.Error(t, err)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err      error
		expected StoreErrorType
	}{
		{nil, ""},
		{gobreaker.ErrOpenState, ErrorTypeCircuitOpen},
		{fmt.Errorf("get: %w", gobreaker.ErrTooManyRequests), ErrorTypeCircuitOpen},
		{errors.New("context deadline exceeded"), ErrorTypeTimeout},
		{errBackendDown, ErrorTypeNetworkError},
		{errors.New("swap already exists"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, classifyError(tt.err), "%v", tt.err)
	}
}

func getLabelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}
