package monitoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

// NewCircuitBreaker builds a breaker for a remote store backend. isSuccessful
// decides which errors count against the breaker; nil counts every error.
func NewCircuitBreaker(
	name string,
	config CircuitBreakerConfig,
	metrics *StoreMetrics,
	logger *logger.Logger,
	isSuccessful func(err error) bool,
) (*gobreaker.CircuitBreaker, error) {
	if err := validateCircuitBreakerConfig(config); err != nil {
		return nil, fmt.Errorf("invalid circuit breaker config for %s: %w", name, err)
	}

	settings := gobreaker.Settings{
		Name:         name,
		MaxRequests:  config.MaxRequests,
		Interval:     config.Interval,
		Timeout:      config.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state change", map[string]string{
				"backend": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if metrics != nil {
				metrics.UpdateCircuitBreakerState(name, to)
			}
		},
	}

	if metrics != nil {
		metrics.UpdateCircuitBreakerState(name, gobreaker.StateClosed)
	}
	return gobreaker.NewCircuitBreaker(settings), nil
}

// classifyError classifies errors into different types for metrics and logging
func classifyError(err error) StoreErrorType {
	if err == nil {
		return ""
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrorTypeCircuitOpen
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") ||
		strings.Contains(errMsg, "context canceled") {
		return ErrorTypeTimeout
	}

	if strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "unreachable") ||
		strings.Contains(errMsg, "dns") {
		return ErrorTypeNetworkError
	}

	return ErrorTypeUnknown
}

// validateCircuitBreakerConfig validates circuit breaker configuration
func validateCircuitBreakerConfig(config CircuitBreakerConfig) error {
	if config.MaxRequests == 0 {
		return fmt.Errorf("max_requests must be greater than 0")
	}

	if config.ConsecutiveFailureThreshold <= 0 {
		return fmt.Errorf("consecutive_failure_threshold must be greater than 0")
	}

	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	if config.Interval < 0 {
		return fmt.Errorf("interval must be non-negative")
	}

	return nil
}
