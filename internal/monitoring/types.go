package monitoring

import (
	"time"
)

// CircuitBreakerConfig defines the configuration for circuit breakers
type CircuitBreakerConfig struct {
	MaxRequests                 uint32        `json:"max_requests"`
	Interval                    time.Duration `json:"interval"`
	Timeout                     time.Duration `json:"timeout"`
	ConsecutiveFailureThreshold int           `json:"consecutive_failure_threshold"`
}

// StoreErrorType classifies backend failures for metrics and logging
type StoreErrorType string

const (
	ErrorTypeTimeout      StoreErrorType = "timeout"
	ErrorTypeNetworkError StoreErrorType = "network_error"
	ErrorTypeCircuitOpen  StoreErrorType = "circuit_open"
	ErrorTypeUnknown      StoreErrorType = "unknown"
)

// CircuitBreakerConfigs provides default configurations per store backend
var CircuitBreakerConfigs = map[string]CircuitBreakerConfig{
	"redis": {
		MaxRequests:                 3,
		Interval:                    30 * time.Second,
		Timeout:                     60 * time.Second,
		ConsecutiveFailureThreshold: 5,
	},
}
