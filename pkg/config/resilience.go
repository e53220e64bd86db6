package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ResilienceConfig tunes the gRPC client retries and the circuit breakers.
// The circuit breaker settings are shared by the catalog client and the item store.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

// CircuitBreakerConfig trips a breaker after more than ConsecutiveFailures failures in a row,
// or once the failure ratio exceeds ErrorRatePercent. It stays open for OpenTimeout.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

func (c *ResilienceConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Resilience ---\n")
	b.WriteString(fmt.Sprintf("  retry: %d attempts, backoff from %v\n", c.Retry.MaxAttempts, c.Retry.InitialBackoff))
	b.WriteString(fmt.Sprintf("  circuitbreaker: >%d consecutive or >%d%% failures, open for %v\n",
		c.CircuitBreaker.ConsecutiveFailures, c.CircuitBreaker.ErrorRatePercent, c.CircuitBreaker.OpenTimeout))
	return b.String()
}

// Validate reports every invalid setting at once.
func (c *ResilienceConfig) Validate() error {
	return errors.Join(c.Retry.Validate(), c.CircuitBreaker.Validate())
}

func (c *RetryConfig) Validate() error {
	var errs []error
	if c.MaxAttempts == 0 {
		errs = append(errs, fmt.Errorf("resilience.retry.maxattempts must be greater than 0"))
	}
	if c.InitialBackoff <= 0 {
		errs = append(errs, fmt.Errorf("resilience.retry.initialbackoff must be greater than 0"))
	}
	return errors.Join(errs...)
}

func (c *CircuitBreakerConfig) Validate() error {
	var errs []error
	if c.ConsecutiveFailures == 0 {
		errs = append(errs, fmt.Errorf("resilience.circuitbreaker.consecutivefailures must be greater than 0"))
	}
	if c.ErrorRatePercent < 1 || c.ErrorRatePercent > 100 {
		errs = append(errs, fmt.Errorf("resilience.circuitbreaker.errorratepercent must be between 1 and 100"))
	}
	if c.OpenTimeout <= 0 {
		errs = append(errs, fmt.Errorf("resilience.circuitbreaker.opentimeout must be greater than 0"))
	}
	return errors.Join(errs...)
}
