// Package breaker builds the circuit breakers guarding the item store and the catalog gRPC client.
package breaker

import (
	"time"

	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

const (
	halfOpenRequests   = 3
	defaultOpenTimeout = 5 * time.Second
)

// New returns a breaker named name, tripped by ReadyToTrip(cfg).
// isSuccessful decides which errors count as failures.
func New[T any](name string, cfg config.CircuitBreakerConfig, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:         name,
		MaxRequests:  halfOpenRequests,
		Timeout:      timeout,
		ReadyToTrip:  ReadyToTrip(cfg),
		IsSuccessful: isSuccessful,
	})
}

// ReadyToTrip opens the breaker after more than cfg.ConsecutiveFailures failures in a row,
// or, once more than cfg.ConsecutiveFailures requests were seen, when the failure ratio
// exceeds cfg.ErrorRatePercent.
func ReadyToTrip(cfg config.CircuitBreakerConfig) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures > cfg.ConsecutiveFailures {
			return true
		}
		total := counts.TotalSuccesses + counts.TotalFailures
		if total <= cfg.ConsecutiveFailures {
			return false
		}
		return float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent)
	}
}
