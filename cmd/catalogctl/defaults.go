package main

import "time"

// withDefaults fills the settings a bare -addr invocation leaves empty.
func withDefaults(c *ctlConfig) *ctlConfig {
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = 5 * time.Second
	}
	if c.Resilience.Retry.MaxAttempts == 0 {
		c.Resilience.Retry.MaxAttempts = 3
	}
	if c.Resilience.Retry.InitialBackoff <= 0 {
		c.Resilience.Retry.InitialBackoff = 100 * time.Millisecond
	}
	if c.Resilience.CircuitBreaker.ConsecutiveFailures == 0 {
		c.Resilience.CircuitBreaker.ConsecutiveFailures = 5
	}
	if c.Resilience.CircuitBreaker.ErrorRatePercent == 0 {
		c.Resilience.CircuitBreaker.ErrorRatePercent = 60
	}
	if c.Resilience.CircuitBreaker.OpenTimeout <= 0 {
		c.Resilience.CircuitBreaker.OpenTimeout = 5 * time.Second
	}
	return c
}
