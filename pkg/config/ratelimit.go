package config

import (
	"fmt"
	"strings"
	"time"
)

// RateLimitConfig configures the per-client token bucket applied to the REST API.
type RateLimitConfig struct {
	Enabled    bool          `koanf:"enabled"`
	RPS        float64       `koanf:"rps"`
	Burst      int           `koanf:"burst"`
	MaxClients int           `koanf:"maxclients"`
	TTL        time.Duration `koanf:"ttl"`
}

// String returns a string representation of the RateLimitConfig.
func (c *RateLimitConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Rate Limit ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  rps: %v\n", c.RPS))
	b.WriteString(fmt.Sprintf("  burst: %d\n", c.Burst))
	b.WriteString(fmt.Sprintf("  maxclients: %d\n", c.MaxClients))
	b.WriteString(fmt.Sprintf("  ttl: %v\n", c.TTL))
	return b.String()
}

func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RPS <= 0 {
		return fmt.Errorf("ratelimit.rps must be greater than 0")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("ratelimit.burst must be greater than 0")
	}
	if c.MaxClients <= 0 {
		return fmt.Errorf("ratelimit.maxclients must be greater than 0")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ratelimit.ttl must be greater than 0")
	}
	return nil
}
