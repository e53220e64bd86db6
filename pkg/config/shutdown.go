package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ShutdownConfig bounds how long servers and exporters may take to drain.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("shutdown.timeout must be greater than 0")
	}
	return nil
}

// Context returns a fresh context bounded by the shutdown timeout.
// It is detached from the serving context, which is already cancelled when shutdown starts.
func (c *ShutdownConfig) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}
