package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// GrpcClientConfig locates the catalog gRPC server for catalogctl and other internal callers.
type GrpcClientConfig struct {
	// Addr is host:port or a gRPC target with a scheme, e.g. dns:///catalog:9090.
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("client.addr is not configured")
	}
	if !strings.Contains(c.Addr, "://") {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("client.addr %q is not a host:port address: %w", c.Addr, err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be greater than 0")
	}
	return nil
}
