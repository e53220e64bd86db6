package config

import (
	"strings"

	"github.com/abgdnv/shoecatalog/internal/query"
	"github.com/abgdnv/shoecatalog/internal/service"
	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/abgdnv/shoecatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	RateLimit  config.RateLimitConfig  `koanf:"ratelimit"`
	Catalog    config.CatalogConfig    `koanf:"catalog"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.RateLimit.String())
	b.WriteString(c.Catalog.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Shutdown,
		&c.NATS,
		&c.Telemetry,
		&c.Resilience,
		&c.RateLimit,
		&c.Catalog,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ServiceConfig converts the catalog section into service defaults.
func (c *Config) ServiceConfig() service.Config {
	return service.Config{
		Query: query.Config{
			DefaultLimit: c.Catalog.DefaultLimit,
			MaxLimit:     c.Catalog.MaxLimit,
			DefaultSort:  query.Sort{Field: c.Catalog.DefaultSort, Desc: c.Catalog.DefaultOrder != "asc"},
		},
		SuggestLimit: c.Catalog.SuggestLimit,
	}
}
