package main

import (
	"errors"
	"strings"

	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/abgdnv/shoecatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*ctlConfig)(nil)

type ctlConfig struct {
	Client     config.GrpcClientConfig `koanf:"client"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Log        config.LogConfig        `koanf:"log"`
}

func (c *ctlConfig) String() string {
	var b strings.Builder
	b.WriteString(c.Client.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Log.String())
	return b.String()
}

// Validate fills defaults for unset settings, then validates.
func (c *ctlConfig) Validate() error {
	if c == nil {
		return errors.New("client.addr is not configured")
	}
	withDefaults(c)
	if err := c.Client.Validate(); err != nil {
		return err
	}
	if err := c.Resilience.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
