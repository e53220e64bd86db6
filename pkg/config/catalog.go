package config

import (
	"fmt"
	"strings"
)

// CatalogConfig holds listing and suggestion defaults.
type CatalogConfig struct {
	DefaultLimit int    `koanf:"defaultlimit"`
	MaxLimit     int    `koanf:"maxlimit"`
	DefaultSort  string `koanf:"defaultsort"`
	DefaultOrder string `koanf:"defaultorder"`
	SuggestLimit int    `koanf:"suggestlimit"`
}

// String returns a string representation of the CatalogConfig.
func (c *CatalogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  defaultlimit: %d\n", c.DefaultLimit))
	b.WriteString(fmt.Sprintf("  maxlimit: %d\n", c.MaxLimit))
	b.WriteString(fmt.Sprintf("  defaultsort: %s %s\n", c.DefaultSort, c.DefaultOrder))
	b.WriteString(fmt.Sprintf("  suggestlimit: %d\n", c.SuggestLimit))
	return b.String()
}

func (c *CatalogConfig) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("catalog.defaultlimit must be greater than 0")
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("catalog.maxlimit must be at least catalog.defaultlimit")
	}
	if c.DefaultSort == "" {
		return fmt.Errorf("catalog.defaultsort is not configured")
	}
	if c.DefaultOrder != "asc" && c.DefaultOrder != "desc" {
		return fmt.Errorf("catalog.defaultorder must be asc or desc")
	}
	if c.SuggestLimit <= 0 {
		return fmt.Errorf("catalog.suggestlimit must be greater than 0")
	}
	return nil
}
