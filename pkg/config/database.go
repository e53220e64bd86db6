package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver     string        `koanf:"driver"`
	URL        string        `koanf:"url"`
	Name       string        `koanf:"name"`
	Collection string        `koanf:"collection"`
	Timeout    time.Duration `koanf:"timeout"`
}

// String returns a string representation of the database configuration with credentials masked.
func (c *DatabaseConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Database ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  name: %s\n", c.Name))
	b.WriteString(fmt.Sprintf("  collection: %s\n", c.Collection))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverMongo, "":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !isValidMongoURL(c.URL) {
		return fmt.Errorf("database URL must start with 'mongodb://' or 'mongodb+srv://': %s", MaskURL(c.URL))
	}
	if c.Name == "" {
		return fmt.Errorf("database name is not configured")
	}
	if c.Collection == "" {
		return fmt.Errorf("database collection is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database timeout is not configured")
	}
	return nil
}

// isValidMongoURL checks if the provided URL is a MongoDB connection string
func isValidMongoURL(url string) bool {
	return strings.HasPrefix(url, "mongodb://") ||
		strings.HasPrefix(url, "mongodb+srv://")
}

// MaskURL hides the credentials part of a connection string.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	scheme, rest, found := strings.Cut(url, "://")
	if !found {
		return "****"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://****@" + rest[at+1:]
	}
	return url
}
