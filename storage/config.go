package storage

import (
	"fmt"
	"strings"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal    = "local"
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
)

// Default configuration values.
const (
	DefaultProvider     = ProviderLocal
	DefaultPrefix       = "kv"
	DefaultMaxValueSize = int64(64 * 1024)
)

// Config holds storage configuration shared by all providers.
// Provider-specific settings travel separately as *local.Config, *s3.Config
// or *supabase.Config.
type Config struct {
	// Enabled controls whether the storage component is active.
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// Provider selects the storage backend: "local", "s3" or "supabase".
	Provider string `mapstructure:"provider" json:"provider" validate:"omitempty,oneof=local s3 supabase"`

	// Prefix is the object path prefix under which keys are stored.
	Prefix string `mapstructure:"prefix" json:"prefix"`

	// MaxValueSize caps a single value in bytes; larger writes fail with
	// kvstore.ErrQuotaExceeded.
	MaxValueSize int64 `mapstructure:"max_value_size" json:"max_value_size"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.MaxValueSize <= 0 {
		c.MaxValueSize = DefaultMaxValueSize
	}
}

// Validate checks the provider and prefix.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal, ProviderS3, ProviderSupabase:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if strings.Contains(c.Prefix, "..") {
		return fmt.Errorf("storage: prefix must not contain %q", "..")
	}
	return nil
}
