package supabase

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds each Supabase Storage request.
const DefaultTimeout = 10 * time.Second

// Config holds Supabase Storage configuration.
type Config struct {
	// URL is the Supabase project URL (e.g., https://xyz.supabase.co).
	URL string `mapstructure:"url" json:"url" validate:"omitempty,url"`

	// Bucket is the storage bucket name.
	Bucket string `mapstructure:"bucket" json:"bucket"`

	// SecretKey is the service-role key sent as the Bearer token.
	SecretKey string `mapstructure:"secret_key" json:"-"`

	// Timeout bounds each request (e.g. "10s").
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the Supabase configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("supabase: url is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("supabase: bucket is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("supabase: secret_key is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("supabase: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GetBucket returns the bucket name.
func (c *Config) GetBucket() string { return c.Bucket }
