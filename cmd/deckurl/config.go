package main

import (
	"fmt"

	"github.com/kbukum/deckurl/config"
	"github.com/kbukum/deckurl/database"
	"github.com/kbukum/deckurl/observability"
	"github.com/kbukum/deckurl/redis"
	"github.com/kbukum/deckurl/storage"
	"github.com/kbukum/deckurl/storage/local"
	"github.com/kbukum/deckurl/storage/s3"
	"github.com/kbukum/deckurl/storage/supabase"
	"github.com/kbukum/deckurl/validation"
	"github.com/kbukum/deckurl/version"
)

const (
	serviceName = "deckurl"
	// envPrefix scopes overrides, e.g. DECKURL_DECKCACHE_BACKEND=redis.
	envPrefix = "DECKURL_"
)

// Durable backend names accepted by deckcache.backend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendLocal    = storage.ProviderLocal
	BackendS3       = storage.ProviderS3
	BackendSupabase = storage.ProviderSupabase
)

// Backends lists the selectable durable backends in display order.
var Backends = []string{BackendMemory, BackendRedis, BackendSQLite, BackendLocal, BackendS3, BackendSupabase}

// CacheConfig is the deckcache section.
type CacheConfig struct {
	// Backend selects the durable tier.
	Backend string `mapstructure:"backend" validate:"required,oneof=memory redis sqlite local s3 supabase"`
	// DurableFirst writes the durable tier before the memory tier.
	DurableFirst bool `mapstructure:"durable_first"`
}

// MemoryConfig configures the in-process durable tier.
type MemoryConfig struct {
	// Quota caps stored bytes; zero means unlimited.
	Quota int `mapstructure:"quota" validate:"gte=0"`
}

// AppConfig is the deckurl configuration file layout.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Deckcache     CacheConfig          `mapstructure:"deckcache"`
	Memory        MemoryConfig         `mapstructure:"memory"`
	Redis         redis.Config         `mapstructure:"redis"`
	Database      database.Config      `mapstructure:"database"`
	Storage       storage.Config       `mapstructure:"storage"`
	Local         local.Config         `mapstructure:"local"`
	S3            s3.Config            `mapstructure:"s3"`
	Supabase      supabase.Config      `mapstructure:"supabase"`
	Observability observability.Config `mapstructure:"observability"`
}

// ApplyDefaults fills defaults and enables only the selected backend.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Deckcache.Backend == "" {
		c.Deckcache.Backend = BackendSQLite
	}

	c.Redis.Enabled = c.Deckcache.Backend == BackendRedis
	c.Database.Enabled = c.Deckcache.Backend == BackendSQLite
	// The CLI owns its table; migrating is idempotent.
	c.Database.AutoMigrate = true
	c.Storage.Enabled = c.isObjectBackend()
	if c.Storage.Enabled {
		c.Storage.Provider = c.Deckcache.Backend
	}

	c.Redis.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Local.ApplyDefaults()
	c.S3.ApplyDefaults()
	c.Supabase.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags, then the selected backend's own rules.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}

	var err error
	switch c.Deckcache.Backend {
	case BackendRedis:
		err = c.Redis.Validate()
	case BackendSQLite:
		err = c.Database.Validate()
	case BackendLocal:
		err = c.Local.Validate()
	case BackendS3:
		err = c.S3.Validate()
	case BackendSupabase:
		err = c.Supabase.Validate()
	}
	if err != nil {
		return fmt.Errorf("%s backend: %w", c.Deckcache.Backend, err)
	}
	if c.isObjectBackend() {
		return c.Storage.Validate()
	}
	return nil
}

// providerConfig returns the provider-specific config for object backends.
func (c *AppConfig) providerConfig() any {
	switch c.Deckcache.Backend {
	case BackendLocal:
		return &c.Local
	case BackendS3:
		return &c.S3
	case BackendSupabase:
		return &c.Supabase
	}
	return nil
}

func (c *AppConfig) isObjectBackend() bool {
	switch c.Deckcache.Backend {
	case BackendLocal, BackendS3, BackendSupabase:
		return true
	}
	return false
}
