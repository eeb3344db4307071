package redis

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config is the redis section of the application config.
type Config struct {
	// Enabled is set when redis is the selected durable backend.
	Enabled bool `mapstructure:"enabled"`

	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`

	// Namespace, when set, is prepended to every key as "<namespace>:".
	Namespace string `mapstructure:"namespace"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	// MaxRetries is the client's network retry count. -1 disables retries.
	MaxRetries int `mapstructure:"max_retries"`

	// Durations in time.ParseDuration syntax. Empty keeps the go-redis default.
	DialTimeout     string `mapstructure:"dial_timeout"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	PoolTimeout     string `mapstructure:"pool_timeout"`
	ConnMaxIdleTime string `mapstructure:"idle_timeout"`
}

// ApplyDefaults targets a local server with a small pool.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 1
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	for _, d := range []struct {
		field *string
		def   string
	}{
		{&c.DialTimeout, "5s"},
		{&c.ReadTimeout, "3s"},
		{&c.WriteTimeout, "3s"},
	} {
		if *d.field == "" {
			*d.field = d.def
		}
	}
}

func (c *Config) durations() map[string]string {
	return map[string]string{
		"dial_timeout":  c.DialTimeout,
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"pool_timeout":  c.PoolTimeout,
		"idle_timeout":  c.ConnMaxIdleTime,
	}
}

// Validate is a no-op while disabled. Otherwise it requires an address, a
// positive pool size and parseable durations.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("redis: addr is required")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("redis: pool_size must be > 0")
	}
	for key, v := range c.durations() {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("redis: invalid %s %q: %w", key, v, err)
		}
	}
	return nil
}

// options maps a validated Config onto go-redis options.
func (c *Config) options() *goredis.Options {
	d := func(s string) time.Duration {
		v, _ := time.ParseDuration(s)
		return v
	}
	return &goredis.Options{
		Addr:            c.Addr,
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		MaxRetries:      c.MaxRetries,
		DialTimeout:     d(c.DialTimeout),
		ReadTimeout:     d(c.ReadTimeout),
		WriteTimeout:    d(c.WriteTimeout),
		PoolTimeout:     d(c.PoolTimeout),
		ConnMaxIdleTime: d(c.ConnMaxIdleTime),
	}
}
