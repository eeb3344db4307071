package observability

import (
	"fmt"
	"time"
)

// Config is the observability section of the application config.
type Config struct {
	// Enabled turns on OTLP export of traces and metrics.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be within [0, 1], got %v", c.SampleRate)
	}
	if c.Interval < 0 {
		return fmt.Errorf("observability: interval must not be negative")
	}
	return nil
}

func (c *Config) exporter() Exporter {
	return Exporter{Endpoint: c.Endpoint, Insecure: c.Insecure}
}

// Tracer builds the trace provider settings for a service.
func (c *Config) Tracer(service, version, environment string) TracerConfig {
	return TracerConfig{
		Identity:   Identity{ServiceName: service, ServiceVersion: version, Environment: environment},
		Exporter:   c.exporter(),
		SampleRate: c.SampleRate,
	}
}

// Meter builds the meter provider settings for a service.
func (c *Config) Meter(service, version, environment string) MeterConfig {
	return MeterConfig{
		Identity: Identity{ServiceName: service, ServiceVersion: version, Environment: environment},
		Exporter: c.exporter(),
		Interval: c.Interval,
	}
}
