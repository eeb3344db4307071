package logger

import (
	"fmt"
	"slices"
)

// Output formats. "pretty" and "text" are accepted as console.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
	FormatText    = "text"
)

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	formats = []string{FormatJSON, FormatConsole, FormatPretty, FormatText}
	outputs = []string{"stdout", "stderr"}
)

// Config is the logging section of a service config.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
	// ServiceName tags every record; it defaults to the service's name.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}

// ApplyDefaults selects info-level console output on stderr with timestamps.
// Stdout is left to command output.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate checks level, format and output against the supported values.
func (c *Config) Validate() error {
	for _, f := range []struct {
		key, val string
		allowed  []string
	}{
		{"logging.level", c.Level, levels},
		{"logging.format", c.Format, formats},
		{"logging.output", c.Output, outputs},
	} {
		if !slices.Contains(f.allowed, f.val) {
			return fmt.Errorf("%s must be one of %v (got: %s)", f.key, f.allowed, f.val)
		}
	}
	return nil
}

func (c *Config) console() bool {
	return c.Format != FormatJSON && c.Format != ""
}
