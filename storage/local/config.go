package local

import (
	"errors"
	"path/filepath"
)

// DefaultBasePath is relative to the working directory.
const DefaultBasePath = "data/storage"

// Config places deck URL objects on the local filesystem.
type Config struct {
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// Sync flushes each value to disk before it is renamed into place.
	Sync bool `mapstructure:"sync" json:"sync"`
}

// ApplyDefaults sets the base path.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate rejects an empty base path and the filesystem root.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return errors.New("local: base_path is required")
	}
	if clean := filepath.Clean(c.BasePath); clean == string(filepath.Separator) {
		return errors.New("local: base_path must not be the filesystem root")
	}
	return nil
}
