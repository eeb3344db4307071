package s3

import (
	"errors"
	"fmt"
)

// DefaultRegion applies when no region is configured. MinIO ignores it.
const DefaultRegion = "us-east-1"

// Config locates the bucket that holds deck URL objects.
//
// AccessKey and SecretKey are optional as a pair; when both are empty the
// default AWS credential chain (env, shared config, instance role) is used.
type Config struct {
	Bucket string `mapstructure:"bucket" json:"bucket"`
	Region string `mapstructure:"region" json:"region"`

	// Endpoint points at an S3-compatible server such as MinIO and switches
	// the client to path-style addressing.
	Endpoint string `mapstructure:"endpoint" json:"endpoint" validate:"omitempty,url"`

	AccessKey string `mapstructure:"access_key" json:"access_key" validate:"required_with=SecretKey"`
	SecretKey string `mapstructure:"secret_key" json:"-" validate:"required_with=AccessKey"`

	// ForcePathStyle selects path-style URLs against AWS itself.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults sets the region.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate reports the settings an S3 client cannot start without. Tag
// rules (endpoint URL, credential pair) are checked by validation.Validate.
func (c *Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("access_key and secret_key must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("s3: %w", errors.Join(errs...))
	}
	return nil
}

// GetBucket returns the bucket name.
func (c *Config) GetBucket() string { return c.Bucket }
