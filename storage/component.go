package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// Component builds the configured provider on Start and serves the durable
// tier through Store, one object per key.
type Component struct {
	cfg         Config
	providerCfg any
	log         *logger.Logger
	storage     Storage
	kv          *KVStore
}

var _ component.Component = (*Component)(nil)

// NewComponent prepares a component. providerCfg is the provider's *Config,
// e.g. *s3.Config; nil selects the provider defaults.
func NewComponent(cfg Config, providerCfg any, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, providerCfg: providerCfg, log: log.WithComponent("storage")}
}

// Storage returns the provider, or nil before Start.
func (c *Component) Storage() Storage { return c.storage }

// Store returns the kvstore view, or nil before Start.
func (c *Component) Store() *KVStore { return c.kv }

func (c *Component) Name() string { return "storage" }

func (c *Component) Start(context.Context) error {
	if !c.cfg.Enabled {
		c.log.Debug("storage disabled")
		return nil
	}
	s, err := New(c.cfg, c.providerCfg, c.log)
	if err != nil {
		return err
	}
	c.storage, c.kv = s, NewKVStore(s, c.cfg)
	return nil
}

func (c *Component) Stop(context.Context) error {
	c.storage, c.kv = nil, nil
	return nil
}

// Health probes for an object under the prefix. A disabled component is
// healthy.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "disabled"}
	}
	var check func(context.Context) error
	if c.storage != nil {
		check = func(ctx context.Context) error {
			_, err := c.storage.Exists(ctx, c.kv.ObjectPath(".health"))
			return err
		}
	}
	return component.CheckHealth(ctx, c.Name(), check)
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s prefix=%s", c.cfg.Provider, c.cfg.Prefix)
	if bp, ok := c.providerCfg.(BucketDescriber); ok {
		if b := bp.GetBucket(); b != "" {
			details += fmt.Sprintf(" bucket=%s", b)
		}
	}

	return component.Description{Name: "Storage", Type: "storage", Details: details}
}

// BucketDescriber is implemented by provider configs that name a bucket.
type BucketDescriber interface {
	GetBucket() string
}
