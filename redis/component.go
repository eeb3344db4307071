package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// Component connects on Start and serves the durable tier through Store.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
	store  *Store
}

var _ component.Component = (*Component)(nil)

// NewComponent prepares a component; nothing is dialed until Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client returns the connection, or nil before Start.
func (c *Component) Client() *Client { return c.client }

// Store returns the kvstore view, or nil before Start.
func (c *Component) Store() *Store { return c.store }

func (c *Component) Name() string { return "redis" }

// Start dials and pings the server. A failed ping leaves nothing open.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	c.store = NewStore(client, c.cfg.Namespace)
	c.log.Info("redis connected", logger.Fields("addr", c.cfg.Addr, "db", c.cfg.DB))
	return nil
}

func (c *Component) Stop(context.Context) error {
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	var check func(context.Context) error
	if c.client != nil {
		check = c.client.Ping
	}
	return component.CheckHealth(ctx, c.Name(), check)
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize)
	if c.cfg.Namespace != "" {
		details += " ns=" + c.cfg.Namespace
	}
	return component.Description{Name: "Redis", Type: "redis", Details: details}
}
