package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/deckurl/logger"
)

// Client owns one go-redis connection pool.
type Client struct {
	rdb       *goredis.Client
	log       *logger.Logger
	cfg       Config
	closeOnce sync.Once
	closeErr  error
}

// New builds a pool from cfg without dialing. Use Ping to check the server.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, errors.New("redis: disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug("redis pool configured", logger.Fields("addr", cfg.Addr, "db", cfg.DB, "pool_size", cfg.PoolSize))
	return &Client{rdb: goredis.NewClient(cfg.options()), log: log, cfg: cfg}, nil
}

// Ping round-trips a PING.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping %s: %w", c.cfg.Addr, err)
	}
	return nil
}

// Close releases the pool. Later calls return the first result.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.log.Debug("closing redis pool")
		c.closeErr = c.rdb.Close()
	})
	return c.closeErr
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config { return c.cfg }

// Unwrap exposes the go-redis client.
func (c *Client) Unwrap() *goredis.Client { return c.rdb }
