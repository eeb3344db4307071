package database

import (
	"context"
	"fmt"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// Component opens the database on Start and serves the durable tier through
// Store.
type Component struct {
	cfg   Config
	log   *logger.Logger
	db    *DB
	store *Store
}

var _ component.Component = (*Component)(nil)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

// DB returns the database, or nil before Start.
func (c *Component) DB() *DB { return c.db }

// Store returns the kvstore view, or nil before Start.
func (c *Component) Store() *Store { return c.store }

func (c *Component) Name() string { return "database" }

// Start opens the database and, with AutoMigrate, creates kv_entries.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	store := NewStore(db)
	if c.cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return err
		}
	}
	c.db, c.store = db, store
	c.log.Info("sqlite ready", logger.Fields("path", c.cfg.Path))
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	var check func(context.Context) error
	if c.db != nil {
		check = c.db.PingContext
	}
	return component.CheckHealth(ctx, c.Name(), check)
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", c.cfg.Path, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += " auto-migrate=on"
	}
	return component.Description{Name: "SQLite", Type: "database", Details: details}
}
