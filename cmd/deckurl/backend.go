package main

import (
	"fmt"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/database"
	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/redis"
	"github.com/kbukum/deckurl/storage"
)

// durable pairs the lifecycle component of a backend with its store, which
// is only available once the component has started.
type durable struct {
	component component.Component
	store     func() kvstore.Store
}

// newDurable builds the durable tier selected by cfg.Deckcache.Backend.
func newDurable(cfg *AppConfig, log *logger.Logger) (*durable, error) {
	switch cfg.Deckcache.Backend {
	case BackendMemory:
		m := kvstore.NewMemory(kvstore.WithQuota(cfg.Memory.Quota))
		return &durable{component: m, store: func() kvstore.Store { return m }}, nil
	case BackendRedis:
		c := redis.NewComponent(cfg.Redis, log)
		return &durable{component: c, store: func() kvstore.Store { return c.Store() }}, nil
	case BackendSQLite:
		c := database.NewComponent(cfg.Database, log)
		return &durable{component: c, store: func() kvstore.Store { return c.Store() }}, nil
	case BackendLocal, BackendS3, BackendSupabase:
		c := storage.NewComponent(cfg.Storage, cfg.providerConfig(), log)
		return &durable{component: c, store: func() kvstore.Store { return c.Store() }}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Deckcache.Backend)
}

// backendLibrary describes what each backend is built on, for `deckurl backends`.
var backendLibrary = map[string]string{
	BackendMemory:   "in-process map (lost on exit)",
	BackendRedis:    "github.com/redis/go-redis/v9",
	BackendSQLite:   "gorm.io/gorm + modernc.org/sqlite",
	BackendLocal:    "filesystem objects",
	BackendS3:       "github.com/aws/aws-sdk-go-v2/service/s3",
	BackendSupabase: "Supabase Storage REST",
}
