package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Pure-Go SQLite, registered with database/sql as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/kbukum/deckurl/logger"
)

const driverName = "sqlite"

// DB is an open SQLite database behind GORM.
type DB struct {
	GormDB *gorm.DB
	sqlDB  *sql.DB
	log    *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open creates the database file's directory if needed, opens and pings the
// database, and sizes the connection pool.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ensureDir(cfg.Path); err != nil {
		return nil, err
	}

	slow, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gdb, err := gorm.Open(
		sqlite.Dialector{DriverName: driverName, DSN: cfg.DSN()},
		&gorm.Config{Logger: newGormLogger(log, slow, parseLogLevel(cfg.LogLevel))},
	)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.Path, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping %s: %w", cfg.Path, err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	log.Debug("sqlite opened", logger.Fields("path", cfg.Path, "max_open_conns", cfg.MaxOpenConns))
	return &DB{GormDB: gdb, sqlDB: sqlDB, log: log}, nil
}

func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("database: create %s: %w", dir, err)
	}
	return nil
}

// Close closes the pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		d.log.Debug("closing sqlite")
		d.closeErr = d.sqlDB.Close()
	})
	return d.closeErr
}

// PingContext checks the database is reachable.
func (d *DB) PingContext(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

// WithContext starts a GORM session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// AutoMigrate creates or alters the tables for models.
func (d *DB) AutoMigrate(ctx context.Context, models ...any) error {
	if err := d.GormDB.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}
