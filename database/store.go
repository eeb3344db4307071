package database

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kbukum/deckurl/kvstore"
)

// Store implements kvstore.Store on the kv_entries table.
type Store struct {
	db *DB
}

// NewStore creates a Store over db. The table must exist; see Migrate.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the kv_entries table.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.AutoMigrate(ctx, &KVEntry{})
}

func keyEq(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

// Backend implements kvstore.Backend.
func (s *Store) Backend() string { return "sqlite" }

// Get implements kvstore.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).Where(keyEq(key)).Take(&entry).Error
	if IsNotFoundError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translate(err)
	}
	return entry.Value, true, nil
}

// Set implements kvstore.Store with an upsert on the key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	return translate(err)
}

// Remove implements kvstore.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	return translate(s.db.WithContext(ctx).Where(keyEq(key)).Delete(&KVEntry{}).Error)
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&KVEntry{}).Count(&n).Error
	return n, err
}

var _ kvstore.Store = (*Store)(nil)
