package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/deckurl/kvstore"
)

// Store implements kvstore.Store on Redis strings.
type Store struct {
	client    *Client
	namespace string
}

// NewStore creates a Store. Keys are prefixed with "<namespace>:" when
// namespace is not empty.
func NewStore(client *Client, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

func (s *Store) fullKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Backend implements kvstore.Backend.
func (s *Store) Backend() string { return "redis" }

// Get implements kvstore.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.rdb.Get(ctx, s.fullKey(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements kvstore.Store. Entries never expire.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.rdb.Set(ctx, s.fullKey(key), value, 0).Err()
}

// Remove implements kvstore.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.rdb.Del(ctx, s.fullKey(key)).Err()
}

var _ kvstore.Store = (*Store)(nil)
