package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/kbukum/deckurl/kvstore"
)

// KVStore implements kvstore.Store on object storage: the value of key is
// the body of the object at "<prefix>/<key>".
type KVStore struct {
	storage      Storage
	provider     string
	prefix       string
	maxValueSize int64
}

// NewKVStore adapts s. cfg supplies the prefix and value size limit.
func NewKVStore(s Storage, cfg Config) *KVStore {
	cfg.ApplyDefaults()
	return &KVStore{
		storage:      s,
		provider:     cfg.Provider,
		prefix:       strings.Trim(cfg.Prefix, "/"),
		maxValueSize: cfg.MaxValueSize,
	}
}

// ObjectPath returns the object path for key. The key is escaped into a
// single path segment, so distinct keys always map to distinct objects.
func (k *KVStore) ObjectPath(key string) string {
	name := escapeSegment(key)
	if k.prefix == "" {
		return name
	}
	return path.Join(k.prefix, name)
}

func escapeSegment(key string) string {
	switch key {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(key)
}

// Backend implements kvstore.Backend.
func (k *KVStore) Backend() string { return k.provider }

// Get implements kvstore.Store.
func (k *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	rc, err := k.storage.Download(ctx, k.ObjectPath(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer rc.Close() //nolint:errcheck // read-only

	limit := k.maxValueSize
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return "", false, fmt.Errorf("storage: read %s: %w", key, err)
	}
	if int64(len(data)) > limit {
		return "", false, fmt.Errorf("storage: value of %s exceeds %d bytes", key, limit)
	}
	return string(data), true, nil
}

// Set implements kvstore.Store.
func (k *KVStore) Set(ctx context.Context, key, value string) error {
	if int64(len(value)) > k.maxValueSize {
		return fmt.Errorf("storage: value of %s is %d bytes, limit %d: %w", key, len(value), k.maxValueSize, kvstore.ErrQuotaExceeded)
	}
	return k.storage.Upload(ctx, k.ObjectPath(key), bytes.NewReader([]byte(value)))
}

// Remove implements kvstore.Store.
func (k *KVStore) Remove(ctx context.Context, key string) error {
	return k.storage.Delete(ctx, k.ObjectPath(key))
}

var _ kvstore.Store = (*KVStore)(nil)
