package kvstore

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by stores that refuse a write for capacity.
var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// Store is a durable, string-keyed key-value store.
type Store interface {
	// Get returns the value for key. A missing key is ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend is optionally implemented by stores to report their backend name
// in logs and errors.
type Backend interface {
	Backend() string
}

// BackendName returns the backend name of s, or "kvstore" when s does not
// implement Backend.
func BackendName(s Store) string {
	if b, ok := s.(Backend); ok {
		return b.Backend()
	}
	return "kvstore"
}
