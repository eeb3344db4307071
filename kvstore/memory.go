package kvstore

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/kbukum/deckurl/component"
)

// Op names a Memory store operation for counters and failure injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Memory is an in-process Store for tests and development. It counts
// operations, can enforce a byte quota like browser storage, and can be
// told to fail specific operations.
type Memory struct {
	mu       sync.RWMutex
	items    map[string]string
	quota    int
	counts   map[Op]int
	failures map[Op]error
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithQuota caps the total size of keys and values in bytes. Zero means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) { m.quota = bytes }
}

// WithItems seeds the store, e.g. to simulate values left by an earlier process.
func WithItems(items map[string]string) MemoryOption {
	return func(m *Memory) { maps.Copy(m.items, items) }
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		items:    make(map[string]string),
		counts:   make(map[Op]int),
		failures: make(map[Op]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backend implements Backend.
func (m *Memory) Backend() string { return "memory" }

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[OpGet]++
	if err := m.failures[OpGet]; err != nil {
		return "", false, err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[OpSet]++
	if err := m.failures[OpSet]; err != nil {
		return err
	}
	if m.quota > 0 {
		used := m.sizeLocked()
		if old, ok := m.items[key]; ok {
			used -= len(key) + len(old)
		}
		if used+len(key)+len(value) > m.quota {
			return fmt.Errorf("set %q: %w", key, ErrQuotaExceeded)
		}
	}
	m.items[key] = value
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts[OpRemove]++
	if err := m.failures[OpRemove]; err != nil {
		return err
	}
	delete(m.items, key)
	return nil
}

// Count returns how many times op has been called.
func (m *Memory) Count(op Op) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[op]
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (m *Memory) FailOn(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Peek returns the stored value without counting a read.
func (m *Memory) Peek(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Size returns the total bytes of keys and values.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sizeLocked()
}

func (m *Memory) sizeLocked() int {
	n := 0
	for k, v := range m.items {
		n += len(k) + len(v)
	}
	return n
}

// --- component.Component ---

// Name returns the component name.
func (m *Memory) Name() string { return "kvstore-memory" }

// Start is a no-op; the store is usable once constructed.
func (m *Memory) Start(_ context.Context) error { return nil }

// Stop is a no-op; contents are kept so a test can inspect them afterwards.
func (m *Memory) Stop(_ context.Context) error { return nil }

// Health always reports healthy.
func (m *Memory) Health(_ context.Context) component.Health {
	return component.Health{Name: m.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for startup logging.
func (m *Memory) Describe() component.Description {
	details := fmt.Sprintf("keys=%d", m.Len())
	if m.quota > 0 {
		details += fmt.Sprintf(" quota=%dB", m.quota)
	}
	return component.Description{Name: "Memory KV", Type: "kvstore", Details: details}
}

// --- testutil.TestComponent ---

// Reset drops all keys, counters and injected failures.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]string)
	m.counts = make(map[Op]int)
	m.failures = make(map[Op]error)
	return nil
}

// Snapshot returns a copy of the stored keys.
func (m *Memory) Snapshot(_ context.Context) (interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.items), nil
}

// Restore replaces the stored keys with a snapshot taken by Snapshot.
func (m *Memory) Restore(_ context.Context, snapshot interface{}) error {
	items, ok := snapshot.(map[string]string)
	if !ok {
		return fmt.Errorf("kvstore: expected map[string]string snapshot, got %T", snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]string, len(items))
	maps.Copy(m.items, items)
	return nil
}

// compile-time checks
var (
	_ Store               = (*Memory)(nil)
	_ component.Component = (*Memory)(nil)
)
