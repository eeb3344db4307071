package deckcache

import (
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/observability"
)

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for operational messages and, unless
// WithObserver is given, for the default observer.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithObserver replaces the default logging observer.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// WithDurableFirst writes and removes on the durable tier before touching
// memory, so memory only changes after the durable tier has accepted it.
func WithDurableFirst() Option {
	return func(c *Cache) { c.durableFirst = true }
}

// WithMetrics records cache counters on m instead of the global meter.
func WithMetrics(m *observability.CacheMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}
