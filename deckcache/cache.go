package deckcache

import (
	"context"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/deckurl/errors"
	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/observability"
)

const meterName = "github.com/kbukum/deckurl/deckcache"

// Cache maps deal ids to deck URLs. It is safe for concurrent use.
type Cache struct {
	store   kvstore.Store
	backend string

	mu     sync.RWMutex
	memory map[string]string
	// writes counts sets and clears per deal so a promotion that raced with
	// one of them does not install the value it read before the write.
	writes map[string]uint64

	group singleflight.Group

	log          *logger.Logger
	observer     Observer
	metrics      *observability.CacheMetrics
	durableFirst bool
}

// New creates a Cache over the durable store. The memory tier starts empty.
func New(store kvstore.Store, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		backend: kvstore.BackendName(store),
		memory:  make(map[string]string),
		writes:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("deckcache")
	}
	if c.observer == nil {
		c.observer = NewLogObserver(c.log)
	}
	if c.metrics == nil {
		m, err := observability.NewCacheMetrics(observability.Meter(meterName))
		if err != nil {
			c.log.Warn("cache metrics disabled", logger.ErrorFields("new_metrics", err))
		}
		c.metrics = m
	}
	return c
}

// Backend returns the durable backend name.
func (c *Cache) Backend() string { return c.backend }

// SetDeckURL stores url for dealID in both tiers, replacing any previous value.
// The url is stored as given.
func (c *Cache) SetDeckURL(ctx context.Context, dealID, url string) error {
	if dealID == "" {
		return errors.MissingField("deal_id")
	}
	key := Key(dealID)

	if c.durableFirst {
		if err := c.durableSet(ctx, key, url); err != nil {
			return err
		}
		c.storeMemory(dealID, url)
	} else {
		c.storeMemory(dealID, url)
		if err := c.durableSet(ctx, key, url); err != nil {
			return err
		}
	}

	c.recordWrite(ctx)
	c.observer.Observe(ctx, Event{Kind: EventSet, DealID: dealID, URL: url})
	return nil
}

// GetDeckURL returns the URL for dealID. The memory tier is consulted first;
// on a miss the durable tier is read and a hit is promoted into memory.
// ok is false when neither tier has the deal, including for an empty dealID.
//
// Concurrent misses for the same deal share one durable read. That read runs
// detached from any single caller's cancellation; each caller still returns
// as soon as its own ctx is done.
func (c *Cache) GetDeckURL(ctx context.Context, dealID string) (string, bool, error) {
	if dealID == "" {
		return "", false, nil
	}

	if url, ok := c.loadMemory(dealID); ok {
		c.recordHit(ctx)
		return url, true, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(dealID, func() (interface{}, error) {
		return c.promote(shared, dealID)
	})
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", false, r.Err
		}
		res := r.Val.(lookup)
		return res.url, res.ok, nil
	}
}

type lookup struct {
	url string
	ok  bool
}

func (c *Cache) promote(ctx context.Context, dealID string) (lookup, error) {
	c.mu.RLock()
	if url, ok := c.memory[dealID]; ok {
		c.mu.RUnlock()
		c.recordHit(ctx)
		return lookup{url: url, ok: true}, nil
	}
	seen := c.writes[dealID]
	c.mu.RUnlock()

	url, ok, err := c.durableGet(ctx, Key(dealID))
	if err != nil {
		return lookup{}, err
	}
	if !ok {
		c.recordMiss(ctx)
		return lookup{}, nil
	}

	c.mu.Lock()
	if c.writes[dealID] != seen {
		// A set or clear landed while reading; it owns the memory tier now.
		c.mu.Unlock()
		return lookup{url: url, ok: true}, nil
	}
	c.memory[dealID] = url
	c.mu.Unlock()

	c.recordPromotion(ctx)
	c.observer.Observe(ctx, Event{Kind: EventPromoted, DealID: dealID, URL: url})
	return lookup{url: url, ok: true}, nil
}

// ClearDeckURL removes dealID from both tiers. Clearing an unknown deal, or
// an empty dealID, is a no-op.
func (c *Cache) ClearDeckURL(ctx context.Context, dealID string) error {
	if dealID == "" {
		return nil
	}
	key := Key(dealID)

	if c.durableFirst {
		if err := c.durableRemove(ctx, key); err != nil {
			return err
		}
		c.deleteMemory(dealID)
	} else {
		c.deleteMemory(dealID)
		if err := c.durableRemove(ctx, key); err != nil {
			return err
		}
		// A read that started after the first delete may have promoted
		// the value durableRemove just dropped.
		c.deleteMemory(dealID)
	}

	c.recordClear(ctx)
	c.observer.Observe(ctx, Event{Kind: EventCleared, DealID: dealID})
	return nil
}

// Len returns the number of deals held in the memory tier.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Cached reports whether dealID is in the memory tier, without touching the durable tier.
func (c *Cache) Cached(dealID string) bool {
	_, ok := c.loadMemory(dealID)
	return ok
}

// --- memory tier ---

func (c *Cache) loadMemory(dealID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.memory[dealID]
	return url, ok
}

func (c *Cache) storeMemory(dealID, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory[dealID] = url
	c.writes[dealID]++
	c.group.Forget(dealID)
}

func (c *Cache) deleteMemory(dealID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.memory, dealID)
	c.writes[dealID]++
	// Reads after this point must not join a flight that started before it.
	c.group.Forget(dealID)
}

// --- durable tier ---

func (c *Cache) durableGet(ctx context.Context, key string) (string, bool, error) {
	op := observability.StartDurableOp(ctx, c.metrics, c.backend, observability.OpGet, key)
	url, ok, err := c.store.Get(op.Context(), key)
	op.End(err)
	if err != nil {
		c.logDurableError(op, "get", key, err)
		return "", false, errors.StorageRead(c.backend, key, err)
	}
	return url, ok, nil
}

func (c *Cache) durableSet(ctx context.Context, key, url string) error {
	op := observability.StartDurableOp(ctx, c.metrics, c.backend, observability.OpSet, key)
	err := c.store.Set(op.Context(), key, url)
	op.End(err)
	if err != nil {
		c.logDurableError(op, "set", key, err)
		if stderrors.Is(err, kvstore.ErrQuotaExceeded) {
			return errors.QuotaExceeded(c.backend, key, err)
		}
		return errors.StorageWrite(c.backend, key, err)
	}
	return nil
}

func (c *Cache) durableRemove(ctx context.Context, key string) error {
	op := observability.StartDurableOp(ctx, c.metrics, c.backend, observability.OpRemove, key)
	err := c.store.Remove(op.Context(), key)
	op.End(err)
	if err != nil {
		c.logDurableError(op, "remove", key, err)
		return errors.StorageDelete(c.backend, key, err)
	}
	return nil
}

func (c *Cache) logDurableError(op *observability.DurableOp, name, key string, err error) {
	c.log.WithContext(op.Context()).Warn("durable tier call failed",
		logger.DurableFields(name, c.backend, key, op.Duration(), err))
}

// --- metrics ---

func (c *Cache) recordHit(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordHit(ctx, c.backend)
	}
}

func (c *Cache) recordMiss(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordMiss(ctx, c.backend)
	}
}

func (c *Cache) recordPromotion(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordPromotion(ctx, c.backend)
	}
}

func (c *Cache) recordWrite(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordWrite(ctx, c.backend)
	}
}

func (c *Cache) recordClear(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordClear(ctx, c.backend)
	}
}
