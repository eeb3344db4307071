// Package deckcache caches deck URLs per deal in two tiers: an in-process
// map that serves repeat reads, backed by a durable kvstore.Store that
// outlives the process.
//
// Construct one Cache at startup and pass it to every consumer:
//
//	cache := deckcache.New(store)
//	_ = cache.SetDeckURL(ctx, "deal-42", "https://example.com/deck.pdf")
//	url, ok, err := cache.GetDeckURL(ctx, "deal-42")
//
// Reads go memory first, then the durable tier. A durable hit is copied into
// memory so later reads of that deal never touch the durable tier again for
// the life of the Cache. Durable entries are keyed "deck-url-<dealID>".
//
// Writes update memory then the durable tier. A failed durable write leaves
// memory ahead of the durable tier; use WithDurableFirst to only update
// memory once the durable write has succeeded.
package deckcache
