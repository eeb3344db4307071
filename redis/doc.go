// Package redis provides a Redis-backed durable tier for the deck URL cache.
//
// Client wraps go-redis with pooling, timeouts and logging. Store adapts a
// Client to kvstore.Store: values are plain strings written with SET and no
// expiry, a missing key (redis.Nil) reads as absent, and an optional
// namespace is prepended to every key.
//
//	comp := redis.NewComponent(cfg, log)
//	registry.Register(comp)
//	// after Start:
//	cache := deckcache.New(comp.Store())
package redis
