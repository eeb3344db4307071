// Package kvstore defines the durable string-keyed key-value capability the
// deck URL cache persists through, plus an in-memory implementation.
//
// Backends for real deployments live next to their clients:
// redis.Store, database.Store and storage.KVStore.
//
// A Store returns ("", false, nil) for a missing key; errors are reserved
// for backend failures.
package kvstore
