// Package database provides a SQLite-backed durable tier for the deck URL
// cache, built on GORM over the pure-Go modernc.org/sqlite driver.
//
// Entries live in one table:
//
//	kv_entries(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at DATETIME)
//
// Set is an upsert on key. A full disk surfaces as kvstore.ErrQuotaExceeded.
//
//	comp := database.NewComponent(database.Config{Enabled: true, Path: "data/deckurl.db", AutoMigrate: true}, log)
//	registry.Register(comp)
//	// after Start:
//	cache := deckcache.New(comp.Store())
package database
