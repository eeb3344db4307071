// Package storage provides object storage with pluggable backends and a
// KVStore adapter that lets any backend serve as the deck URL cache's
// durable tier, one object per key.
//
// # Backends
//
//   - storage/local: local filesystem, for development and single-host use
//   - storage/s3: Amazon S3 and S3-compatible services such as MinIO
//   - storage/supabase: Supabase Storage REST API
//
// Backends register a factory from init; import the ones you need:
//
//	import _ "github.com/kbukum/deckurl/storage/local"
//
// # Configuration
//
//	storage:
//	  provider: "s3"
//	  prefix: "deck-urls"
//	  max_value_size: 8192
package storage
