package deckcache

// KeyPrefix prefixes every durable key written by the cache.
const KeyPrefix = "deck-url-"

// Key returns the durable key for dealID.
func Key(dealID string) string {
	return KeyPrefix + dealID
}
