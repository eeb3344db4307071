// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment, in increasing precedence.
//
// Each leaf field of the target struct reads one environment variable named
// after its dotted key:
//
//	var cfg AppConfig
//	err := config.LoadConfig("deckurl", &cfg, config.WithEnvPrefix("DECKURL_"))
//	// deckcache.backend <- DECKURL_DECKCACHE_BACKEND
//	// redis.addr        <- DECKURL_REDIS_ADDR
package config
