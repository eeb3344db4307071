// Package logger provides structured logging for deckurl using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("deckcache")
//	log.Info("deck url set", logger.Fields("deal_id", id, "url", u))
package logger
