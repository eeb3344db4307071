// Package component defines the lifecycle interfaces shared by the
// durable-tier backends and the deck URL cache.
//
// Components are started in registration order and stopped in reverse by
// Registry; bootstrap.App drives a Registry for the CLI.
package component
