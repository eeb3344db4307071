// deckurl records and looks up the pitch-deck URL of a deal.
//
// Usage:
//
//	deckurl set <deal-id> <url>
//	deckurl get <deal-id>
//	deckurl clear <deal-id>
//	deckurl backends
//
// Global flags: --config, --env-file, --backend, --durable-first.
// Any config key can also be set from the environment with the DECKURL_
// prefix, e.g. DECKURL_REDIS_ADDR=localhost:6379.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
