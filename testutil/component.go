package testutil

import (
	"context"

	"github.com/kbukum/deckurl/component"
)

// TestComponent is a component whose state a test can wipe, save and roll
// back. kvstore.Memory implements it so cache tests can compare the durable
// tier before and after an operation.
type TestComponent interface {
	component.Component

	// Reset drops all state, leaving the component as if newly started.
	Reset(ctx context.Context) error

	// Snapshot copies the current state. The value is opaque and only
	// meaningful to Restore on the same component type.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore replaces the current state with one taken by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
