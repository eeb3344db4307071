package testutil

import (
	"context"
	"testing"
)

// THelper runs TestComponent operations and fails the test on error.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T returns a helper bound to t and context.Background.
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext replaces the context passed to the component.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

func (h *THelper) must(op string, c TestComponent, err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("%s %s: %v", op, c.Name(), err)
	}
}

// Setup starts c and registers its Stop as test cleanup.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	h.must("start", c, c.Start(h.ctx))
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

// Reset empties c.
func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	h.must("reset", c, c.Reset(h.ctx))
}

// Snapshot copies c's state for a later Restore.
func (h *THelper) Snapshot(c TestComponent) any {
	h.t.Helper()
	snap, err := c.Snapshot(h.ctx)
	h.must("snapshot", c, err)
	return snap
}

// Restore puts back a state taken by Snapshot.
func (h *THelper) Restore(c TestComponent, snapshot any) {
	h.t.Helper()
	h.must("restore", c, c.Restore(h.ctx, snapshot))
}
