package testutil

import (
	"context"
	"fmt"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// Manager runs a group of TestComponents through a component.Registry, so
// they start in the order added and stop in reverse.
type Manager struct {
	ctx context.Context
	reg *component.Registry
}

// NewManager returns an empty manager whose lifecycle calls use ctx.
func NewManager(ctx context.Context) *Manager {
	return &Manager{
		ctx: ctx,
		reg: component.NewRegistry(component.WithRegistryLogger(logger.NewNop())),
	}
}

// Add appends c. Names must be unique.
func (m *Manager) Add(c TestComponent) error {
	return m.reg.Register(c)
}

// Get returns the component named name, or nil.
func (m *Manager) Get(name string) TestComponent {
	tc, _ := m.reg.Get(name).(TestComponent)
	return tc
}

// StartAll starts every component, stopping at the first failure.
func (m *Manager) StartAll() error { return m.reg.StartAll(m.ctx) }

// StopAll stops the started components and joins their failures.
func (m *Manager) StopAll() error { return m.reg.StopAll(m.ctx) }

// ResetAll resets every component, stopping at the first failure.
func (m *Manager) ResetAll() error {
	for _, c := range m.reg.All() {
		if err := c.(TestComponent).Reset(m.ctx); err != nil {
			return fmt.Errorf("reset %s: %w", c.Name(), err)
		}
	}
	return nil
}
