package component

import "context"

// HealthStatus is the coarse state a component reports.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is a component's answer to a health probe.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is anything the application starts before the cache is built
// and stops after the task finishes: the redis client, the sqlite database,
// the object storage provider or the in-memory store.
type Component interface {
	// Name is the registry key and must be unique.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself at startup.
type Description struct {
	// Name is a display name such as "Redis"; Component.Name is used when empty.
	Name string
	// Type groups components, e.g. "kvstore", "database", "storage".
	Type string
	// Details is one line of configuration, e.g. "localhost:6379 db=0".
	Details string
}

// Describable components add a Description to the startup summary.
type Describable interface {
	Describe() Description
}

// CheckHealth runs check and reports name healthy if it succeeds. A nil
// check means the component has not been started.
func CheckHealth(ctx context.Context, name string, check func(context.Context) error) Health {
	h := Health{Name: name, Status: StatusHealthy}
	if check == nil {
		h.Status, h.Message = StatusUnhealthy, "not started"
	} else if err := check(ctx); err != nil {
		h.Status, h.Message = StatusUnhealthy, err.Error()
	}
	return h
}
