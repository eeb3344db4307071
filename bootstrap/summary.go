package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// ComponentInfo is one line of the startup summary.
type ComponentInfo struct {
	Name    string
	Type    string
	Details string
	Status  component.HealthStatus
	Message string
}

func (i ComponentInfo) fields() map[string]any {
	f := logger.Fields(logger.FieldComponent, i.Name, "type", i.Type, "details", i.Details, "status", string(i.Status))
	if i.Message != "" {
		f["message"] = i.Message
	}
	return f
}

// Summary reports what the application started with, once startup is done.
type Summary struct {
	service, version string
	took             time.Duration
}

func NewSummary(service, version string) *Summary {
	return &Summary{service: service, version: version}
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) { s.took = d }

func (s *Summary) StartupDuration() time.Duration { return s.took }

// Collect describes every registered component along with its current
// health. Components that are not Describable are listed by name only.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) []ComponentInfo {
	if registry == nil {
		return nil
	}
	var infos []ComponentInfo
	for _, c := range registry.All() {
		info := ComponentInfo{Name: c.Name()}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				info.Name = desc.Name
			}
			info.Type, info.Details = desc.Type, desc.Details
		}
		h := c.Health(ctx)
		info.Status, info.Message = h.Status, h.Message
		infos = append(infos, info)
	}
	return infos
}

// Log writes the summary at debug level. Stdout is left to command output.
func (s *Summary) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	infos := s.Collect(ctx, registry)
	log.Debug("application started", logger.Fields(
		"name", s.service,
		"version", s.version,
		logger.FieldDuration, s.took.Milliseconds(),
		"components", len(infos),
	))
	for _, info := range infos {
		log.Debug("component ready", info.fields())
	}
}
