package deckcache

import (
	"context"

	"github.com/kbukum/deckurl/logger"
)

// EventKind identifies what happened to a deck URL.
type EventKind string

const (
	EventSet      EventKind = "set"
	EventPromoted EventKind = "promoted"
	EventCleared  EventKind = "cleared"
)

// Event describes a completed cache mutation.
type Event struct {
	Kind   EventKind
	DealID string
	// URL is empty for EventCleared.
	URL string
}

// Observer receives an Event after each successful mutation.
// It runs on the calling goroutine and must not call back into the Cache.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// LogObserver writes events to a structured logger. Sets are logged at info,
// promotions and clears at debug.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver returns an observer writing to log.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Observe implements Observer.
func (o *LogObserver) Observe(ctx context.Context, e Event) {
	l := o.log.WithContext(ctx)
	switch e.Kind {
	case EventSet:
		l.Info("deck url set", logger.DealFields(e.DealID, e.URL))
	case EventPromoted:
		l.Debug("deck url promoted", logger.DealFields(e.DealID, e.URL))
	case EventCleared:
		l.Debug("deck url cleared", logger.DealFields(e.DealID, ""))
	}
}

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Event) {}

// NopObserver discards every event.
var NopObserver Observer = nopObserver{}
