package logger

import "sync"

// Component loggers are derived from the global logger on first use and
// cached by name. Replacing the global logger drops the cache.
var components = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register pins the logger Get returns for name until the global logger is
// next replaced, e.g. to route one component to a test writer.
func Register(name string, l *Logger) {
	components.mu.Lock()
	defer components.mu.Unlock()
	components.loggers[name] = l
}

// Get returns the logger for a named component, tagging the global logger
// with the component name the first time it is asked for.
func Get(name string) *Logger {
	components.mu.RLock()
	l, ok := components.loggers[name]
	components.mu.RUnlock()
	if ok {
		return l
	}

	components.mu.Lock()
	defer components.mu.Unlock()
	if l, ok := components.loggers[name]; ok {
		return l
	}
	l = GetGlobalLogger().WithComponent(name)
	components.loggers[name] = l
	return l
}

func resetComponents() {
	components.mu.Lock()
	defer components.mu.Unlock()
	components.loggers = make(map[string]*Logger)
}
