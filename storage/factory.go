package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/deckurl/logger"
)

// Factory creates a Storage from provider-specific configuration. Each
// provider type-asserts providerCfg to its own config type; nil means defaults.
type Factory func(providerCfg any, log *logger.Logger) (Storage, error)

// ProviderConfig is implemented by each provider's *Config.
type ProviderConfig interface {
	ApplyDefaults()
	Validate() error
}

// ConfigAs resolves the providerCfg handed to a Factory. nil selects a zero
// config; any other type than *T is an error. The result has its defaults
// applied and has been validated.
func ConfigAs[T any, P interface {
	*T
	ProviderConfig
}](provider string, providerCfg any) (P, error) {
	var c P
	switch v := providerCfg.(type) {
	case nil:
		c = P(new(T))
	case P:
		c = v
	default:
		return nil, fmt.Errorf("%s: unexpected provider config %T", provider, providerCfg)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a storage backend factory for the given provider name.
// Provider packages call this from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the Storage selected by cfg.Provider.
// The provider package must be imported so its factory is registered.
func New(cfg Config, providerCfg any, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	l := log.WithComponent("storage")
	l.Info("initializing storage", map[string]interface{}{"provider": cfg.Provider})
	return f(providerCfg, l)
}
