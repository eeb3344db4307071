package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/config"
	"github.com/kbukum/deckurl/logger"
)

// DefaultGracefulTimeout bounds OnStop hooks plus component shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// Config is satisfied by any pointer to a struct embedding
// config.ServiceConfig; the embedding struct may shadow ApplyDefaults and
// Validate to cover its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// Hook runs once during startup (OnStart) or shutdown (OnStop).
type Hook func(ctx context.Context) error

// App owns the components of one process lifetime and runs a single task
// between their start and stop.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
	onConfigure     []func(ctx context.Context, app *App[C]) error
}

// Option customizes NewApp.
type Option func(*settings)

type settings struct {
	log             *logger.Logger
	gracefulTimeout time.Duration
}

// WithLogger uses l instead of building a logger from the config's logging
// section. It also becomes the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout replaces DefaultGracefulTimeout.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	s := settings{gracefulTimeout: DefaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	svc := cfg.GetServiceConfig()
	if s.log != nil {
		logger.SetGlobalLogger(s.log)
	} else {
		logger.Init(&svc.Logging)
		s.log = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            svc.Name,
		Version:         svc.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          s.log,
		Summary:         NewSummary(svc.Name, svc.Version),
		gracefulTimeout: s.gracefulTimeout,
	}, nil
}

// RegisterComponent adds c to the start order. Names must be unique.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnStart adds hooks that run after every component has started.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop adds hooks that run before components are stopped, e.g. to flush
// telemetry exporters.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// OnConfigure adds a callback that runs after the OnStart hooks, for
// objects such as the cache that need started components.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}
