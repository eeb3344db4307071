package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/config"
	"github.com/kbukum/deckurl/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component and records lifecycle calls.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	events   *[]string
	mu       sync.Mutex
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	m.record("start:" + m.name)
	return m.startErr
}

func (m *mockComponent) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.record("stop:" + m.name)
	return m.stopErr
}

func (m *mockComponent) Health(ctx context.Context) component.Health {
	if m.health.Name == "" {
		return component.Health{Name: m.name, Status: component.StatusHealthy}
	}
	return m.health
}

func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "kvstore", Details: "mock " + m.name}
}

func (m *mockComponent) record(e string) {
	if m.events != nil {
		*m.events = append(*m.events, e)
	}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("deckurl", "1.0.0"), WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "deckurl" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Error("expected registry, logger and summary")
	}
	if app.Cfg.Name != "deckurl" {
		t.Errorf("expected typed cfg, got %q", app.Cfg.Name)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("default timeout = %v", app.gracefulTimeout)
	}
}

func TestNewAppInitializesLoggerFromConfig(t *testing.T) {
	cfg := newTestConfig("deckurl", "1.0.0")
	cfg.Logging = logger.Config{Level: "error", Format: "json"}
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Logger != logger.GetGlobalLogger() {
		t.Error("expected app logger to be the global logger")
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg, WithLogger(logger.NewNop())); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, err := NewApp(newTestConfig("deckurl", "1"), WithLogger(logger.NewNop()), WithGracefulTimeout(3*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("timeout = %v", app.gracefulTimeout)
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t)
	if err := app.RegisterComponent(&mockComponent{name: "redis"}); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "redis"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&mockComponent{name: "db", events: &events})
	_ = app.RegisterComponent(&mockComponent{name: "cache", events: &events})
	app.OnStart(func(ctx context.Context) error {
		events = append(events, "onStart")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		events = append(events, "configure:"+a.Cfg.Name)
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		events = append(events, "onStop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"start:db", "start:cache", "onStart", "configure:deckurl", "task", "onStop", "stop:cache", "stop:db"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v\nwant     %v", events, want)
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "db"}
	_ = app.RegisterComponent(c)
	boom := errors.New("boom")

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("RunTask = %v, want task error", err)
	}
	if !c.stopped {
		t.Error("component should be stopped after a failed task")
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunTask = %v, want context.Canceled", err)
	}
}

func TestRunTaskStartupFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig], first *mockComponent)
	}{
		{"component start", func(app *App[*testConfig], _ *mockComponent) {
			_ = app.RegisterComponent(&mockComponent{name: "bad", startErr: boom})
		}},
		{"onStart hook", func(app *App[*testConfig], _ *mockComponent) {
			app.OnStart(func(ctx context.Context) error { return boom })
		}},
		{"configure", func(app *App[*testConfig], _ *mockComponent) {
			app.OnConfigure(func(ctx context.Context, _ *App[*testConfig]) error { return boom })
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			first := &mockComponent{name: "first"}
			_ = app.RegisterComponent(first)
			tc.setup(app, first)

			ran := false
			err := app.RunTask(context.Background(), func(ctx context.Context) error {
				ran = true
				return nil
			})
			if !errors.Is(err, boom) {
				t.Errorf("RunTask = %v, want boom", err)
			}
			if ran {
				t.Error("task should not run after a startup failure")
			}
			if !first.stopped {
				t.Error("started components should be stopped after a startup failure")
			}
		})
	}
}

func TestRunTaskStopErrors(t *testing.T) {
	boom := errors.New("stop failed")

	t.Run("stop hook", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(ctx context.Context) error { return boom })
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
		if !errors.Is(err, boom) {
			t.Errorf("RunTask = %v, want stop hook error", err)
		}
	})

	t.Run("component stop", func(t *testing.T) {
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "db", stopErr: boom})
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "stop failed") {
			t.Errorf("RunTask = %v, want component stop error", err)
		}
	})

	t.Run("task error wins", func(t *testing.T) {
		app := newTestApp(t)
		app.OnStop(func(ctx context.Context) error { return boom })
		taskErr := errors.New("task failed")
		err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
		if !errors.Is(err, taskErr) {
			t.Errorf("RunTask = %v, want task error", err)
		}
	})
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		health  component.Health
		wantErr bool
	}{
		{"healthy", component.Health{Name: "db", Status: component.StatusHealthy}, false},
		{"degraded", component.Health{Name: "db", Status: component.StatusDegraded}, true},
		{"unhealthy", component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "down"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			_ = app.RegisterComponent(&mockComponent{name: "db", health: tc.health})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tc.wantErr {
				t.Errorf("ReadyCheck = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	if err := newTestApp(t).ReadyCheck(context.Background()); err != nil {
		t.Errorf("empty registry should be ready, got %v", err)
	}
}

func TestSummaryCollect(t *testing.T) {
	reg := component.NewRegistry()
	_ = reg.Register(&mockComponent{name: "redis"})
	_ = reg.Register(&mockComponent{name: "db", health: component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "locked"}})

	s := NewSummary("deckurl", "1.0.0")
	infos := s.Collect(context.Background(), reg)
	if len(infos) != 2 {
		t.Fatalf("infos = %v", infos)
	}
	if infos[0].Name != "redis" || infos[0].Type != "kvstore" || infos[0].Details != "mock redis" {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[1].Status != component.StatusUnhealthy || infos[1].Message != "locked" {
		t.Errorf("infos[1] = %+v", infos[1])
	}
	if s.Collect(context.Background(), nil) != nil {
		t.Error("nil registry should collect nothing")
	}
}

func TestSummaryLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "deckurl", &buf)
	reg := component.NewRegistry()
	_ = reg.Register(&mockComponent{name: "redis"})

	s := NewSummary("deckurl", "1.0.0")
	s.SetStartupDuration(25 * time.Millisecond)
	s.Log(context.Background(), reg, log)

	out := buf.String()
	for _, want := range []string{`"message":"application started"`, `"duration_ms":25`, `"component":"redis"`, `"details":"mock redis"`} {
		if !strings.Contains(out, want) {
			t.Errorf("summary log missing %s:\n%s", want, out)
		}
	}
	if s.StartupDuration() != 25*time.Millisecond {
		t.Errorf("StartupDuration = %v", s.StartupDuration())
	}
}
