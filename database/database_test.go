package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
)

func startComponent(t *testing.T, path string) *Component {
	t.Helper()
	comp := NewComponent(Config{Enabled: true, Path: path, AutoMigrate: true, LogLevel: "silent"}, logger.NewNop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return comp
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	s := startComponent(t, filepath.Join(t.TempDir(), "kv.db")).Store()

	if _, ok, err := s.Get(ctx, "deck-url-1"); err != nil || ok {
		t.Fatalf("Get missing = ok %v, err %v", ok, err)
	}
	if err := s.Set(ctx, "deck-url-1", "https://example.com/1.pdf"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "deck-url-1")
	if err != nil || !ok || v != "https://example.com/1.pdf" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	if err := s.Set(ctx, "deck-url-1", "https://example.com/2.pdf"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "deck-url-1")
	if v != "https://example.com/2.pdf" {
		t.Errorf("after overwrite Get = %q", v)
	}
	if n, _ := s.Len(ctx); n != 1 {
		t.Errorf("Len = %d, want 1 after upsert", n)
	}

	if err := s.Remove(ctx, "deck-url-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "deck-url-1"); ok {
		t.Error("expected absent after Remove")
	}
	if err := s.Remove(ctx, "deck-url-1"); err != nil {
		t.Errorf("Remove missing key: %v", err)
	}
}

func TestStore_RemoveOnlyTargetsKey(t *testing.T) {
	ctx := context.Background()
	s := startComponent(t, ":memory:").Store()

	_ = s.Set(ctx, "deck-url-a", "1")
	_ = s.Set(ctx, "deck-url-b", "2")
	if err := s.Remove(ctx, "deck-url-a"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "deck-url-b"); !ok || v != "2" {
		t.Errorf("unrelated key affected: %q, %v", v, ok)
	}
	if err := s.Remove(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len(ctx); n != 1 {
		t.Errorf("Remove of empty key must not delete rows, Len = %d", n)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	first := NewComponent(Config{Enabled: true, Path: path, AutoMigrate: true, LogLevel: "silent"}, logger.NewNop())
	if err := first.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Store().Set(ctx, "deck-url-42", "https://example.com/deck.pdf"); err != nil {
		t.Fatal(err)
	}
	if err := first.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	second := startComponent(t, path)
	v, ok, err := second.Store().Get(ctx, "deck-url-42")
	if err != nil || !ok || v != "https://example.com/deck.pdf" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestStore_Backend(t *testing.T) {
	if got := kvstore.BackendName(NewStore(nil)); got != "sqlite" {
		t.Errorf("BackendName = %q", got)
	}
}

func TestComponent_Health(t *testing.T) {
	ctx := context.Background()
	comp := NewComponent(Config{Enabled: true, Path: ":memory:"}, logger.NewNop())
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("unstarted health = %s", h.Status)
	}

	started := startComponent(t, ":memory:")
	if h := started.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health = %s (%s)", h.Status, h.Message)
	}
	_ = started.DB().Close()
	if h := started.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("health after close = %s", h.Status)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{Enabled: true, Path: "data/kv.db", AutoMigrate: true}, logger.NewNop())
	d := comp.Describe()
	if d.Details != "data/kv.db pool=1/1 auto-migrate=on" {
		t.Errorf("Details = %q", d.Details)
	}
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled skips", Config{BusyTimeout: "nope"}, false},
		{"defaults", Config{Enabled: true}, false},
		{"bad busy timeout", Config{Enabled: true, BusyTimeout: "nope"}, true},
		{"idle above open", Config{Enabled: true, MaxOpenConns: 1, MaxIdleConns: 4}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if cfg.Enabled {
				cfg.ApplyDefaults()
			}
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Path: "data/../data/kv.db", BusyTimeout: "2s"}
	dsn := cfg.DSN()
	if !strings.HasPrefix(dsn, "file:data/kv.db?") {
		t.Errorf("DSN = %q", dsn)
	}
	if !strings.Contains(dsn, "busy_timeout(2000)") || !strings.Contains(dsn, "journal_mode(WAL)") {
		t.Errorf("DSN missing pragmas: %q", dsn)
	}

	mem := Config{Path: ":memory:", BusyTimeout: "1s"}
	if got := mem.DSN(); got != "file::memory:?_pragma=busy_timeout(1000)" {
		t.Errorf("memory DSN = %q", got)
	}
}

func TestErrorClassification(t *testing.T) {
	full := errors.New("database or disk is full (13)")
	if !IsFullError(full) {
		t.Error("expected full error")
	}
	if err := translate(full); !errors.Is(err, kvstore.ErrQuotaExceeded) {
		t.Errorf("translate(full) = %v, want ErrQuotaExceeded", err)
	}
	if !IsBusyError(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("expected busy error")
	}
	if !IsConnectionError(errors.New("sql: database is closed")) {
		t.Error("expected connection error")
	}
	other := errors.New("syntax error")
	if translate(other) != other {
		t.Error("unrelated errors must pass through unchanged")
	}
	if IsFullError(nil) || IsBusyError(nil) || IsConnectionError(nil) {
		t.Error("nil is not an error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"INFO":   gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
