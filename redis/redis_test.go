package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
)

func startComponent(t *testing.T, namespace string) (*Component, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	comp := NewComponent(Config{Enabled: true, Addr: mr.Addr(), Namespace: namespace}, logger.NewNop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })
	return comp, mr
}

func TestStore_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	comp, mr := startComponent(t, "")
	s := comp.Store()

	if _, ok, err := s.Get(ctx, "deck-url-1"); err != nil || ok {
		t.Fatalf("Get missing = ok %v, err %v", ok, err)
	}
	if err := s.Set(ctx, "deck-url-1", "https://example.com/1.pdf"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.CheckGet(t, "deck-url-1", "https://example.com/1.pdf")
	if ttl := mr.TTL("deck-url-1"); ttl != 0 {
		t.Errorf("expected no expiry, got %v", ttl)
	}

	v, ok, err := s.Get(ctx, "deck-url-1")
	if err != nil || !ok || v != "https://example.com/1.pdf" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	if err := s.Remove(ctx, "deck-url-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if mr.Exists("deck-url-1") {
		t.Error("key should be deleted")
	}
	if err := s.Remove(ctx, "deck-url-1"); err != nil {
		t.Errorf("Remove missing key: %v", err)
	}
}

func TestStore_Namespace(t *testing.T) {
	ctx := context.Background()
	comp, mr := startComponent(t, "acme")

	if err := comp.Store().Set(ctx, "deck-url-9", "u"); err != nil {
		t.Fatal(err)
	}
	mr.CheckGet(t, "acme:deck-url-9", "u")
	if mr.Exists("deck-url-9") {
		t.Error("unprefixed key must not be written")
	}
}

func TestStore_EmptyValueIsPresent(t *testing.T) {
	ctx := context.Background()
	comp, _ := startComponent(t, "")

	if err := comp.Store().Set(ctx, "k", ""); err != nil {
		t.Fatal(err)
	}
	v, ok, err := comp.Store().Get(ctx, "k")
	if err != nil || !ok || v != "" {
		t.Errorf("Get = %q, %v, %v; want empty present value", v, ok, err)
	}
}

func TestStore_ServerErrorPropagates(t *testing.T) {
	ctx := context.Background()
	comp, mr := startComponent(t, "")

	mr.SetError("LOADING Redis is loading the dataset in memory")
	_, _, err := comp.Store().Get(ctx, "k")
	if err == nil {
		t.Fatal("expected server error")
	}
	mr.SetError("")
	if _, _, err := comp.Store().Get(ctx, "k"); err != nil {
		t.Errorf("expected recovery, got %v", err)
	}
}

func TestStore_Backend(t *testing.T) {
	var s kvstore.Store = NewStore(nil, "")
	if kvstore.BackendName(s) != "redis" {
		t.Errorf("BackendName = %q", kvstore.BackendName(s))
	}
}

func TestComponent_Health(t *testing.T) {
	comp := NewComponent(Config{Enabled: true}, logger.NewNop())
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("unstarted component health = %s", h.Status)
	}

	started, mr := startComponent(t, "")
	if h := started.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health = %s (%s)", h.Status, h.Message)
	}
	mr.Close()
	if h := started.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health after server shutdown = %s", h.Status)
	}
}

func TestComponent_StartFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	comp := NewComponent(Config{Enabled: true, Addr: addr, MaxRetries: -1, DialTimeout: "100ms"}, logger.NewNop())
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}
	if comp.Store() != nil {
		t.Error("store must stay nil after a failed start")
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent(Config{Enabled: true, Addr: "cache:6379", DB: 2, Namespace: "deals"}, logger.NewNop())
	d := comp.Describe()
	if d.Details != "cache:6379 db=2 pool=10 ns=deals" {
		t.Errorf("Details = %q", d.Details)
	}
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Config{}, logger.NewNop()); err == nil {
		t.Error("expected disabled config to be rejected")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled skips", Config{ReadTimeout: "bogus"}, false},
		{"defaults", Config{Enabled: true}, false},
		{"bad timeout", Config{Enabled: true, ReadTimeout: "soon"}, true},
		{"bad idle", Config{Enabled: true, ConnMaxIdleTime: "x"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if cfg.Enabled {
				cfg.ApplyDefaults()
			}
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
