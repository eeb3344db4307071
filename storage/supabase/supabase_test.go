package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/storage"
)

// fakeSupabase serves the object endpoints of the Storage API from a map.
type fakeSupabase struct {
	mu       sync.Mutex
	objects  map[string]string
	maxBytes int
	auth     []string
}

func newFake(t *testing.T) (*fakeSupabase, *httptest.Server) {
	t.Helper()
	f := &fakeSupabase{objects: make(map[string]string)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeSupabase) object(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[name]
}

func (f *fakeSupabase) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeSupabase) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	const prefix = "/storage/v1/object/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, prefix)

	switch r.Method {
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		if f.maxBytes > 0 && len(body) > f.maxBytes {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		if r.Header.Get("x-upsert") != "true" {
			if _, ok := f.objects[name]; ok {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		f.objects[name] = string(body)
		_, _ = io.WriteString(w, `{"Key":"`+name+`"}`)
	case http.MethodGet:
		v, ok := f.objects[name]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"statusCode":"404","error":"not_found","message":"Object not found"}`)
			return
		}
		_, _ = io.WriteString(w, v)
	case http.MethodHead:
		if _, ok := f.objects[name]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	case http.MethodDelete:
		if _, ok := f.objects[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(f.objects, name)
		_, _ = io.WriteString(w, `{"message":"Successfully deleted"}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newKV(t *testing.T, srvURL string) *storage.KVStore {
	t.Helper()
	cfg := storage.Config{Enabled: true, Provider: storage.ProviderSupabase, Prefix: "deck-urls"}
	comp := storage.NewComponent(cfg, &Config{URL: srvURL, Bucket: "deals", SecretKey: "service-role"}, logger.NewNop())
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return comp.Store()
}

func TestKVStoreOverSupabase(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFake(t)
	kv := newKV(t, srv.URL)

	if _, ok, err := kv.Get(ctx, "deck-url-42"); err != nil || ok {
		t.Fatalf("Get missing = ok %v, err %v", ok, err)
	}
	if err := kv.Set(ctx, "deck-url-42", "https://example.com/deck.pdf"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := fake.object("deals/deck-urls/deck-url-42"); got != "https://example.com/deck.pdf" {
		t.Errorf("stored object = %q", got)
	}
	if err := kv.Set(ctx, "deck-url-42", "https://example.com/v2.pdf"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "deck-url-42")
	if err != nil || !ok || v != "https://example.com/v2.pdf" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if err := kv.Remove(ctx, "deck-url-42"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := kv.Remove(ctx, "deck-url-42"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	if n := fake.count(); n != 0 {
		t.Errorf("%d objects left", n)
	}
	for _, a := range fake.authHeaders() {
		if a != "Bearer service-role" {
			t.Fatalf("unexpected Authorization header %q", a)
		}
	}
}

func TestKVStoreKeysWithSlashes(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFake(t)
	kv := newKV(t, srv.URL)

	if err := kv.Set(ctx, "deck-url-x/../y", "X"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "deck-url-z/../y", "Z"); err != nil {
		t.Fatal(err)
	}
	if got := fake.object("deals/deck-urls/deck-url-x%2F..%2Fy"); got != "X" {
		t.Errorf("stored object = %q", got)
	}
	if v, ok, err := kv.Get(ctx, "deck-url-x/../y"); err != nil || !ok || v != "X" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
	if n := fake.count(); n != 2 {
		t.Errorf("%d objects, want 2", n)
	}
}

func TestUploadTooLarge(t *testing.T) {
	fake, srv := newFake(t)
	fake.mu.Lock()
	fake.maxBytes = 4
	fake.mu.Unlock()
	kv := newKV(t, srv.URL)

	err := kv.Set(context.Background(), "k", "too long")
	if !errors.Is(err, kvstore.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer srv.Close()
	s := NewStorage(Config{URL: srv.URL, Bucket: "deals", SecretKey: "k"})

	if _, err := s.Download(context.Background(), "x"); err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download error = %v, want a non-not-found failure", err)
	}
	if err := s.Delete(context.Background(), "x"); err == nil {
		t.Error("expected Delete to fail")
	}
	if _, err := s.Exists(context.Background(), "x"); err == nil {
		t.Error("expected Exists to fail")
	}
}

func TestExists(t *testing.T) {
	fake, srv := newFake(t)
	fake.mu.Lock()
	fake.objects["deals/a"] = "1"
	fake.mu.Unlock()
	s := NewStorage(Config{URL: srv.URL + "/", Bucket: "deals", SecretKey: "k"})

	if ok, err := s.Exists(context.Background(), "a"); err != nil || !ok {
		t.Errorf("Exists(a) = %v, %v", ok, err)
	}
	if ok, err := s.Exists(context.Background(), "b"); err != nil || ok {
		t.Errorf("Exists(b) = %v, %v", ok, err)
	}
}

func TestFactoryRequiresConfig(t *testing.T) {
	_, err := storage.New(storage.Config{Provider: storage.ProviderSupabase}, nil, logger.NewNop())
	if err == nil {
		t.Fatal("expected error without provider config")
	}
	_, err = storage.New(storage.Config{Provider: storage.ProviderSupabase}, &Config{URL: "http://x"}, logger.NewNop())
	if err == nil {
		t.Fatal("expected validation error for missing bucket and key")
	}
}
