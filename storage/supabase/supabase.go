package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/deckurl/kvstore"
	"github.com/kbukum/deckurl/logger"
	"github.com/kbukum/deckurl/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderSupabase, func(providerCfg any, _ *logger.Logger) (storage.Storage, error) {
		c, err := storage.ConfigAs[Config](storage.ProviderSupabase, providerCfg)
		if err != nil {
			return nil, err
		}
		return NewStorage(*c), nil
	})
}

// Storage implements storage.Storage using the Supabase Storage REST API.
type Storage struct {
	baseURL    string
	bucket     string
	secretKey  string
	httpClient *http.Client
}

// NewStorage creates a new Supabase storage client.
func NewStorage(cfg Config) *Storage {
	cfg.ApplyDefaults()
	return &Storage{
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/storage/v1",
		bucket:     cfg.Bucket,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *Storage) objectURL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, strings.Join(segments, "/"))
}

func (s *Storage) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.objectURL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("apikey", s.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		req.Header.Set("x-upsert", "true")
	}
	return s.httpClient.Do(req)
}

// statusError is a response Supabase answered with a 4xx or 5xx status.
type statusError struct {
	op     string
	path   string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("supabase: %s %s: status %d: %s", e.op, e.path, e.status, e.body)
}

// notFound reports a missing object. Supabase answers some missing-object
// requests with 400 and a not_found body.
func (e *statusError) notFound() bool {
	if e.status == http.StatusNotFound {
		return true
	}
	b := strings.ToLower(e.body)
	return e.status == http.StatusBadRequest &&
		(strings.Contains(b, "not_found") || strings.Contains(b, "object not found"))
}

// failure drains a failed response into a statusError. It returns nil for
// success statuses.
func failure(op, path string, resp *http.Response) *statusError {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &statusError{op: op, path: path, status: resp.StatusCode, body: string(body)}
}

// Upload upserts the object at path. A 413 maps to kvstore.ErrQuotaExceeded.
func (s *Storage) Upload(ctx context.Context, path string, r io.Reader) error {
	resp, err := s.do(ctx, http.MethodPost, path, r)
	if err != nil {
		return fmt.Errorf("supabase: upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf("supabase: upload %s: %w", path, kvstore.ErrQuotaExceeded)
	}
	if serr := failure("upload", path, resp); serr != nil {
		return serr
	}
	return nil
}

// Download opens the object at path. A missing object wraps storage.ErrNotFound.
func (s *Storage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: download %s: %w", path, err)
	}
	if serr := failure("download", path, resp); serr != nil {
		resp.Body.Close()
		if serr.notFound() {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		return nil, serr
	}
	return resp.Body, nil
}

// Delete removes the object at path. A missing object is not an error.
func (s *Storage) Delete(ctx context.Context, path string) error {
	resp, err := s.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("supabase: delete %s: %w", path, err)
	}
	defer resp.Body.Close()

	if serr := failure("delete", path, resp); serr != nil && !serr.notFound() {
		return serr
	}
	return nil
}

// Exists issues a HEAD for path. HEAD responses carry no body, so a 400 is
// taken to mean not found.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := s.do(ctx, http.MethodHead, path, nil)
	if err != nil {
		return false, fmt.Errorf("supabase: head %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch serr := failure("head", path, resp); {
	case serr == nil:
		return true, nil
	case serr.status == http.StatusNotFound || serr.status == http.StatusBadRequest:
		return false, nil
	default:
		return false, serr
	}
}

var _ storage.Storage = (*Storage)(nil)
