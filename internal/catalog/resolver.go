package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports that a service or catalog item does not exist. A
// resolution gap is distinct from a transport failure: callers recover from
// it locally (placeholder synthesis) instead of surfacing an error.
var ErrNotFound = errors.New("catalog: not found")

// Resolver looks up services and their action/reaction definitions.
type Resolver interface {
	// Service returns the service descriptor, or ErrNotFound.
	Service(ctx context.Context, id string) (*Service, error)
	// Item returns the catalog item of the given kind, or ErrNotFound.
	Item(ctx context.Context, serviceID, itemID string, kind Kind) (*Item, error)
}

// HTTPResolver resolves against the relay catalog REST API, fetching each
// service's full item list once and serving subsequent lookups from the
// injected cache.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// NewHTTPResolver creates a resolver for the API at baseURL. A nil cache
// gets a private one.
func NewHTTPResolver(baseURL string, cache *Cache) *HTTPResolver {
	if cache == nil {
		cache = NewCache()
	}
	return &HTTPResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
	}
}

func (r *HTTPResolver) Service(ctx context.Context, id string) (*Service, error) {
	e, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	svc := e.service
	return &svc, nil
}

func (r *HTTPResolver) Item(ctx context.Context, serviceID, itemID string, kind Kind) (*Item, error) {
	e, err := r.load(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return findItem(e.items, itemID, kind)
}

// load returns the cached snapshot for the service, fetching it on a miss.
func (r *HTTPResolver) load(ctx context.Context, serviceID string) (entry, error) {
	if e, ok := r.cache.get(serviceID); ok {
		return e, nil
	}

	var svc Service
	if err := r.getJSON(ctx, "/api/services/"+url.PathEscape(serviceID), &svc); err != nil {
		return entry{}, err
	}
	var items []Item
	if err := r.getJSON(ctx, "/api/services/"+url.PathEscape(serviceID)+"/items", &items); err != nil {
		return entry{}, err
	}

	e := entry{service: svc, items: items}
	r.cache.put(serviceID, e)
	return e, nil
}

func (r *HTTPResolver) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog API error (%d): %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// FileResolver serves a catalog loaded from a YAML seed file, for offline
// use (`relay validate`) and tests.
type FileResolver struct {
	services map[string]entry
}

// NewFileResolver builds a resolver over the given seed entries.
func NewFileResolver(seeds []SeedService) *FileResolver {
	services := make(map[string]entry, len(seeds))
	for _, s := range seeds {
		services[s.Service.ID] = entry{service: s.Service, items: s.Items}
	}
	return &FileResolver{services: services}
}

func (r *FileResolver) Service(_ context.Context, id string) (*Service, error) {
	e, ok := r.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	svc := e.service
	return &svc, nil
}

func (r *FileResolver) Item(_ context.Context, serviceID, itemID string, kind Kind) (*Item, error) {
	e, ok := r.services[serviceID]
	if !ok {
		return nil, ErrNotFound
	}
	return findItem(e.items, itemID, kind)
}

func findItem(items []Item, itemID string, kind Kind) (*Item, error) {
	for _, it := range items {
		if it.ID == itemID && it.Kind == kind {
			item := it
			return &item, nil
		}
	}
	return nil, ErrNotFound
}
