package footage

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"sitecam/internal/platform/metrics"
	"sitecam/internal/timeline"
)

// DefaultBaseURL is where clips are served from when none is configured.
const DefaultBaseURL = "http://localhost:8080/videos"

// Resolver turns clip keys into playable URLs. A key is checked against the
// catalog once; resolved URLs are cached for the lifetime of the Resolver.
type Resolver struct {
	catalog Catalog
	baseURL string
	metrics *metrics.Metrics

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver returns a Resolver serving clips under baseURL. m may be nil.
func NewResolver(catalog Catalog, baseURL string, m *metrics.Metrics) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{
		catalog: catalog,
		baseURL: baseURL,
		metrics: m,
		cache:   make(map[string]string),
	}
}

// ResolveURL implements timeline.URLResolver.
func (r *Resolver) ResolveURL(ctx context.Context, key string) (string, error) {
	const op = "footage.Resolver.ResolveURL"

	r.mu.RLock()
	u, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		r.metrics.IncURLResolution(metrics.ResultHit)
		return u, nil
	}

	date, start, ok := timeline.ParseClipKey(key)
	if !ok {
		r.metrics.IncURLResolution(metrics.ResultNotFound)
		return "", fmt.Errorf("%s: %q: %w", op, key, ErrClipNotFound)
	}

	clips, err := r.catalog.ListClips(ctx, date)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !containsStart(clips, start.Key()) {
		r.metrics.IncURLResolution(metrics.ResultNotFound)
		return "", fmt.Errorf("%s: %q: %w", op, key, ErrClipNotFound)
	}

	u, err = url.JoinPath(r.baseURL, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r.mu.Lock()
	r.cache[key] = u
	r.mu.Unlock()

	r.metrics.IncURLResolution(metrics.ResultMiss)
	return u, nil
}

// Cached reports how many keys have a resolved URL.
func (r *Resolver) Cached() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func containsStart(clips []timeline.Clip, start string) bool {
	for _, c := range clips {
		if c.StartTime == start {
			return true
		}
	}
	return false
}
