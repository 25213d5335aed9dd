package render

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/labelforge/labelforge/pkg/cache"
	"github.com/labelforge/labelforge/pkg/label"
)

// cacheTTL bounds how long rendered images live in the cache. Renders are
// deterministic, so the TTL only limits disk growth.
const cacheTTL = 7 * 24 * time.Hour

// cachedResult is the serialized cache envelope. Failures are never
// cached; a stored envelope always holds a usable image.
type cachedResult struct {
	PNG    []byte `json:"png"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CachedRenderer wraps a Renderer with a cache keyed by the render
// fingerprint (payload, caption and full label configuration). Cache
// errors degrade to a fresh render; they never fail the request.
type CachedRenderer struct {
	inner  Renderer
	cache  cache.Cache
	logger *log.Logger
}

// NewCached wraps inner with c. A nil logger falls back to log.Default().
func NewCached(inner Renderer, c cache.Cache, logger *log.Logger) *CachedRenderer {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedRenderer{inner: inner, cache: c, logger: logger}
}

// Render returns the cached image when present, otherwise delegates to
// the wrapped renderer and caches successful results.
func (r *CachedRenderer) Render(ctx context.Context, rec label.Record, cfg label.LabelConfig) Result {
	key := cache.Key("render", rec.Payload, rec.Caption, cfg)

	if data, hit, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Debugf("cache get failed, rendering fresh: %v", err)
	} else if hit {
		var env cachedResult
		if err := json.Unmarshal(data, &env); err == nil && len(env.PNG) > 0 {
			return Result{PNG: env.PNG, Width: env.Width, Height: env.Height}
		}
		r.logger.Debugf("discarding corrupt cache entry %s", key)
		_ = r.cache.Delete(ctx, key)
	}

	res := r.inner.Render(ctx, rec, cfg)
	if res.OK() {
		data, err := json.Marshal(cachedResult{PNG: res.PNG, Width: res.Width, Height: res.Height})
		if err == nil {
			if err := r.cache.Set(ctx, key, data, cacheTTL); err != nil {
				r.logger.Debugf("cache set failed: %v", err)
			}
		}
	}
	return res
}

// Ensure CachedRenderer implements Renderer.
var _ Renderer = (*CachedRenderer)(nil)
