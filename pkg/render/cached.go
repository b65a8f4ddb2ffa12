package render

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphbot/pkg/cache"
	"github.com/matzehuels/graphbot/pkg/observability"
)

const artifactKeyType = "artifact"

// Cached memoizes another renderer's output by document and format.
// Cache failures are logged and otherwise ignored: the cache never turns a
// successful render into an error.
type Cached struct {
	Next    Renderer
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Backend string        // recorded in cache keys so backends don't share entries
	TTL     time.Duration // zero means cache.TTLArtifact
}

// NewCached wraps next. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default().
func NewCached(next Renderer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Next: next, Cache: c, Keyer: keyer, Logger: logger}
}

// Render returns the cached artifact or renders and stores it.
func (r *Cached) Render(ctx context.Context, document string, format Format) ([]byte, error) {
	if format == FormatDOT {
		return r.Next.Render(ctx, document, format)
	}

	key := r.Keyer.ArtifactKey(r.Keyer.DocumentHash(document), cache.ArtifactKeyOpts{
		Format:  string(format),
		Backend: r.Backend,
	})
	hooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("artifact cache read failed", "err", err)
	} else if hit {
		hooks.OnCacheHit(ctx, artifactKeyType)
		r.Logger.Debug("artifact cache hit", "format", format, "bytes", len(data))
		return data, nil
	}
	hooks.OnCacheMiss(ctx, artifactKeyType)

	data, err = r.Next.Render(ctx, document, format)
	if err != nil {
		return nil, err
	}

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("artifact cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return data, nil
}

var _ Renderer = (*Cached)(nil)
