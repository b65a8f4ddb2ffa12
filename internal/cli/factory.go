package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphbot/pkg/cache"
	"github.com/matzehuels/graphbot/pkg/config"
	"github.com/matzehuels/graphbot/pkg/dialogue"
	"github.com/matzehuels/graphbot/pkg/render"
)

// =============================================================================
// Renderer Factory
// =============================================================================

// newRenderer builds the configured backend, wrapped in the artifact cache
// unless noCache is set. The returned close function releases the cache.
func newRenderer(ctx context.Context, cfg config.RenderConfig, noCache bool, logger *log.Logger) (render.Renderer, func() error, error) {
	var backend render.Renderer
	switch cfg.Backend {
	case config.BackendExec:
		exec := render.NewExec(cfg.DotPath)
		if !exec.Available() {
			return nil, nil, fmt.Errorf("graphviz binary %q not found in PATH", exec.Path)
		}
		backend = exec
	default:
		backend = render.NewGraphviz()
	}

	if noCache {
		return backend, func() error { return nil }, nil
	}
	c, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	cached := render.NewCached(backend, c, cache.NewScopedKeyer(nil, appName+":"), logger)
	cached.Backend = cfg.Backend
	cached.TTL = cfg.CacheTTL
	return cached, c.Close, nil
}

// newCache opens the configured artifact cache.
func newCache(ctx context.Context, cfg config.RenderConfig) (cache.Cache, error) {
	switch cfg.Cache {
	case config.CacheFile:
		dir := cfg.CacheDir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// =============================================================================
// Store & Bot Factory
// =============================================================================

// newStore opens the configured dialogue store.
func newStore(ctx context.Context, cfg config.SessionConfig) (dialogue.Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		return dialogue.NewFileStore(cfg.Dir, cfg.TTL)
	case config.StoreRedis:
		return dialogue.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	case config.StoreMongo:
		return dialogue.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.TTL)
	case config.StoreSQLite:
		return dialogue.NewSQLiteStore(cfg.SQLitePath, cfg.TTL)
	default:
		return dialogue.NewMemoryStore(cfg.TTL), nil
	}
}

// botOptions maps the configuration to dialogue options.
func botOptions(cfg config.Config) (dialogue.Options, error) {
	format, err := render.ParseFormat(cfg.Render.Format)
	if err != nil {
		return dialogue.Options{}, err
	}
	return dialogue.Options{
		Format:          format,
		CompactLayout:   cfg.Graph.CompactLayout,
		LargeLayout:     cfg.Graph.LargeLayout,
		CompactMaxLines: cfg.Graph.CompactMaxLines,
		NodeSettings:    cfg.Graph.NodeSettings,
		LayoutSettings:  cfg.Graph.LayoutSettings,
		Contact:         cfg.Contact,
	}, nil
}

// bot bundles a dialogue bot with the resources it holds open.
type bot struct {
	*dialogue.Bot
	closers []func() error
}

func (b *bot) Close() error {
	var first error
	for _, fn := range b.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newBot wires renderer, store and options from cfg.
func newBot(ctx context.Context, cfg config.Config, logger *log.Logger) (*bot, error) {
	opts, err := botOptions(cfg)
	if err != nil {
		return nil, err
	}
	renderer, closeRenderer, err := newRenderer(ctx, cfg.Render, false, logger)
	if err != nil {
		return nil, err
	}
	store, err := newStore(ctx, cfg.Session)
	if err != nil {
		closeRenderer()
		return nil, fmt.Errorf("open %s session store: %w", cfg.Session.Store, err)
	}
	logger.Debug("bot ready", "backend", cfg.Render.Backend, "cache", cfg.Render.Cache, "store", cfg.Session.Store)
	return &bot{
		Bot:     dialogue.NewBot(store, renderer, opts, logger),
		closers: []func() error{store.Close, closeRenderer},
	}, nil
}
