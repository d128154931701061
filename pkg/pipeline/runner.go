package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/observability"
)

// DefaultLayoutTTL is how long cached layouts live when no TTL is set.
const DefaultLayoutTTL = 7 * 24 * time.Hour

// Runner computes one-shot layouts with caching.
// Both CLI and HTTP service use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultLayoutTTL,
	}
}

// LayoutWithCacheInfo lays out g and reports whether the result came from
// the cache. Cache failures are logged and treated as misses; they never fail
// the layout.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts layout.Options) (graph.Layout, bool, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, false, errors.Wrap(errors.ErrCodeInvalidOptions, err, "layout options")
	}
	if err := g.Validate(); err != nil {
		return graph.Layout{}, false, err
	}

	graphHash, err := cache.HashJSON(g)
	if err != nil {
		return graph.Layout{}, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash graph")
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, opts)

	data, hit, err := r.Cache.Get(ctx, cacheKey)
	switch {
	case err != nil:
		r.Logger.Warn("layout cache read failed", "error", err)
	case hit:
		if cached, err := graph.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			r.Logger.Debug("layout cache hit", "key", cacheKey)
			return cached, true, nil
		}
		// Stale format; fall through to recompute.
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	res, err := Layout(g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	out := Export(res)
	r.Logger.Debug("computed layout",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"ranks", res.Stats.RankCount,
		"crossings", res.Stats.Crossings,
		"duration", res.Stats.Duration)

	if data, err := graph.MarshalLayout(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return out, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Layout(ctx context.Context, g graph.Graph, opts layout.Options) (graph.Layout, error) {
	out, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
