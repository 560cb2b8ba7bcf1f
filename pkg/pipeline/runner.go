package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/symbolscape/symbolscape/pkg/cache"
	"github.com/symbolscape/symbolscape/pkg/graph"
	"github.com/symbolscape/symbolscape/pkg/observability"
	"github.com/symbolscape/symbolscape/pkg/seed"
	"github.com/symbolscape/symbolscape/pkg/style"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete seed → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, raw graph.RawGraph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Seed
	seedStart := time.Now()
	s, seedHit, err := r.BuildSeedWithCacheInfo(ctx, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	result.Seed = s
	result.Stats.SeedTime = time.Since(seedStart)
	result.Stats.NodeCount = s.NodeCount()
	result.Stats.EdgeCount = s.EdgeCount()
	result.CacheInfo.SeedHit = seedHit

	// Compute seed hash for cache keys and API responses
	if seedData, err := seed.Marshal(s); err == nil {
		result.SeedHash = cache.Hash(seedData)
	}

	r.Logger.Info("built seed",
		"nodes", s.NodeCount(),
		"edges", s.EdgeCount(),
		"duration", result.Stats.SeedTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"containers", len(l.Containers),
		"edges", len(l.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildSeedWithCacheInfo builds a seed with caching and returns cache hit info.
func (r *Runner) BuildSeedWithCacheInfo(ctx context.Context, raw graph.RawGraph, opts Options) (*seed.GraphSeed, bool, error) {
	opts.SetSeedDefaults()
	r.applyLogger(&opts)

	// Compute cache key from raw graph content
	rawData, err := graph.MarshalRawGraph(raw)
	if err != nil {
		return nil, false, fmt.Errorf("serialize raw graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.SeedKey(cache.Hash(rawData), opts.SeedKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if s, err := seed.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "seed")
				return s, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "seed")
	}

	// Build
	start := time.Now()
	observability.Pipeline().OnSeedStart(ctx, opts.GraphID)
	s, err := BuildSeed(raw, opts)
	if err != nil {
		observability.Pipeline().OnSeedComplete(ctx, opts.GraphID, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnSeedComplete(ctx, opts.GraphID, s.NodeCount(), time.Since(start), nil)

	// Cache the result
	if data, err := seed.Marshal(s); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSeed)
		observability.Cache().OnCacheSet(ctx, "seed", len(data))
	}

	return s, false, nil // Cache miss
}

// BuildSeed is a convenience wrapper that calls BuildSeedWithCacheInfo and
// discards the cache hit info.
func (r *Runner) BuildSeed(ctx context.Context, raw graph.RawGraph, opts Options) (*seed.GraphSeed, error) {
	s, _, err := r.BuildSeedWithCacheInfo(ctx, raw, opts)
	return s, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, s *seed.GraphSeed, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Host overrides are session state; a layout carrying them is never
	// representative of the bare seed, so it bypasses the cache.
	cacheable := overridesEmpty(opts.Overrides)

	var cacheKey string
	if cacheable {
		seedData, _ := seed.Marshal(s)
		cacheKey = r.Keyer.LayoutKey(cache.Hash(seedData), opts.LayoutKeyOpts())

		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				// Cached layouts carry a neutral overlay and no session
				// identity; apply the caller's state on the way out.
				cached.GraphID = opts.GraphID
				return Restyle(cached, initialStyle(s, opts)), true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Compute
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.GraphID, s.NodeCount())
	l, err := ComputeLayout(s, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.GraphID, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	// Cache the result, stripped of interaction styling and session
	// identity: the stored bytes must depend only on the seed and the
	// geometry options in the key.
	if cacheable {
		neutral := Restyle(l, neutralStyle(s))
		neutral.GraphID = ""
		if data, err := graph.MarshalLayout(neutral); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, s *seed.GraphSeed, opts Options) (graph.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, s, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderFromLayout(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Restyle recomputes the style overlay of a layout for new interaction
// state. Geometry is copied, never recomputed: no placement, grouping,
// bundling, or routing runs here, which is what keeps hover and selection
// changes cheap.
func (r *Runner) Restyle(ctx context.Context, l graph.Layout, st style.State) graph.Layout {
	start := time.Now()
	observability.Pipeline().OnStyleStart(ctx, l.GraphID)
	out := Restyle(l, st)
	observability.Pipeline().OnStyleComplete(ctx, l.GraphID, time.Since(start))
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
