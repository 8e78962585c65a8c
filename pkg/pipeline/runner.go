package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/halftone/pkg/cache"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/observability"
	"github.com/matzehuels/halftone/pkg/shape"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the API server both use it so caching behaves the same.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different inputs.
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

// Execute runs the complete decode → compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		InputHash: in.Hash(),
		Tiles:     in.TileNames(),
	}

	// Stage 1+2: Decode and compute
	computeStart := time.Now()
	res, assets, computeHit, err := r.ComputeWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Result = res
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Width = res.Frame.Width
	result.Stats.Height = res.Frame.Height
	result.Stats.Dots = len(res.Dots)
	result.CacheInfo.ComputeHit = computeHit

	r.Logger.Info("computed dot field",
		"pattern", res.Params.Pattern,
		"candidates", res.Stats.Candidates,
		"dots", len(res.Dots),
		"shrunk", res.Stats.Shrunk,
		"cached", computeHit,
		"duration", result.Stats.ComputeTime)

	resultData, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("serialize result: %w", err)
	}
	result.ResultHash = cache.Hash(resultData)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, assets, in, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo decodes the input and computes the dot field, with
// caching. On a cache hit the source image is not decoded. The returned
// assets are nil when they were not needed; see [Runner.RenderWithCacheInfo].
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, in Input, opts Options) (halftone.Result, *shape.Set, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return halftone.Result{}, nil, false, err
	}

	cacheKey := r.Keyer.ResultKey(in.Hash(), opts.ResultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached halftone.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return cached, nil, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	prep, err := Prepare(ctx, in, opts)
	if err != nil {
		return halftone.Result{}, nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, string(opts.Params.Pattern), prep.Frame.Width, prep.Frame.Height)
	start := time.Now()
	res := halftone.Compute(prep.Frame, opts.Params, prep.Surface, prep.Assets)
	hooks.OnComputeComplete(ctx, string(opts.Params.Pattern), len(res.Dots), time.Since(start), nil)

	// Cache the result
	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}

	return res, &prep.Assets, false, nil
}

// Compute is a convenience wrapper that calls ComputeWithCacheInfo and
// discards the cache hit info and assets.
func (r *Runner) Compute(ctx context.Context, in Input, opts Options) (halftone.Result, error) {
	res, _, _, err := r.ComputeWithCacheInfo(ctx, in, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. assets may be nil; tile assets are then decoded from in only if some
// format actually needs to be rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res halftone.Result, assets *shape.Set, in Input, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	resultData, err := json.Marshal(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(resultData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	if assets == nil {
		set, err := LoadAssets(in)
		if err != nil {
			return nil, false, err
		}
		assets = &set
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(res, *assets, in.TileNames(), opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// CachedArtifact looks up a previously rendered artifact by result hash.
func (r *Runner) CachedArtifact(ctx context.Context, resultHash, format string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	return r.Cache.Get(ctx, r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format)))
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
