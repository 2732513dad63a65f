package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/observability"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
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

// Evaluate runs the complete validate → layout → check → render chain.
func (r *Runner) Evaluate(ctx context.Context, in stair.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Validate
	v, err := stair.Validate(in)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Input:     v.Input(),
		Profile:   *opts.Profile,
		Artifacts: make(map[string][]byte),
	}
	result.InputHash = InputHash(v)

	// Stage 2: Layout
	layoutStart := time.Now()
	plan, layoutKey, layoutHit, err := r.LayoutWithCacheInfo(ctx, v, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	p := plan.Parameters
	opts.Logger.Info("computed layout",
		"risers", p.TotalSteps,
		"riser", round2(p.RiserHeight),
		"treads", p.NumTreads,
		"pitch", round2(p.TreadAngle),
		"mid_landing", p.HasMidLanding,
		"cached", layoutHit)

	// Stage 3: Check
	checkStart := time.Now()
	result.Violations = r.Check(ctx, plan, *opts.Profile)
	result.Stats.CheckTime = time.Since(checkStart)
	if len(result.Violations) > 0 {
		opts.Logger.Warn("compliance violations", "profile", opts.ProfileName, "count", len(result.Violations))
	} else {
		opts.Logger.Debug("compliant", "profile", opts.ProfileName)
	}

	// Stage 4: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, plan, result.Violations, layoutKey, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the plan with caching. It returns the plan,
// the cache key it is stored under, and whether it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, v stair.ValidatedInput, opts Options) (stair.Plan, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return stair.Plan{}, "", false, err
	}
	key := r.Keyer.LayoutKey(InputHash(v), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var plan stair.Plan
			if err := json.Unmarshal(data, &plan); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return plan, key, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	plan, err := ComputeLayout(ctx, v, *opts.Profile, opts.Layout)
	if err != nil {
		return stair.Plan{}, "", false, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return plan, key, false, nil
}

// ComputeLayout runs the engine and reports it to the pipeline hooks.
func ComputeLayout(ctx context.Context, v stair.ValidatedInput, p profile.Profile, o layout.Options) (stair.Plan, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(o.Strategy))
	start := time.Now()
	plan, err := layout.Compute(v, p, o)
	hooks.OnLayoutComplete(ctx, string(o.Strategy), len(plan.Steps), time.Since(start), err)
	return plan, err
}

// Check runs the compliance rules and reports the count to the hooks.
func (r *Runner) Check(ctx context.Context, plan stair.Plan, p profile.Profile) []compliance.Violation {
	start := time.Now()
	vs := compliance.Check(plan.Parameters, p)
	observability.Pipeline().OnCheckComplete(ctx, p.Name, len(vs), time.Since(start))
	return vs
}

// Layout is a convenience wrapper that discards the cache info.
func (r *Runner) Layout(ctx context.Context, v stair.ValidatedInput, opts Options) (stair.Plan, error) {
	plan, _, _, err := r.LayoutWithCacheInfo(ctx, v, opts)
	return plan, err
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

// InputHash returns the content hash of a validated input.
func InputHash(v stair.ValidatedInput) string {
	// Validated inputs hold only finite numbers, so Marshal cannot fail.
	data, _ := json.Marshal(v.Input())
	return cache.Hash(data)
}

func profileHash(p *profile.Profile) string {
	if p == nil {
		return ""
	}
	data, _ := json.Marshal(p)
	return cache.Hash(data)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
