package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/observability"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/render/sequence"
	"github.com/matzehuels/spiralstair/pkg/render/sink"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// RenderWithCacheInfo generates artifacts with caching and returns whether
// every one came from the cache. layoutKey is the key the plan is cached
// under; artifacts are addressed relative to it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, plan stair.Plan, vs []compliance.Violation, layoutKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	base := cache.Hash([]byte(layoutKey))

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		allHit    = true
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
			data, hit := r.cachedArtifact(gctx, key, opts.Refresh)
			if !hit {
				var err error
				data, err = RenderFormat(gctx, format, plan, vs, *opts.Profile, opts)
				if err != nil {
					return err
				}
				if err := r.Cache.Set(gctx, key, data, cache.TTLArtifact); err == nil {
					observability.Cache().OnCacheSet(gctx, "artifact", len(data))
				}
			}

			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			allHit = allHit && hit
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

func (r *Runner) cachedArtifact(ctx context.Context, key string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return data, true
}

// Render generates every requested format without caching. Formats are
// rendered concurrently.
func Render(ctx context.Context, plan stair.Plan, vs []compliance.Violation, p profile.Profile, opts Options) (map[string][]byte, error) {
	opts.Profile = &p
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(gctx, format, plan, vs, p, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, format string, plan stair.Plan, vs []compliance.Violation, p profile.Profile, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = sink.RenderJSON(plan, sink.WithJSONViolations(vs), sink.WithJSONCodeRef(p.CodeRef))
	case FormatDOT:
		data = []byte(sequence.ToDOT(plan, sequence.Options{Detailed: opts.Labels}))
	case FormatSVG, FormatPNG, FormatPDF:
		if opts.View == ViewSequence {
			data, err = renderSequence(ctx, format, plan, opts)
		} else {
			data, err = renderDrawing(ctx, format, plan, vs, p, opts)
		}
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return data, nil
}

func renderDrawing(ctx context.Context, format string, plan stair.Plan, vs []compliance.Violation, p profile.Profile, opts Options) ([]byte, error) {
	svgOpts := buildSVGOptions(plan, vs, p, opts)
	switch format {
	case FormatPNG:
		return sink.RenderPNG(ctx, plan, sink.WithPNGSVGOptions(svgOpts...), sink.WithPNGScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, plan, sink.WithPDFSVGOptions(svgOpts...))
	}
	return sink.RenderSVG(plan, svgOpts...), nil
}

func renderSequence(ctx context.Context, format string, plan stair.Plan, opts Options) ([]byte, error) {
	dot := sequence.ToDOT(plan, sequence.Options{Detailed: opts.Labels})
	switch format {
	case FormatPNG:
		return sequence.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return sequence.RenderPDF(ctx, dot)
	}
	return sequence.RenderSVG(ctx, dot)
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(plan stair.Plan, vs []compliance.Violation, p profile.Profile, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithView(sink.View(opts.View)),
		sink.WithWalkline(compliance.WalklineRadius(plan.Parameters, p)),
		sink.WithViolations(vs),
		sink.WithTitle(title(plan, p)),
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	return svgOpts
}

func title(plan stair.Plan, p profile.Profile) string {
	t := string(plan.Parameters.Direction) + " spiral stair, " + p.Name
	if p.CodeRef != "" {
		t += " (" + p.CodeRef + ")"
	}
	return t
}
