// Package pipeline runs the non-interactive stair chain for spiralstair.
//
// This package implements the complete validate → layout → check → render
// chain used by the CLI and the API server. By centralizing this logic,
// every entry point produces the same plan, violations and artifacts for
// the same input.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: Normalize and reject structurally invalid input
//  2. Layout: Compute the step plan (cached by input and options)
//  3. Check: Run the compliance rules of the active profile
//  4. Render: Generate output in the requested formats (cached per format,
//     rendered concurrently)
//
// Compliance violations never stop the pipeline: they are returned in the
// [Result] for the caller to present.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Evaluate(ctx, input, pipeline.Options{
//	    ProfileName: "residential",
//	    Formats:     []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/render/sink"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// =============================================================================
// Formats and Views
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// View constants select what the image formats draw.
const (
	ViewPlan      = string(sink.ViewPlan)
	ViewElevation = string(sink.ViewElevation)
	ViewSequence  = "sequence"
)

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewPlan:      true,
	ViewElevation: true,
	ViewSequence:  true,
}

// DefaultView is drawn when no view is requested.
const DefaultView = ViewPlan

// DefaultPNGScale is the rsvg-convert zoom for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// ProfileName names a builtin profile or a profile file. Ignored when
	// Profile is set.
	ProfileName string `json:"profile,omitempty"`

	// Strategy overrides Layout.Strategy when non-empty.
	Strategy string `json:"strategy,omitempty"`

	// Layout tunes the engine. Zero fields take their defaults.
	Layout layout.Options `json:"layout,omitempty"`

	// Render options. No formats means no render stage.
	Formats []string `json:"formats,omitempty"`
	View    string   `json:"view,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Profile *profile.Profile `json:"-"`
	Logger  *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Input is the normalized input the plan was computed from.
	Input stair.Input

	// InputHash is the content hash of Input.
	InputHash string

	// Profile is the code profile the plan was checked against.
	Profile profile.Profile

	// Plan is the computed layout.
	Plan stair.Plan

	// Violations lists every failed compliance rule, in rule order.
	Violations []compliance.Violation

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Compliant reports whether the plan passed every rule.
func (r *Result) Compliant() bool { return len(r.Violations) == 0 }

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutTime time.Duration
	CheckTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid view: %q (must be one of: plan, elevation, sequence)", view)
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the profile, applies defaults and checks
// every option. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Profile == nil {
		p, err := profile.Resolve(o.ProfileName)
		if err != nil {
			return err
		}
		o.Profile = &p
	} else if err := o.Profile.Validate(); err != nil {
		return err
	}
	o.ProfileName = o.Profile.Name

	if o.Strategy != "" {
		s, err := layout.ParseStrategy(o.Strategy)
		if err != nil {
			return err
		}
		o.Layout.Strategy = s
	}
	o.Layout = o.Layout.WithDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	o.Strategy = string(o.Layout.Strategy)

	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Copy returns a copy of o that is validated afresh on next use, so that
// fields changed on the copy take effect.
func (o Options) Copy() Options {
	o.validated = false
	o.Formats = slices.Clone(o.Formats)
	return o
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Profile:          o.ProfileName,
		ProfileHash:      profileHash(o.Profile),
		Strategy:         string(o.Layout.Strategy),
		Tolerance:        o.Layout.Tolerance,
		TreadThickness:   o.Layout.TreadThickness,
		LandingThickness: o.Layout.LandingThickness,
		HeadClearance:    o.Layout.HeadClearance,
		TopLandingSweep:  o.Layout.TopLandingSweepDeg,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatJSON:
	case FormatDOT:
		k.Labels = o.Labels
	default:
		k.View = o.View
		k.Labels = o.Labels
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
