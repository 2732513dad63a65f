package layout

import (
	"strings"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

// Strategy selects how the overall height is distributed among steps.
type Strategy string

const (
	StrategyForward      Strategy = "forward"
	StrategyTopClearance Strategy = "top-clearance"
)

// Strategies lists the supported riser strategies.
var Strategies = []Strategy{StrategyForward, StrategyTopClearance}

// ParseStrategy returns the strategy with the given name. An empty name
// selects [StrategyForward].
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyForward:
		return StrategyForward, nil
	case StrategyTopClearance, "top_clearance", "backward":
		return StrategyTopClearance, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown riser strategy %q (use forward or top-clearance)", s)
}

// Default component dimensions in inches.
const (
	DefaultTolerance          = 1e-6
	DefaultTreadThickness     = 0.25
	DefaultLandingThickness   = 0.25
	DefaultHeadClearance      = 8.5
	DefaultTopLandingSweepDeg = 90.0
)

// Options tunes the engine. Zero fields take their defaults.
type Options struct {
	Strategy           Strategy `json:"strategy" toml:"strategy"`
	Tolerance          float64  `json:"tolerance" toml:"tolerance"`
	TreadThickness     float64  `json:"tread_thickness" toml:"tread_thickness"`
	LandingThickness   float64  `json:"landing_thickness" toml:"landing_thickness"`
	HeadClearance      float64  `json:"head_clearance" toml:"head_clearance"`
	TopLandingSweepDeg float64  `json:"top_landing_sweep_deg" toml:"top_landing_sweep_deg"`
}

// DefaultOptions returns the forward strategy with default dimensions.
func DefaultOptions() Options {
	return Options{}.WithDefaults()
}

// WithDefaults fills zero fields with their defaults.
func (o Options) WithDefaults() Options {
	if o.Strategy == "" {
		o.Strategy = StrategyForward
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.TreadThickness <= 0 {
		o.TreadThickness = DefaultTreadThickness
	}
	if o.LandingThickness <= 0 {
		o.LandingThickness = DefaultLandingThickness
	}
	if o.HeadClearance <= 0 {
		o.HeadClearance = DefaultHeadClearance
	}
	if o.TopLandingSweepDeg <= 0 {
		o.TopLandingSweepDeg = DefaultTopLandingSweepDeg
	}
	return o
}

// Validate rejects options the engine cannot work with.
func (o Options) Validate() error {
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.TopLandingSweepDeg >= 360 {
		return errors.New(errors.ErrCodeInvalidConfig, "top landing sweep must be below 360 degrees")
	}
	return nil
}
