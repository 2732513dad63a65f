package stair

import (
	"github.com/matzehuels/spiralstair/pkg/errors"
)

// MaxRotationDeg is the largest total sweep the engine accepts (ten turns).
const MaxRotationDeg = 3600.0

// Input holds the raw dimensions supplied by the user for one cycle.
type Input struct {
	CenterPoleDia float64   `json:"center_pole_dia" toml:"center_pole_dia" yaml:"center_pole_dia" bson:"center_pole_dia" jsonschema:"description=Center pole diameter in inches"`
	OverallHeight float64   `json:"overall_height" toml:"overall_height" yaml:"overall_height" bson:"overall_height" jsonschema:"description=Finished floor to top landing surface in inches"`
	OutsideDia    float64   `json:"outside_dia" toml:"outside_dia" yaml:"outside_dia" bson:"outside_dia" jsonschema:"description=Outside diameter of the treads in inches"`
	RotationDeg   float64   `json:"rotation_deg" toml:"rotation_deg" yaml:"rotation_deg" bson:"rotation_deg" jsonschema:"description=Total sweep of the climb in degrees,exclusiveMinimum=0,maximum=3600"`
	Direction     Direction `json:"direction" toml:"direction" yaml:"direction" bson:"direction" jsonschema:"enum=clockwise,enum=counterclockwise"`

	// MidLandingAfterTread places the mid-landing manually. Nil selects the
	// default position when a landing is required.
	MidLandingAfterTread *int `json:"mid_landing_after_tread,omitempty" toml:"mid_landing_after_tread,omitempty" yaml:"mid_landing_after_tread,omitempty" bson:"mid_landing_after_tread,omitempty"`

	// SkipMidLanding builds without a mid-landing even when the height
	// calls for one (code exceptions such as attic or crawl-space access).
	SkipMidLanding bool `json:"skip_mid_landing,omitempty" toml:"skip_mid_landing,omitempty" yaml:"skip_mid_landing,omitempty" bson:"skip_mid_landing,omitempty"`
}

// ValidatedInput is an Input that passed [Validate]. Its fields are only
// reachable through accessors, so it cannot be constructed or edited
// elsewhere.
type ValidatedInput struct {
	in Input
}

func (v ValidatedInput) CenterPoleDia() float64 { return v.in.CenterPoleDia }
func (v ValidatedInput) OverallHeight() float64 { return v.in.OverallHeight }
func (v ValidatedInput) OutsideDia() float64    { return v.in.OutsideDia }
func (v ValidatedInput) RotationDeg() float64   { return v.in.RotationDeg }
func (v ValidatedInput) Direction() Direction   { return v.in.Direction }
func (v ValidatedInput) SkipMidLanding() bool   { return v.in.SkipMidLanding }

// MidLandingAfterTread returns the manual mid-landing index, if any.
func (v ValidatedInput) MidLandingAfterTread() (int, bool) {
	if v.in.MidLandingAfterTread == nil {
		return 0, false
	}
	return *v.in.MidLandingAfterTread, true
}

// Input returns a copy of the underlying raw input, suitable for storing
// as the next cycle's pre-fill.
func (v ValidatedInput) Input() Input {
	out := v.in
	if v.in.MidLandingAfterTread != nil {
		idx := *v.in.MidLandingAfterTread
		out.MidLandingAfterTread = &idx
	}
	return out
}

// Validate rejects structurally invalid input. It is a pure function.
//
// The upper bound of a manual mid-landing index depends on the tread count
// and is enforced by the layout engine; Validate only rejects indices below
// one and the contradictory combination of a manual index with
// SkipMidLanding.
func Validate(in Input) (ValidatedInput, error) {
	if err := errors.ValidatePositive("center pole diameter", in.CenterPoleDia); err != nil {
		return ValidatedInput{}, err
	}
	if err := errors.ValidatePositive("overall height", in.OverallHeight); err != nil {
		return ValidatedInput{}, err
	}
	if err := errors.ValidatePositive("outside diameter", in.OutsideDia); err != nil {
		return ValidatedInput{}, err
	}
	if err := errors.ValidateGreater("outside diameter", in.OutsideDia, "center pole diameter", in.CenterPoleDia); err != nil {
		return ValidatedInput{}, err
	}
	if err := errors.ValidateRange(errors.ErrCodeInvalidRotation, "rotation", in.RotationDeg, 0, MaxRotationDeg); err != nil {
		return ValidatedInput{}, err
	}
	if !in.Direction.Valid() {
		return ValidatedInput{}, errors.New(errors.ErrCodeInvalidDirection, "direction must be clockwise or counterclockwise")
	}
	if in.MidLandingAfterTread != nil {
		if in.SkipMidLanding {
			return ValidatedInput{}, errors.New(errors.ErrCodeInvalidInput, "a mid-landing position cannot be combined with skipping the mid-landing")
		}
		if *in.MidLandingAfterTread < 1 {
			return ValidatedInput{}, errors.New(errors.ErrCodeInvalidMidLanding, "mid-landing position must be at least 1 (got %d)", *in.MidLandingAfterTread)
		}
	}

	v := ValidatedInput{in: in}
	v.in = v.Input()
	return v, nil
}
