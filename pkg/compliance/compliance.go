// Package compliance checks a derived stair layout against the limits of a
// code profile.
//
// [Check] evaluates every rule in one pass and returns the violations it
// finds. Each violation carries the measured value, the limit and a
// suggested fix obtained by solving the rule for the one input dimension
// that most directly relieves it, with every other quantity held fixed.
// Suggested values are rounded away from the violation: lengths to the
// nearest quarter inch, angles to whole degrees.
//
// Violations are values, not errors. An empty result means the layout
// complies.
package compliance

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Rule identifies a compliance rule.
type Rule string

const (
	RuleClearWidth     Rule = "clear_width"
	RuleWalklineRadius Rule = "walkline_radius"
	RuleWalklineDepth  Rule = "walkline_depth"
	RuleRiserHeight    Rule = "riser_height"
	RuleHeadroom       Rule = "headroom"
	RuleMidLanding     Rule = "mid_landing"
)

// Rules lists every rule in evaluation order.
var Rules = []Rule{RuleClearWidth, RuleWalklineRadius, RuleWalklineDepth, RuleRiserHeight, RuleHeadroom, RuleMidLanding}

// Title returns a short human-readable name for the rule.
func (r Rule) Title() string {
	switch r {
	case RuleClearWidth:
		return "Clear width"
	case RuleWalklineRadius:
		return "Walkline radius"
	case RuleWalklineDepth:
		return "Walkline tread depth"
	case RuleRiserHeight:
		return "Riser height"
	case RuleHeadroom:
		return "Headroom"
	case RuleMidLanding:
		return "Mid-landing"
	}
	return string(r)
}

// Suggestion is the machine-readable form of a suggested fix: set Field of
// the input to Value.
type Suggestion struct {
	Field string  `json:"field" bson:"field"`
	Value float64 `json:"value" bson:"value"`
}

// Violation is one failed rule.
type Violation struct {
	Rule         Rule        `json:"rule" bson:"rule"`
	Message      string      `json:"message" bson:"message"`
	SuggestedFix string      `json:"suggested_fix" bson:"suggested_fix"`
	Measured     float64     `json:"measured" bson:"measured"`
	Limit        float64     `json:"limit" bson:"limit"`
	Suggested    *Suggestion `json:"suggested,omitempty" bson:"suggested,omitempty"`
	CodeRef      string      `json:"code_ref,omitempty" bson:"code_ref,omitempty"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %s", v.Rule, v.Message, v.SuggestedFix)
}

// Input field names used in suggestions.
const (
	FieldOutsideDia     = "outside_dia"
	FieldCenterPoleDia  = "center_pole_dia"
	FieldRotationDeg    = "rotation_deg"
	FieldOverallHeight  = "overall_height"
	FieldNumTreads      = "num_treads"
	FieldMidLandingStep = "mid_landing_after_tread"
)

// slack absorbs floating-point noise at the exact limit.
const slack = 1e-9

type rule func(stair.Parameters, profile.Profile) (Violation, bool)

var rules = []rule{
	checkClearWidth,
	checkWalklineRadius,
	checkWalklineDepth,
	checkRiserHeight,
	checkHeadroom,
	checkMidLanding,
}

// Check evaluates every rule against params. It is pure and never stops at
// the first failure.
func Check(params stair.Parameters, p profile.Profile) []Violation {
	var out []Violation
	for _, r := range rules {
		if v, failed := r(params, p); failed {
			v.CodeRef = p.CodeRef
			out = append(out, v)
		}
	}
	return out
}

// ClearWidth is the passage between the pole and the handrail line.
func ClearWidth(params stair.Parameters, p profile.Profile) float64 {
	return (params.OutsideDia/2 - p.HandrailAllowance) - params.CenterPoleDia/2
}

// WalklineRadius is the distance of the walkline from the stair's axis.
func WalklineRadius(params stair.Parameters, p profile.Profile) float64 {
	return params.CenterPoleDia/2 + p.WalklineOffset
}

// WalklineDepth is the arc length of one tread measured on the walkline.
func WalklineDepth(params stair.Parameters, p profile.Profile) float64 {
	return WalklineRadius(params, p) * params.TreadAngle * math.Pi / 180
}

func checkClearWidth(params stair.Parameters, p profile.Profile) (Violation, bool) {
	w := ClearWidth(params, p)
	if w >= p.MinClearWidth-slack {
		return Violation{}, false
	}
	od := roundUp((p.MinClearWidth+params.CenterPoleDia/2+p.HandrailAllowance)*2, 0.25)
	return Violation{
		Rule:         RuleClearWidth,
		Message:      fmt.Sprintf("Clear width is %.2f in.; the minimum is %.2f in.", w, p.MinClearWidth),
		SuggestedFix: fmt.Sprintf("Increase the outside diameter to %s in.", inches(od)),
		Measured:     w,
		Limit:        p.MinClearWidth,
		Suggested:    &Suggestion{Field: FieldOutsideDia, Value: od},
	}, true
}

func checkWalklineRadius(params stair.Parameters, p profile.Profile) (Violation, bool) {
	r := WalklineRadius(params, p)
	if r <= p.MaxWalklineRadius+slack {
		return Violation{}, false
	}
	pole := roundDown((p.MaxWalklineRadius-p.WalklineOffset)*2, 0.25)
	return Violation{
		Rule:         RuleWalklineRadius,
		Message:      fmt.Sprintf("Walkline radius is %.2f in.; the maximum is %.2f in.", r, p.MaxWalklineRadius),
		SuggestedFix: fmt.Sprintf("Reduce the center pole diameter to %s in.", inches(pole)),
		Measured:     r,
		Limit:        p.MaxWalklineRadius,
		Suggested:    &Suggestion{Field: FieldCenterPoleDia, Value: pole},
	}, true
}

func checkWalklineDepth(params stair.Parameters, p profile.Profile) (Violation, bool) {
	d := WalklineDepth(params, p)
	if d >= p.MinWalklineDepth-slack {
		return Violation{}, false
	}
	pitch := p.MinWalklineDepth / WalklineRadius(params, p) * 180 / math.Pi
	rotation := pitch * float64(params.NumTreads)
	if params.HasMidLanding {
		rotation += params.MidLandingSweepDeg
	}
	rotation = math.Ceil(rotation - slack)
	return Violation{
		Rule:         RuleWalklineDepth,
		Message:      fmt.Sprintf("Tread depth at the walkline is %.2f in.; the minimum is %.2f in.", d, p.MinWalklineDepth),
		SuggestedFix: fmt.Sprintf("Increase the rotation to %.0f° (%.2f° per tread).", rotation, pitch),
		Measured:     d,
		Limit:        p.MinWalklineDepth,
		Suggested:    &Suggestion{Field: FieldRotationDeg, Value: rotation},
	}, true
}

func checkRiserHeight(params stair.Parameters, p profile.Profile) (Violation, bool) {
	if params.TopRiser > params.RiserHeight && params.TopRiser > p.MaxRiser+slack {
		return Violation{
			Rule:         RuleRiserHeight,
			Message:      fmt.Sprintf("Final rise into the top landing is %.2f in.; the maximum is %.2f in.", params.TopRiser, p.MaxRiser),
			SuggestedFix: "Reduce the top landing head clearance or use the forward riser strategy.",
			Measured:     params.TopRiser,
			Limit:        p.MaxRiser,
		}, true
	}
	if params.RiserHeight <= p.MaxRiser+slack {
		return Violation{}, false
	}
	treads := math.Ceil(params.OverallHeight/p.MaxRiser-slack) - 1
	return Violation{
		Rule:         RuleRiserHeight,
		Message:      fmt.Sprintf("Riser height is %.2f in.; the maximum is %.2f in.", params.RiserHeight, p.MaxRiser),
		SuggestedFix: fmt.Sprintf("Add treads (at least %.0f) or lower the overall height.", treads),
		Measured:     params.RiserHeight,
		Limit:        p.MaxRiser,
		Suggested:    &Suggestion{Field: FieldNumTreads, Value: treads},
	}, true
}

func checkHeadroom(params stair.Parameters, p profile.Profile) (Violation, bool) {
	if params.OverallHeight >= p.MinHeadroom-slack {
		return Violation{}, false
	}
	return Violation{
		Rule:         RuleHeadroom,
		Message:      fmt.Sprintf("Headroom is %.2f in.; the minimum is %.2f in.", params.OverallHeight, p.MinHeadroom),
		SuggestedFix: fmt.Sprintf("Increase the overall height to at least %s in.", inches(roundUp(p.MinHeadroom, 0.25))),
		Measured:     params.OverallHeight,
		Limit:        p.MinHeadroom,
		Suggested:    &Suggestion{Field: FieldOverallHeight, Value: roundUp(p.MinHeadroom, 0.25)},
	}, true
}

func checkMidLanding(params stair.Parameters, p profile.Profile) (Violation, bool) {
	if params.HasMidLanding || params.OverallHeight <= p.MidLandingHeight {
		return Violation{}, false
	}
	idx := layout.DefaultMidLanding(params.TotalSteps)
	return Violation{
		Rule:         RuleMidLanding,
		Message:      fmt.Sprintf("Overall height is %.2f in. with no mid-landing; one is required above %.2f in.", params.OverallHeight, p.MidLandingHeight),
		SuggestedFix: fmt.Sprintf("Add a mid-landing after tread %d, or confirm a code exception applies.", idx),
		Measured:     params.OverallHeight,
		Limit:        p.MidLandingHeight,
		Suggested:    &Suggestion{Field: FieldMidLandingStep, Value: float64(idx)},
	}, true
}

func roundUp(v, step float64) float64 {
	return math.Ceil(v/step-slack) * step
}

func roundDown(v, step float64) float64 {
	return math.Floor(v/step+slack) * step
}

// inches formats a length rounded to a quarter inch without trailing zeros.
func inches(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
