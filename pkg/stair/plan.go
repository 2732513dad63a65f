package stair

import "math"

// StepKind classifies an entry of the layout plan.
type StepKind string

const (
	KindTread      StepKind = "tread"
	KindMidLanding StepKind = "mid_landing"
	KindTopLanding StepKind = "top_landing"
)

// Label returns a human-readable name for the kind.
func (k StepKind) Label() string {
	switch k {
	case KindTread:
		return "Tread"
	case KindMidLanding:
		return "Mid-landing"
	case KindTopLanding:
		return "Top landing"
	}
	return string(k)
}

// Step describes one position in the climb.
type Step struct {
	Kind  StepKind `json:"kind" bson:"kind"`
	Index int      `json:"index" bson:"index"` // 0-based position in the climb

	BottomZ   float64 `json:"bottom_z" bson:"bottom_z"`   // elevation of the lower face
	TopZ      float64 `json:"top_z" bson:"top_z"`         // elevation of the walking surface
	Thickness float64 `json:"thickness" bson:"thickness"` // TopZ - BottomZ

	StartAngle float64 `json:"start_angle" bson:"start_angle"` // radians, signed by direction
	EndAngle   float64 `json:"end_angle" bson:"end_angle"`     // radians, signed by direction
}

// Sweep returns the unsigned angular extent of the step in radians.
func (s Step) Sweep() float64 { return math.Abs(s.EndAngle - s.StartAngle) }

// SweepDeg returns the unsigned angular extent of the step in degrees.
func (s Step) SweepDeg() float64 { return s.Sweep() * 180 / math.Pi }

// Parameters is the scalar summary of a layout.
//
// Without a mid-landing, TreadAngle × NumTreads = RotationDeg. With one,
// the landing occupies a step of its own (TotalSteps = NumTreads+2) and
// sweeps MidLandingSweepDeg, so TreadAngle × NumTreads + MidLandingSweepDeg
// = RotationDeg. Every tread before and after the mid-landing uses that
// reduced pitch (RotationDeg − MidLandingSweepDeg) / NumTreads.
//
// RiserHeight × (TotalSteps−1) + TopRiser = OverallHeight. Under the
// forward strategy TopRiser equals RiserHeight; under top clearance it is
// the landing thickness plus head clearance.
type Parameters struct {
	CenterPoleDia float64   `json:"center_pole_dia" bson:"center_pole_dia"`
	OverallHeight float64   `json:"overall_height" bson:"overall_height"`
	OutsideDia    float64   `json:"outside_dia" bson:"outside_dia"`
	RotationDeg   float64   `json:"rotation_deg" bson:"rotation_deg"`
	Direction     Direction `json:"direction" bson:"direction"`

	RiserHeight float64 `json:"riser_height" bson:"riser_height"`
	TreadAngle  float64 `json:"tread_angle" bson:"tread_angle"` // degrees per tread
	NumTreads   int     `json:"num_treads" bson:"num_treads"`
	TotalSteps  int     `json:"total_steps" bson:"total_steps"`
	// TopRiser is the rise from the last step to the top landing.
	TopRiser float64 `json:"top_riser,omitempty" bson:"top_riser,omitempty"`

	HasMidLanding      bool    `json:"has_mid_landing" bson:"has_mid_landing"`
	MidLandingIndex    int     `json:"mid_landing_index,omitempty" bson:"mid_landing_index,omitempty"`
	MidLandingSweepDeg float64 `json:"mid_landing_sweep_deg,omitempty" bson:"mid_landing_sweep_deg,omitempty"`
	MidLandingSkipped  bool    `json:"mid_landing_skipped,omitempty" bson:"mid_landing_skipped,omitempty"`
}

// Plan is the output of the layout engine. Each engine run allocates a
// fresh Steps slice owned by the plan.
type Plan struct {
	Parameters Parameters `json:"parameters" bson:"parameters"`
	Steps      []Step     `json:"steps" bson:"steps"`
	Strategy   string     `json:"strategy" bson:"strategy"`
	Profile    string     `json:"profile" bson:"profile"`
}

// TreadCount returns the number of tread steps.
func (p Plan) TreadCount() int { return p.count(KindTread) }

func (p Plan) count(kind StepKind) int {
	n := 0
	for _, s := range p.Steps {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// TreadsBefore returns the number of treads below the mid-landing, or all
// treads when there is none.
func (p Plan) TreadsBefore() int {
	if !p.Parameters.HasMidLanding {
		return p.TreadCount()
	}
	return p.Parameters.MidLandingIndex
}

// TreadsAfter returns the number of treads above the mid-landing.
func (p Plan) TreadsAfter() int {
	if !p.Parameters.HasMidLanding {
		return 0
	}
	return p.TreadCount() - p.Parameters.MidLandingIndex
}

// ClimbSweepDeg returns the unsigned sweep of the treads and mid-landing in
// degrees. The top landing is excluded: it extends beyond the rotation.
func (p Plan) ClimbSweepDeg() float64 {
	total := 0.0
	for _, s := range p.Steps {
		if s.Kind != KindTopLanding {
			total += s.SweepDeg()
		}
	}
	return total
}

// Top returns the top landing step. The engine always emits one.
func (p Plan) Top() (Step, bool) {
	if len(p.Steps) == 0 || p.Steps[len(p.Steps)-1].Kind != KindTopLanding {
		return Step{}, false
	}
	return p.Steps[len(p.Steps)-1], true
}
