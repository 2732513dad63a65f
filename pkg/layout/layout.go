package layout

import (
	"math"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Compute derives the layout plan for a validated input under profile p.
//
// Failures are typed: CALCULATION_FAILURE when the input cannot produce a
// buildable stair and INVALID_MID_LANDING when a manual mid-landing position
// is out of range for the derived tread count.
func Compute(in stair.ValidatedInput, p profile.Profile, opts Options) (stair.Plan, error) {
	opts = opts.WithDefaults()
	solve, ok := solvers[opts.Strategy]
	if !ok {
		return stair.Plan{}, errors.New(errors.ErrCodeInvalidConfig, "unknown riser strategy %q", opts.Strategy)
	}
	if !(p.MaxRiser > 0) {
		return stair.Plan{}, errors.New(errors.ErrCodeInvalidProfile, "profile %q has no maximum riser", p.Name)
	}

	h := in.OverallHeight()
	v, err := solve(h, p.MaxRiser, opts)
	if err != nil {
		return stair.Plan{}, err
	}
	baseTreads := v.totalSteps - 1

	params := stair.Parameters{
		CenterPoleDia: in.CenterPoleDia(),
		OverallHeight: h,
		OutsideDia:    in.OutsideDia(),
		RotationDeg:   in.RotationDeg(),
		Direction:     in.Direction(),
		RiserHeight:   v.riser,
		NumTreads:     baseTreads,
		TotalSteps:    v.totalSteps,
		TopRiser:      v.topZ - v.riser*float64(v.totalSteps-1),
		TreadAngle:    in.RotationDeg() / float64(baseTreads),
	}

	mid, hasLanding, err := midLanding(in, p, v.totalSteps)
	if err != nil {
		return stair.Plan{}, err
	}
	params.MidLandingSkipped = in.SkipMidLanding() && h > p.MidLandingHeight
	if hasLanding {
		sweep := p.MidLandingSweepDeg
		params.HasMidLanding = true
		params.MidLandingIndex = mid
		params.MidLandingSweepDeg = sweep
		params.NumTreads = baseTreads - 1
		params.TreadAngle = (in.RotationDeg() - sweep) / float64(params.NumTreads)
		if params.TreadAngle <= 0 {
			return stair.Plan{}, errors.New(errors.ErrCodeCalculation,
				"rotation %.1f° leaves no sweep for treads after the %.0f° mid-landing", in.RotationDeg(), sweep)
		}
	}

	if params.RiserHeight <= 0 || params.TreadAngle <= 0 || !finite(params.RiserHeight, params.TreadAngle) {
		return stair.Plan{}, errors.New(errors.ErrCodeCalculation,
			"derived riser %.4f or tread angle %.4f is not usable", params.RiserHeight, params.TreadAngle)
	}

	plan := stair.Plan{
		Parameters: params,
		Steps:      steps(params, v, opts),
		Strategy:   string(opts.Strategy),
		Profile:    p.Name,
	}
	if err := verify(plan, v, opts); err != nil {
		return stair.Plan{}, err
	}
	return plan, nil
}

// DefaultMidLanding returns the default mid-landing position for a climb of
// totalSteps steps: the midpoint, biased toward the lower half.
func DefaultMidLanding(totalSteps int) int {
	return totalSteps / 2
}

// midLanding decides whether the plan gets a mid-landing and where.
// baseTreads is the tread count without a landing; valid positions are
// 1..baseTreads-1 so that at least one tread precedes the landing.
func midLanding(in stair.ValidatedInput, p profile.Profile, totalSteps int) (int, bool, error) {
	baseTreads := totalSteps - 1
	if idx, ok := in.MidLandingAfterTread(); ok {
		if idx < 1 || idx > baseTreads-1 {
			return 0, false, errors.New(errors.ErrCodeInvalidMidLanding,
				"mid-landing position %d is out of range; this stair allows 1 to %d", idx, baseTreads-1)
		}
		return idx, true, nil
	}
	if in.SkipMidLanding() || in.OverallHeight() <= p.MidLandingHeight {
		return 0, false, nil
	}
	idx := DefaultMidLanding(totalSteps)
	if idx < 1 || idx > baseTreads-1 {
		return 0, false, errors.New(errors.ErrCodeCalculation,
			"a mid-landing is required but %d treads leave no room for one", baseTreads)
	}
	return idx, true, nil
}

// steps emits one descriptor per position in the climb. Step k's walking
// surface sits at (k+1)·riser; the top landing's at the overall height.
func steps(params stair.Parameters, v vertical, o Options) []stair.Step {
	sign := params.Direction.Sign()
	pitch := params.TreadAngle * math.Pi / 180
	out := make([]stair.Step, 0, params.TotalSteps)

	cursor := 0.0
	for k := 0; k < params.TotalSteps-1; k++ {
		kind, thickness, sweep := stair.KindTread, o.TreadThickness, pitch
		if params.HasMidLanding && k == params.MidLandingIndex {
			kind, thickness, sweep = stair.KindMidLanding, o.LandingThickness, params.MidLandingSweepDeg*math.Pi/180
		}
		top := float64(k+1) * params.RiserHeight
		out = append(out, stair.Step{
			Kind:       kind,
			Index:      k,
			BottomZ:    top - thickness,
			TopZ:       top,
			Thickness:  thickness,
			StartAngle: sign * cursor,
			EndAngle:   sign * (cursor + sweep),
		})
		cursor += sweep
	}

	// Close the climb on the requested rotation rather than the running sum.
	cursor = params.RotationDeg * math.Pi / 180
	out = append(out, stair.Step{
		Kind:       stair.KindTopLanding,
		Index:      params.TotalSteps - 1,
		BottomZ:    v.topZ - o.LandingThickness,
		TopZ:       v.topZ,
		Thickness:  o.LandingThickness,
		StartAngle: sign * cursor,
		EndAngle:   sign * (cursor + o.TopLandingSweepDeg*math.Pi/180),
	})
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
