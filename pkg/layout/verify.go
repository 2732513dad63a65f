package layout

import (
	"math"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// verify checks the plan's conservation rules within the configured
// tolerance. A failure here means the arithmetic drifted and is reported as
// a calculation failure rather than returned as a plan.
func verify(plan stair.Plan, v vertical, o Options) error {
	p := plan.Parameters
	tol := o.Tolerance

	if p.NumTreads < 1 {
		return errors.New(errors.ErrCodeCalculation, "layout has %d treads", p.NumTreads)
	}
	wantSteps := p.NumTreads + 1
	if p.HasMidLanding {
		wantSteps++
	}
	if p.TotalSteps != wantSteps || len(plan.Steps) != wantSteps {
		return errors.New(errors.ErrCodeCalculation,
			"layout has %d steps for %d treads (want %d)", len(plan.Steps), p.NumTreads, wantSteps)
	}

	// Vertical budget. The forward strategy spreads the height evenly; the
	// top-clearance strategy hands the remainder to the top landing.
	rise := p.RiserHeight * float64(p.TotalSteps)
	if o.Strategy == StrategyTopClearance {
		rise = p.RiserHeight*float64(p.TotalSteps-1) + o.LandingThickness + o.HeadClearance
	}
	if math.Abs(rise-p.OverallHeight) > tol {
		return errors.New(errors.ErrCodeCalculation,
			"risers sum to %.6f, overall height is %.6f", rise, p.OverallHeight)
	}

	// Angular budget: treads plus the mid-landing cover the rotation.
	sweep := p.TreadAngle * float64(p.NumTreads)
	if p.HasMidLanding {
		sweep += p.MidLandingSweepDeg
	}
	if math.Abs(sweep-p.RotationDeg) > tol {
		return errors.New(errors.ErrCodeCalculation,
			"treads sweep %.6f°, rotation is %.6f°", sweep, p.RotationDeg)
	}
	if got := plan.ClimbSweepDeg(); math.Abs(got-p.RotationDeg) > tol {
		return errors.New(errors.ErrCodeCalculation,
			"steps sweep %.6f°, rotation is %.6f°", got, p.RotationDeg)
	}

	prevTop := 0.0
	for i, s := range plan.Steps {
		if s.Index != i {
			return errors.New(errors.ErrCodeCalculation, "step %d carries index %d", i, s.Index)
		}
		if !finite(s.BottomZ, s.TopZ, s.StartAngle, s.EndAngle) {
			return errors.New(errors.ErrCodeCalculation, "step %d has non-finite geometry", i)
		}
		if s.TopZ <= prevTop {
			return errors.New(errors.ErrCodeCalculation, "step %d does not rise (%.4f after %.4f)", i, s.TopZ, prevTop)
		}
		prevTop = s.TopZ
	}
	if top, ok := plan.Top(); !ok || math.Abs(top.TopZ-v.topZ) > tol {
		return errors.New(errors.ErrCodeCalculation, "top landing does not finish at the overall height")
	}
	return nil
}
