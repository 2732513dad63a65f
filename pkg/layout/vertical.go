package layout

import (
	"math"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

// vertical is the outcome of a riser strategy: the riser of the regular
// run, the number of steps including the top landing, and the walking
// surface of the top landing.
type vertical struct {
	riser      float64
	totalSteps int
	topZ       float64
}

// riserSolver distributes height h among steps so that no regular riser
// exceeds maxRiser.
type riserSolver func(h, maxRiser float64, o Options) (vertical, error)

var solvers = map[Strategy]riserSolver{
	StrategyForward:      solveForward,
	StrategyTopClearance: solveTopClearance,
}

// MaxSteps bounds the number of risers a single stair may need.
const MaxSteps = 1000

// minSteps returns the smallest n with span/n <= maxRiser. The epsilon keeps
// exact multiples (95 / 9.5) from being bumped by rounding noise.
func minSteps(span, maxRiser float64) (int, error) {
	n := span/maxRiser - 1e-9
	if !(n <= MaxSteps) {
		return 0, errors.New(errors.ErrCodeCalculation,
			"height %.2f needs more than %d risers of at most %.2f", span, MaxSteps, maxRiser)
	}
	return int(math.Ceil(n)), nil
}

func solveForward(h, maxRiser float64, _ Options) (vertical, error) {
	total, err := minSteps(h, maxRiser)
	if err != nil {
		return vertical{}, err
	}
	if total < 2 {
		return vertical{}, errors.New(errors.ErrCodeCalculation,
			"overall height %.2f fits in a single riser of at most %.2f; no treads are possible", h, maxRiser)
	}
	return vertical{riser: h / float64(total), totalSteps: total, topZ: h}, nil
}

func solveTopClearance(h, maxRiser float64, o Options) (vertical, error) {
	lastTread := h - o.LandingThickness - o.HeadClearance
	if lastTread <= 0 {
		return vertical{}, errors.New(errors.ErrCodeCalculation,
			"overall height %.2f leaves no room below the top landing clearance of %.2f", h, o.LandingThickness+o.HeadClearance)
	}
	treads, err := minSteps(lastTread, maxRiser)
	if err != nil {
		return vertical{}, err
	}
	if treads < 1 {
		treads = 1
	}
	return vertical{riser: lastTread / float64(treads), totalSteps: treads + 1, topZ: h}, nil
}
