package layout_test

import (
	"fmt"

	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

func ExampleCompute() {
	in, err := stair.Validate(stair.Input{
		CenterPoleDia: 6,
		OverallHeight: 144,
		OutsideDia:    60,
		RotationDeg:   450,
		Direction:     stair.Clockwise,
	})
	if err != nil {
		panic(err)
	}
	plan, err := layout.Compute(in, profile.Default(), layout.Options{})
	if err != nil {
		panic(err)
	}
	p := plan.Parameters
	fmt.Printf("%d steps, %d treads, riser %.2f, pitch %.1f°\n", p.TotalSteps, p.NumTreads, p.RiserHeight, p.TreadAngle)
	// Output:
	// 16 steps, 15 treads, riser 9.00, pitch 30.0°
}
