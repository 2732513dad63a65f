package geometry

import (
	"math"

	"github.com/matzehuels/spiralstair/pkg/stair"
)

// RecipeKind classifies a recipe.
type RecipeKind string

const (
	KindPole       RecipeKind = "pole"
	KindTread      RecipeKind = "tread"
	KindMidLanding RecipeKind = "mid_landing"
	KindTopLanding RecipeKind = "top_landing"
)

// Point is a position in the XY plane, in inches.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is a rigid motion: a rotation about the Z axis followed by a
// translation.
type Transform struct {
	Rotation float64 `json:"rotation"` // radians about the Z axis, same sign convention as step angles
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	DZ       float64 `json:"dz"`
}

// Apply moves p by the transform.
func (t Transform) Apply(p Point) Point {
	sin, cos := math.Sincos(t.Rotation)
	return Point{
		X: p.X*cos - p.Y*sin + t.DX,
		Y: p.X*sin + p.Y*cos + t.DY,
	}
}

// Recipe describes one solid. The sector is built in a local frame starting
// at angle zero and sweeping Sweep radians; Placement rotates it to its start
// angle and lifts it to its bottom elevation.
type Recipe struct {
	Kind        RecipeKind `json:"kind"`
	Index       int        `json:"index"` // step index; -1 for the pole
	InnerRadius float64    `json:"inner_radius"`
	OuterRadius float64    `json:"outer_radius"`
	Sweep       float64    `json:"sweep"` // signed radians
	Thickness   float64    `json:"thickness"`
	Placement   Transform  `json:"placement"`
}

// StartAngle returns the absolute start angle of the placed sector.
func (r Recipe) StartAngle() float64 { return r.Placement.Rotation }

// EndAngle returns the absolute end angle of the placed sector.
func (r Recipe) EndAngle() float64 { return r.Placement.Rotation + r.Sweep }

// Generate maps a plan to recipes: the center pole, then every step in
// climb order. The pole runs from the floor to the overall height.
func Generate(plan stair.Plan) []Recipe {
	params := plan.Parameters
	inner := params.CenterPoleDia / 2
	outer := params.OutsideDia / 2

	out := make([]Recipe, 0, len(plan.Steps)+1)
	out = append(out, Recipe{
		Kind:        KindPole,
		Index:       -1,
		OuterRadius: inner,
		Sweep:       2 * math.Pi,
		Thickness:   params.OverallHeight,
	})
	for _, s := range plan.Steps {
		out = append(out, Recipe{
			Kind:        kindOf(s.Kind),
			Index:       s.Index,
			InnerRadius: inner,
			OuterRadius: outer,
			Sweep:       s.EndAngle - s.StartAngle,
			Thickness:   s.Thickness,
			Placement:   Transform{Rotation: s.StartAngle, DZ: s.BottomZ},
		})
	}
	return out
}

func kindOf(k stair.StepKind) RecipeKind {
	switch k {
	case stair.KindMidLanding:
		return KindMidLanding
	case stair.KindTopLanding:
		return KindTopLanding
	}
	return KindTread
}

// SectorPoints tessellates the sector between two radii and two angles into
// a closed polygon (the closing edge is implicit). segments is the number of
// chords per quarter turn. A zero inner radius yields a wedge, or a disc
// when the sweep is a full turn.
func SectorPoints(inner, outer, start, end float64, segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	sweep := end - start
	n := int(math.Ceil(float64(segments) * math.Abs(sweep) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	full := math.Abs(math.Abs(sweep)-2*math.Pi) < 1e-9

	arc := func(r float64, from, to float64) []Point {
		pts := make([]Point, 0, n+1)
		last := n
		if full {
			last = n - 1
		}
		for i := 0; i <= last; i++ {
			a := from + (to-from)*float64(i)/float64(n)
			pts = append(pts, Point{X: r * math.Cos(a), Y: r * math.Sin(a)})
		}
		return pts
	}

	pts := arc(outer, start, end)
	switch {
	case inner > 0 && !full:
		pts = append(pts, arc(inner, end, start)...)
	case inner == 0 && !full:
		pts = append(pts, Point{})
	}
	return pts
}
