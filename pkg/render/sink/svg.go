package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/geometry"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// View selects the projection drawn by [RenderSVG].
type View string

const (
	ViewPlan      View = "plan"      // looking down the pole
	ViewElevation View = "elevation" // the walkline unrolled onto a flat wall
)

// Views lists the supported views.
var Views = []View{ViewPlan, ViewElevation}

// ParseView accepts a view name. The empty string selects [ViewPlan].
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewPlan:
		return ViewPlan, nil
	case ViewElevation:
		return ViewElevation, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown view %q (want plan or elevation)", s)
}

const (
	DefaultScale = 6.0 // pixels per inch
	margin       = 24.0
	titleBand    = 28.0
	lineHeight   = 18.0
)

const svgCSS = `
    .tread { fill: #f4efe6; stroke: #5a4632; stroke-width: 1; }
    .mid_landing { fill: #d8e8f5; stroke: #2c5d87; stroke-width: 1.5; }
    .top_landing { fill: #e3f1d8; stroke: #3d6b2a; stroke-width: 1.5; }
    .pole { fill: #6b6b6b; stroke: #333; stroke-width: 1; }
    .outline { fill: none; stroke: #999; stroke-dasharray: 4 4; }
    .walkline { fill: none; stroke: #c0392b; stroke-width: 1; stroke-dasharray: 6 4; }
    .label { font: 10px sans-serif; fill: #333; text-anchor: middle; dominant-baseline: middle; }
    .title { font: bold 14px sans-serif; fill: #222; }
    .violation { font: 12px sans-serif; fill: #c0392b; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	view       View
	scale      float64
	segments   int
	walkline   float64
	title      string
	labels     bool
	violations []compliance.Violation
}

func WithView(v View) SVGOption { return func(r *svgRenderer) { r.view = v } }

// WithScale sets pixels per inch.
func WithScale(pxPerInch float64) SVGOption { return func(r *svgRenderer) { r.scale = pxPerInch } }

// WithSegments sets the arc tessellation, in chords per quarter turn.
func WithSegments(n int) SVGOption { return func(r *svgRenderer) { r.segments = n } }

// WithWalkline draws the walkline at the given radius in the plan view and
// unrolls the elevation along it. Without it, the elevation uses the
// midpoint between the pole and the outside edge.
func WithWalkline(radius float64) SVGOption { return func(r *svgRenderer) { r.walkline = radius } }

func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }
func WithLabels() SVGOption        { return func(r *svgRenderer) { r.labels = true } }

// WithViolations lists compliance violations under the drawing.
func WithViolations(vs []compliance.Violation) SVGOption {
	return func(r *svgRenderer) { r.violations = vs }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{view: ViewPlan, scale: DefaultScale, segments: geometry.DefaultSegments}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	if r.segments < 1 {
		r.segments = geometry.DefaultSegments
	}
	return r
}

// RenderSVG draws the plan. The output is deterministic for a given plan
// and option set.
func RenderSVG(plan stair.Plan, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var body bytes.Buffer
	var w, h float64
	if r.view == ViewElevation {
		w, h = r.elevation(&body, plan)
	} else {
		w, h = r.plan(&body, plan)
	}

	top := margin
	if r.title != "" {
		top += titleBand
	}
	width := w + 2*margin
	height := top + h + margin + float64(len(r.violations))*lineHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgCSS)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f">%s</text>`+"\n", margin, margin+14, html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)">`+"\n", margin, top)
	buf.Write(body.Bytes())
	buf.WriteString("  </g>\n")

	y := top + h + margin
	for _, v := range r.violations {
		fmt.Fprintf(&buf, `  <text class="violation" x="%.1f" y="%.1f">%s</text>`+"\n", margin, y, html.EscapeString(v.String()))
		y += lineHeight
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// plan draws the view from above. SVG's y axis points down, so positive
// (clockwise) angles render clockwise on screen.
func (r svgRenderer) plan(buf *bytes.Buffer, plan stair.Plan) (w, h float64) {
	params := plan.Parameters
	outer := params.OutsideDia / 2
	inner := params.CenterPoleDia / 2
	size := params.OutsideDia * r.scale
	c := size / 2

	fmt.Fprintf(buf, `    <circle class="outline" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", c, c, outer*r.scale)
	for _, s := range plan.Steps {
		pts := geometry.SectorPoints(inner, outer, s.StartAngle, s.EndAngle, r.segments)
		fmt.Fprintf(buf, `    <path id="step-%d" class="%s" d="%s"/>`+"\n", s.Index, s.Kind, r.path(pts, c))
	}
	for _, s := range plan.Steps {
		if !r.labels {
			break
		}
		mid := (s.StartAngle + s.EndAngle) / 2
		rad := (inner + outer) / 2
		x := c + rad*math.Cos(mid)*r.scale
		y := c + rad*math.Sin(mid)*r.scale
		fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f">%s</text>`+"\n", x, y, stepLabel(s))
	}
	if r.walkline > 0 {
		fmt.Fprintf(buf, `    <circle class="walkline" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", c, c, r.walkline*r.scale)
	}
	fmt.Fprintf(buf, `    <circle class="pole" cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", c, c, inner*r.scale)
	return size, size
}

func (r svgRenderer) path(pts []geometry.Point, c float64) string {
	var sb strings.Builder
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.2f %.2f ", cmd, c+p.X*r.scale, c+p.Y*r.scale)
	}
	sb.WriteString("Z")
	return sb.String()
}

// elevation unrolls the climb: x is arc length along the walkline, y is
// height above the finished floor.
func (r svgRenderer) elevation(buf *bytes.Buffer, plan stair.Plan) (w, h float64) {
	params := plan.Parameters
	radius := r.walkline
	if radius <= 0 {
		radius = (params.CenterPoleDia/2 + params.OutsideDia/2) / 2
	}

	total := 0.0
	for _, s := range plan.Steps {
		total += s.Sweep() * radius
	}
	w = total * r.scale
	h = params.OverallHeight * r.scale

	fmt.Fprintf(buf, `    <line class="outline" x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", h, w, h)

	x := 0.0
	var nosing strings.Builder
	for i, s := range plan.Steps {
		dx := s.Sweep() * radius * r.scale
		top := h - s.TopZ*r.scale
		fmt.Fprintf(buf, `    <rect id="step-%d" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			s.Index, s.Kind, x, top, dx, s.Thickness*r.scale)
		if r.labels {
			fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f">%s</text>`+"\n", x+dx/2, top-8, stepLabel(s))
		}
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&nosing, "%s%.2f %.2f ", cmd, x, top)
		x += dx
	}
	if nosing.Len() > 0 {
		fmt.Fprintf(buf, `    <path class="walkline" d="%s"/>`+"\n", strings.TrimSpace(nosing.String()))
	}
	return w, h
}

func stepLabel(s stair.Step) string {
	switch s.Kind {
	case stair.KindMidLanding:
		return "ML"
	case stair.KindTopLanding:
		return "TOP"
	}
	return fmt.Sprintf("%d", s.Index+1)
}
