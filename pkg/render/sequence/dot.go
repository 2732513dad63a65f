package sequence

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/render"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Options configures sequence diagram rendering.
type Options struct {
	// Detailed adds elevation and sweep to each node label.
	// When false, only the step name is shown.
	Detailed bool
}

const floorID = "floor"

// ToDOT converts a plan to Graphviz DOT format.
func ToDOT(plan stair.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=plaintext, style=\"\"];\n", floorID, "Floor (0\")")
	for _, s := range plan.Steps {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(s), strings.Join(fmtAttrs(s, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	prev := floorID
	for _, s := range plan.Steps {
		fmt.Fprintf(&buf, "  %q -> %q;\n", prev, nodeID(s))
		prev = nodeID(s)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(s stair.Step) string {
	return fmt.Sprintf("step%d", s.Index)
}

func fmtLabel(s stair.Step, detailed bool) string {
	name := s.Kind.Label()
	if s.Kind == stair.KindTread {
		name = fmt.Sprintf("Tread %d", s.Index+1)
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\ntop: %.2f\"\nsweep: %.2f°", name, s.TopZ, s.SweepDeg())
}

func fmtAttrs(s stair.Step, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s, detailed))}
	switch s.Kind {
	case stair.KindMidLanding:
		attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
	case stair.KindTopLanding:
		attrs = append(attrs, "fillcolor=palegreen", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel one so the output embeds like the other sinks.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
