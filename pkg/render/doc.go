// Package render turns a computed stair plan into documents.
//
// # Overview
//
// The engine's output is a [stair.Plan]: scalar parameters plus one entry per
// step. This package and its subpackages draw that plan:
//
//   - [sink]: plan view and unrolled elevation as SVG, with PNG, PDF and
//     JSON wrappers
//   - [sequence]: the climb as a Graphviz DOT diagram, one node per step
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(plan, sink.WithView(sink.ViewPlan))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [stair.Plan]: github.com/matzehuels/spiralstair/pkg/stair.Plan
// [sink]: github.com/matzehuels/spiralstair/pkg/render/sink
// [sequence]: github.com/matzehuels/spiralstair/pkg/render/sequence
package render
