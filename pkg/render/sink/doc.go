// Package sink provides output format renderers for stair plans.
//
// # Overview
//
// A "sink" transforms a computed [stair.Plan] into a final output format:
//
//   - SVG: plan view or unrolled elevation
//   - JSON: plan data export for external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(plan,
//	    sink.WithView(sink.ViewPlan),
//	    sink.WithWalkline(compliance.WalklineRadius(plan.Parameters, prof)),
//	    sink.WithViolations(violations),
//	    sink.WithLabels(),
//	)
//
// Sectors are tessellated with [geometry.SectorPoints], so the drawing
// matches the solids a geometry kernel would build.
//
// # JSON Output
//
// [RenderJSON] writes the parameters, every step and a summary. With
// [WithJSONViolations] it adds the compliance result, and with
// [WithJSONRecipes] the geometry recipes.
//
// [stair.Plan]: github.com/matzehuels/spiralstair/pkg/stair.Plan
// [geometry.SectorPoints]: github.com/matzehuels/spiralstair/pkg/geometry.SectorPoints
package sink
