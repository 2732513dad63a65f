// Package sequence renders the climb of a stair plan as a Graphviz diagram.
//
// Each step becomes a node, in climb order from the finished floor to the
// top landing. Landings are drawn as filled boxes so the break in the run is
// visible at a glance. The DOT text from [ToDOT] can be rendered with
// [RenderSVG], [RenderPDF] or [RenderPNG], which use the embedded Graphviz
// from go-graphviz and need no system install for SVG.
package sequence
