// Package geometry turns a layout plan into solid-modeling recipes and
// realizes them through a [Kernel].
//
// A [Recipe] names one solid: a planar sector between two radii and two
// angles, extruded vertically by a thickness and placed by a rigid
// [Transform]. [Generate] emits the center pole first, then one recipe per
// step in climb order.
//
// [Build] hands the recipes to a kernel as one batch. It is all-or-nothing:
// if any recipe fails, every solid produced so far is discarded and nothing
// is committed.
//
// [MeshKernel] is an in-memory kernel that tessellates sectors into
// polygons. It backs the command line tool and the tests; a CAD host plugs
// in its own Kernel.
package geometry
