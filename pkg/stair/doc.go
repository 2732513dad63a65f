// Package stair defines the spiral staircase data model.
//
// The model follows the life of one design cycle:
//
//   - [Input] holds raw, user-supplied dimensions. It is mutable while
//     input is being collected and is what gets persisted for pre-fill.
//   - [Validate] turns an Input into a [ValidatedInput]. A ValidatedInput
//     can only be produced by Validate, so holding one is proof that the
//     structural rules passed: every dimension is positive and finite, the
//     outside diameter exceeds the pole diameter, and the rotation lies in
//     (0, 3600] degrees.
//   - The layout engine (package layout) derives a [Plan]: the scalar
//     [Parameters] plus an ordered, freshly allocated sequence of [Step]
//     descriptors.
//
// All dimensions are inches. Input angles are degrees; step angles are
// radians, signed by direction (clockwise positive).
//
// Nothing in this package performs I/O or holds shared state, so values
// can be used from any number of goroutines.
package stair
