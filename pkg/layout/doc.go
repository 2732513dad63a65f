// Package layout derives the step sequence of a spiral stair.
//
// [Compute] turns a validated input and a code profile into a [stair.Plan]:
// riser height, tread count, angular pitch per tread, the optional
// mid-landing position and one [stair.Step] per position in the climb,
// ending with the top landing.
//
// # Riser strategies
//
// Two policies are available for the vertical distribution:
//
//   - [StrategyForward] picks the smallest step count whose riser does not
//     exceed the profile maximum and divides the overall height evenly.
//   - [StrategyTopClearance] fixes the last tread's walking surface a head
//     clearance below the top landing's lower face and solves the riser of
//     the lower run backward from that point. The top landing absorbs the
//     remainder.
//
// # Mid-landing
//
// A mid-landing is inserted when the overall height exceeds the profile's
// threshold (unless the input skips it) or when the input names a position.
// The landing replaces one tread: the step count stays the same and the
// tread pitch is reduced so that the treads plus the landing's fixed sweep
// still add up to the requested rotation. A manual position outside
// 1..treads-1 fails with INVALID_MID_LANDING; it is never moved silently.
//
// Compute is pure and safe to call concurrently.
package layout
