package geometry

import (
	"context"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

// Region is a kernel-owned planar boundary.
type Region any

// Solid is a kernel-owned solid.
type Solid any

// Kernel is the solid-modeling backend. Implementations need only these four
// capabilities.
type Kernel interface {
	// SectorBoundary builds a planar region between two radii and two angles
	// (radians) centered on the origin.
	SectorBoundary(inner, outer, start, end float64) (Region, error)
	// Extrude sweeps a region along +Z by height.
	Extrude(r Region, height float64) (Solid, error)
	// Place applies a rigid transform to a solid.
	Place(s Solid, t Transform) (Solid, error)
	// Commit stores a batch of solids atomically.
	Commit(ctx context.Context, solids []Solid) error
}

// Discarder is implemented by kernels that must release uncommitted solids
// explicitly.
type Discarder interface {
	Discard(solids []Solid)
}

// Build realizes recipes through k and commits them as one batch. It returns
// the number of committed solids. On any failure nothing is committed and
// every produced solid is passed to k's Discard method if it has one.
func Build(ctx context.Context, k Kernel, recipes []Recipe) (n int, err error) {
	produced := make([]Solid, 0, len(recipes))
	defer func() {
		if err != nil {
			if d, ok := k.(Discarder); ok && len(produced) > 0 {
				d.Discard(produced)
			}
			n = 0
		}
	}()

	for _, r := range recipes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		region, err := k.SectorBoundary(r.InnerRadius, r.OuterRadius, 0, r.Sweep)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeGeometry, err, "%s %d: sector boundary", r.Kind, r.Index)
		}
		solid, err := k.Extrude(region, r.Thickness)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeGeometry, err, "%s %d: extrude", r.Kind, r.Index)
		}
		produced = append(produced, solid)
		placed, err := k.Place(solid, r.Placement)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeGeometry, err, "%s %d: place", r.Kind, r.Index)
		}
		produced[len(produced)-1] = placed
	}

	if err := k.Commit(ctx, produced); err != nil {
		return 0, errors.Wrap(errors.ErrCodeGeometry, err, "commit %d solids", len(produced))
	}
	return len(produced), nil
}
