package geometry

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// DefaultSegments is the number of chords per quarter turn used by
// [MeshKernel].
const DefaultSegments = 10

// Mesh is a vertical prism: a polygon extruded between two elevations.
type Mesh struct {
	Polygon []Point `json:"polygon"`
	ZMin    float64 `json:"z_min"`
	ZMax    float64 `json:"z_max"`
}

// Area returns the polygon's area.
func (m *Mesh) Area() float64 {
	sum := 0.0
	for i, p := range m.Polygon {
		q := m.Polygon[(i+1)%len(m.Polygon)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum) / 2
}

// Volume returns the prism's volume.
func (m *Mesh) Volume() float64 { return m.Area() * (m.ZMax - m.ZMin) }

type region struct{ pts []Point }

// MeshKernel is an in-memory [Kernel]. Committed solids accumulate until
// [MeshKernel.Reset]. It is safe for concurrent use.
type MeshKernel struct {
	Segments int

	mu        sync.Mutex
	committed []*Mesh
	discarded int
}

// NewMeshKernel returns a kernel with the default tessellation.
func NewMeshKernel() *MeshKernel {
	return &MeshKernel{Segments: DefaultSegments}
}

func (k *MeshKernel) SectorBoundary(inner, outer, start, end float64) (Region, error) {
	if inner < 0 || outer <= inner {
		return nil, fmt.Errorf("invalid radii %.3f..%.3f", inner, outer)
	}
	if start == end {
		return nil, fmt.Errorf("empty sweep at %.3f rad", start)
	}
	segs := k.Segments
	if segs <= 0 {
		segs = DefaultSegments
	}
	return &region{pts: SectorPoints(inner, outer, start, end, segs)}, nil
}

func (k *MeshKernel) Extrude(r Region, height float64) (Solid, error) {
	reg, ok := r.(*region)
	if !ok {
		return nil, fmt.Errorf("foreign region %T", r)
	}
	if !(height > 0) {
		return nil, fmt.Errorf("extrusion height %.3f must be positive", height)
	}
	return &Mesh{Polygon: reg.pts, ZMax: height}, nil
}

func (k *MeshKernel) Place(s Solid, t Transform) (Solid, error) {
	m, ok := s.(*Mesh)
	if !ok {
		return nil, fmt.Errorf("foreign solid %T", s)
	}
	out := &Mesh{Polygon: make([]Point, len(m.Polygon)), ZMin: m.ZMin + t.DZ, ZMax: m.ZMax + t.DZ}
	for i, p := range m.Polygon {
		out.Polygon[i] = t.Apply(p)
	}
	return out, nil
}

func (k *MeshKernel) Commit(ctx context.Context, solids []Solid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := make([]*Mesh, 0, len(solids))
	for _, s := range solids {
		m, ok := s.(*Mesh)
		if !ok {
			return fmt.Errorf("foreign solid %T", s)
		}
		batch = append(batch, m)
	}
	k.mu.Lock()
	k.committed = append(k.committed, batch...)
	k.mu.Unlock()
	return nil
}

// Discard records released solids. Meshes hold no external resources.
func (k *MeshKernel) Discard(solids []Solid) {
	k.mu.Lock()
	k.discarded += len(solids)
	k.mu.Unlock()
}

// Solids returns a copy of the committed meshes.
func (k *MeshKernel) Solids() []*Mesh {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*Mesh(nil), k.committed...)
}

// Discarded returns how many solids were released by failed builds.
func (k *MeshKernel) Discarded() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.discarded
}

// Reset drops all committed solids.
func (k *MeshKernel) Reset() {
	k.mu.Lock()
	k.committed = nil
	k.discarded = 0
	k.mu.Unlock()
}

// TotalVolume sums the volume of the committed meshes.
func (k *MeshKernel) TotalVolume() float64 {
	total := 0.0
	for _, m := range k.Solids() {
		total += m.Volume()
	}
	return total
}
