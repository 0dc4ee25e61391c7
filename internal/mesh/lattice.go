package mesh

import (
	"context"
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
)

// DefaultMaxCells caps the lattice size when Lattice.MaxCells is zero.
const DefaultMaxCells = 200000

// latticeMaxAngle is the smallest angle of a right isosceles triangle.
const latticeMaxAngle = 45.0

// Lattice triangulates a region by splitting a square grid over its bounding
// box into right isosceles triangles. Triangles whose centroid falls outside
// the boundary, or inside a hole, become outside-domain cells.
//
// The grid spacing is MaxEdge/sqrt(2) so the hypotenuse never exceeds
// MaxEdge. All angles are 45 or 90 degrees, so MinAngle above 45 cannot be
// satisfied. Smoothing has no effect on a regular lattice.
type Lattice struct {
	MaxCells int
}

// Triangulate implements Triangulator.
func (l Lattice) Triangulate(ctx context.Context, r Region) (*Mesh, error) {
	logger := ctxlog.FromContext(ctx)
	if err := validateRegion(r); err != nil {
		return nil, err
	}

	boundary := polygon(r.Boundary)
	holes := make([]geom.Polygon, len(r.Holes))
	for i, h := range r.Holes {
		holes[i] = polygon(h.Points)
	}

	b := boundary.Bounds()
	spacing := r.Criteria.MaxEdge / math.Sqrt2
	nx := gridSteps(b.Max.X-b.Min.X, spacing)
	ny := gridSteps(b.Max.Y-b.Min.Y, spacing)

	maxCells := l.MaxCells
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if 2*nx*ny+1 > maxCells {
		return nil, fmt.Errorf("lattice of %dx%d squares exceeds %d cells: %w", nx, ny, maxCells, ErrDegenerateRegion)
	}
	if r.Criteria.Smoothing > 0 {
		logger.Debug("Smoothing passes ignored by lattice triangulator.", "passes", r.Criteria.Smoothing)
	}

	corner := func(i, j int) geom.Point {
		return geom.Point{X: b.Min.X + float64(i)*spacing, Y: b.Min.Y + float64(j)*spacing}
	}
	lower := func(i, j int) int { return 2 * (j*nx + i) }
	upper := func(i, j int) int { return 2*(j*nx+i) + 1 }
	outside := 2 * nx * ny

	builder := NewBuilder()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a, bb, c, d := corner(i, j), corner(i+1, j), corner(i+1, j+1), corner(i, j+1)
			lv := [3]geom.Point{a, bb, c}
			uv := [3]geom.Point{a, c, d}
			builder.AddCell(inDomain(lv, boundary, holes), lv)
			builder.AddCell(inDomain(uv, boundary, holes), uv)
		}
	}
	builder.AddCell(false, [3]geom.Point{})

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			lo, up := lower(i, j), upper(i, j)

			builder.Link(lo, 0, outside)
			if j > 0 {
				builder.Link(lo, 0, upper(i, j-1))
			}
			builder.Link(lo, 1, outside)
			if i+1 < nx {
				builder.Link(lo, 1, upper(i+1, j))
			}
			builder.Link(lo, 2, up)

			builder.Link(up, 0, lo)
			builder.Link(up, 1, outside)
			if j+1 < ny {
				builder.Link(up, 1, lower(i, j+1))
			}
			builder.Link(up, 2, outside)
			if i > 0 {
				builder.Link(up, 2, lower(i-1, j))
			}
		}
	}
	for slot := 0; slot < 3; slot++ {
		builder.Link(outside, slot, outside)
	}

	m, err := builder.Build()
	if err != nil {
		return nil, err
	}
	logger.Debug("Lattice mesh built.", "columns", nx, "rows", ny, "cells", m.CellCount(), "in_domain", m.InDomainCount())
	return m, nil
}

func validateRegion(r Region) error {
	if len(r.Boundary) < 3 {
		return fmt.Errorf("boundary has %d points, need at least 3: %w", len(r.Boundary), ErrDegenerateRegion)
	}
	for _, p := range r.Boundary {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("boundary point %v is not finite: %w", p, ErrDegenerateRegion)
		}
	}
	if area := math.Abs(polygon(r.Boundary).Area()); area == 0 {
		return fmt.Errorf("boundary encloses no area: %w", ErrDegenerateRegion)
	}
	c := r.Criteria
	if !(c.MaxEdge > 0) || math.IsInf(c.MaxEdge, 0) {
		return fmt.Errorf("max edge %v must be positive: %w", c.MaxEdge, ErrDegenerateRegion)
	}
	if c.MinAngle < 0 || c.MinAngle > latticeMaxAngle {
		return fmt.Errorf("min angle %v outside [0, %v]: %w", c.MinAngle, latticeMaxAngle, ErrDegenerateRegion)
	}
	if c.Smoothing < 0 {
		return fmt.Errorf("smoothing passes %d must not be negative: %w", c.Smoothing, ErrDegenerateRegion)
	}
	for i, h := range r.Holes {
		if len(h.Points) < 3 {
			return fmt.Errorf("hole %d has %d points: %w", i, len(h.Points), ErrDegenerateRegion)
		}
		if h.Seed.Within(polygon(h.Points)) != geom.Inside {
			return fmt.Errorf("hole %d seed %v is not inside the hole: %w", i, h.Seed, ErrDegenerateRegion)
		}
	}
	return nil
}

func gridSteps(extent, spacing float64) int {
	n := int(math.Ceil(extent/spacing - 1e-9))
	if n < 1 {
		n = 1
	}
	return n
}

func inDomain(v [3]geom.Point, boundary geom.Polygon, holes []geom.Polygon) bool {
	centroid := geom.Point{X: (v[0].X + v[1].X + v[2].X) / 3, Y: (v[0].Y + v[1].Y + v[2].Y) / 3}
	if centroid.Within(boundary) == geom.Outside {
		return false
	}
	for _, h := range holes {
		if centroid.Within(h) != geom.Outside {
			return false
		}
	}
	return true
}
