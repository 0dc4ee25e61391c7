package mesh

import (
	"context"

	"github.com/ctessum/geom"
)

// Criteria bounds the shape of generated cells.
type Criteria struct {
	// MinAngle is the smallest interior angle in degrees. Zero leaves it unconstrained.
	MinAngle float64
	// MaxEdge is the longest allowed cell edge in coordinate units.
	MaxEdge float64
	// Smoothing is the number of optimisation passes a triangulator may run.
	Smoothing int
}

// Hole is a region excluded from the domain. Seed must lie inside Points.
type Hole struct {
	Points []geom.Point
	Seed   geom.Point
}

// Region describes the polygon to triangulate.
type Region struct {
	Boundary []geom.Point
	Holes    []Hole
	Criteria Criteria
}

// Triangulator turns a region into a mesh.
type Triangulator interface {
	Triangulate(ctx context.Context, r Region) (*Mesh, error)
}

func polygon(points []geom.Point) geom.Polygon {
	path := make([]geom.Point, len(points))
	copy(path, points)
	return geom.Polygon{path}
}
