package testutil

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/stretchr/testify/require"
)

// Rect returns an nx by ny region with corners at the origin and (nx, ny).
// Triangulated by mesh.Lattice it yields unit squares.
func Rect(nx, ny float64) mesh.Region {
	return mesh.Region{
		Boundary: []geom.Point{{X: 0, Y: 0}, {X: nx, Y: 0}, {X: nx, Y: ny}, {X: 0, Y: ny}},
		Criteria: mesh.Criteria{MinAngle: 30, MaxEdge: math.Sqrt2},
	}
}

// Lattice builds the unit-square lattice mesh of an nx by ny rectangle.
func Lattice(t *testing.T, nx, ny int) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Lattice{}.Triangulate(Context(t), Rect(float64(nx), float64(ny)))
	require.NoError(t, err)
	require.Equal(t, 2*nx*ny, m.InDomainCount())
	return m
}

// Lower returns the id of the lower-right triangle of square (i, j) in a
// lattice nx squares wide.
func Lower(nx, i, j int) int { return 2 * (j*nx + i) }

// Upper returns the id of the upper-left triangle of square (i, j).
func Upper(nx, i, j int) int { return 2*(j*nx+i) + 1 }

// SquareCenter returns a point inside the lower triangle of square (i, j).
func SquareCenter(i, j int) geom.Point {
	return geom.Point{X: float64(i) + 2.0/3.0, Y: float64(j) + 1.0/3.0}
}
