package mesh_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLattice_Topology(t *testing.T) {
	t.Parallel()

	// Arrange
	const nx, ny = 4, 3

	// Act
	m := testutil.Lattice(t, nx, ny)

	// Assert
	require.Equal(t, 2*nx*ny+1, m.CellCount())
	outside := 2 * nx * ny
	assert.False(t, m.IsInDomain(outside))
	assert.Equal(t, mesh.Outside, m.At(outside).Agent)

	for id := 0; id < outside; id++ {
		c := m.At(id)
		require.True(t, c.InDomain, "cell %d", id)
		assert.Equal(t, mesh.Pool, c.Agent)
		for slot, nb := range c.Neighbors {
			if nb == outside {
				continue
			}
			// Neighbour relation is symmetric and the shared edge matches.
			back := -1
			for s, other := range m.At(nb).Neighbors {
				if other == id {
					back = s
				}
			}
			require.NotEqual(t, -1, back, "cell %d slot %d -> %d is not mutual", id, slot, nb)
			a, b := m.Edge(id, slot)
			c2, d2 := m.Edge(nb, back)
			assert.Equal(t, a, d2)
			assert.Equal(t, b, c2)
		}
	}
}

func TestLattice_Hole(t *testing.T) {
	t.Parallel()

	// Arrange
	region := testutil.Rect(4, 4)
	region.Holes = []mesh.Hole{{
		Points: []geom.Point{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}},
		Seed:   geom.Point{X: 2, Y: 2},
	}}

	// Act
	m, err := mesh.Lattice{}.Triangulate(testutil.Context(t), region)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 32-8, m.InDomainCount())
	assert.False(t, m.IsInDomain(testutil.Lower(4, 1, 1)))
	assert.False(t, m.IsInDomain(testutil.Upper(4, 2, 2)))
	assert.True(t, m.IsInDomain(testutil.Lower(4, 0, 0)))
}

func TestLattice_Errors(t *testing.T) {
	t.Parallel()

	square := testutil.Rect(2, 2)
	tests := []struct {
		name   string
		mutate func(r *mesh.Region)
	}{
		{"too few points", func(r *mesh.Region) { r.Boundary = r.Boundary[:2] }},
		{"collinear boundary", func(r *mesh.Region) {
			r.Boundary = []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
		}},
		{"zero max edge", func(r *mesh.Region) { r.Criteria.MaxEdge = 0 }},
		{"min angle unreachable", func(r *mesh.Region) { r.Criteria.MinAngle = 50 }},
		{"negative smoothing", func(r *mesh.Region) { r.Criteria.Smoothing = -1 }},
		{"hole seed outside hole", func(r *mesh.Region) {
			r.Holes = []mesh.Hole{{
				Points: []geom.Point{{X: 0.5, Y: 0.5}, {X: 1, Y: 0.5}, {X: 1, Y: 1}},
				Seed:   geom.Point{X: 1.9, Y: 1.9},
			}}
		}},
		{"hole covers region", func(r *mesh.Region) {
			r.Holes = []mesh.Hole{{
				Points: []geom.Point{{X: -1, Y: -1}, {X: 3, Y: -1}, {X: 3, Y: 3}, {X: -1, Y: 3}},
				Seed:   geom.Point{X: 1, Y: 1},
			}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			region := square
			region.Boundary = append([]geom.Point(nil), square.Boundary...)
			tc.mutate(&region)

			_, err := mesh.Lattice{}.Triangulate(testutil.Context(t), region)

			require.Error(t, err)
			assert.True(t, errors.Is(err, mesh.ErrDegenerateRegion), "got %v", err)
		})
	}
}

func TestLattice_CellLimit(t *testing.T) {
	t.Parallel()

	_, err := mesh.Lattice{MaxCells: 10}.Triangulate(testutil.Context(t), testutil.Rect(4, 4))

	assert.ErrorIs(t, err, mesh.ErrDegenerateRegion)
}

func TestLattice_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(testutil.Context(t))
	cancel()

	_, err := mesh.Lattice{}.Triangulate(ctx, testutil.Rect(3, 3))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_RejectsUnlinkedSlot(t *testing.T) {
	t.Parallel()

	b := mesh.NewBuilder()
	id := b.AddCell(true, [3]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	b.Link(id, 0, id)

	_, err := b.Build()

	assert.ErrorIs(t, err, mesh.ErrDegenerateRegion)
}
