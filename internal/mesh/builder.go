package mesh

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

const unlinked = math.MinInt

// Builder assembles a Mesh cell by cell. Triangulators use it so that every
// mesh, whatever produced it, passes the same topology checks.
type Builder struct {
	cells []Cell
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddCell appends a cell and returns its id.
func (b *Builder) AddCell(inDomain bool, vertices [3]geom.Point) int {
	id := len(b.cells)
	c := Cell{
		ID:        id,
		InDomain:  inDomain,
		Vertices:  vertices,
		Neighbors: [3]int{unlinked, unlinked, unlinked},
		Agent:     Outside,
	}
	if inDomain {
		c.Agent = Pool
		c.Center = geom.Point{
			X: (vertices[0].X + vertices[1].X + vertices[2].X) / 3,
			Y: (vertices[0].Y + vertices[1].Y + vertices[2].Y) / 3,
		}
	}
	b.cells = append(b.cells, c)
	return id
}

// Link sets the neighbour of cell id across slot.
func (b *Builder) Link(id, slot, neighbor int) {
	b.cells[id].Neighbors[slot] = neighbor
}

// Build validates the topology and returns the mesh. Every slot must be
// linked to an existing cell and at least one cell must be in the domain.
func (b *Builder) Build() (*Mesh, error) {
	m := &Mesh{cells: b.cells}
	bounds := geom.Bounds{
		Min: geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for i := range m.cells {
		c := &m.cells[i]
		for slot, nb := range c.Neighbors {
			if nb < 0 || nb >= len(m.cells) {
				return nil, fmt.Errorf("cell %d slot %d has no neighbour: %w", i, slot, ErrDegenerateRegion)
			}
		}
		if !c.InDomain {
			continue
		}
		m.inDomain++
		for _, v := range c.Vertices {
			bounds.Min.X = math.Min(bounds.Min.X, v.X)
			bounds.Min.Y = math.Min(bounds.Min.Y, v.Y)
			bounds.Max.X = math.Max(bounds.Max.X, v.X)
			bounds.Max.Y = math.Max(bounds.Max.Y, v.Y)
		}
	}
	if m.inDomain == 0 {
		return nil, fmt.Errorf("mesh has no in-domain cells: %w", ErrDegenerateRegion)
	}
	m.bounds = &bounds
	b.cells = nil
	return m, nil
}
