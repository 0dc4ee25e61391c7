package mesh

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// Mesh is an immutable-topology arena of cells. Only the ownership fields of
// its cells change after Build.
type Mesh struct {
	cells    []Cell
	inDomain int
	bounds   *geom.Bounds
}

// CellCount returns the number of cells, outside-domain cells included.
func (m *Mesh) CellCount() int { return len(m.cells) }

// InDomainCount returns the number of cells inside the region.
func (m *Mesh) InDomainCount() int { return m.inDomain }

// At returns the cell with the given id. It panics on an out-of-range id.
func (m *Mesh) At(id int) *Cell { return &m.cells[id] }

// Valid reports whether id addresses a cell of this mesh.
func (m *Mesh) Valid(id int) bool { return id >= 0 && id < len(m.cells) }

// IsInDomain reports whether the cell lies inside the region.
func (m *Mesh) IsInDomain(id int) bool { return m.cells[id].InDomain }

// Center returns the centroid of a cell.
func (m *Mesh) Center(id int) geom.Point { return m.cells[id].Center }

// Neighbor returns the cell across the given edge slot.
func (m *Mesh) Neighbor(id, slot int) int { return m.cells[id].Neighbors[slot] }

// Edge returns the two vertices of the edge shared with the neighbour in slot.
func (m *Mesh) Edge(id, slot int) (geom.Point, geom.Point) {
	v := m.cells[id].Vertices
	return v[slot], v[(slot+1)%3]
}

// Bounds returns the bounding box of all in-domain cell vertices.
func (m *Mesh) Bounds() *geom.Bounds {
	b := *m.bounds
	return &b
}

// NewFlags returns a zeroed per-cell scratch buffer.
func (m *Mesh) NewFlags() []bool { return make([]bool, len(m.cells)) }

// ResetOwnership returns every in-domain cell to the pool and clears all
// ownership fields. Outside cells keep agent Outside.
func (m *Mesh) ResetOwnership() {
	for i := range m.cells {
		c := &m.cells[i]
		c.Depth, c.CoverageDepth, c.Branch = 0, 0, 0
		if c.InDomain {
			c.Agent = Pool
		} else {
			c.Agent = Outside
		}
	}
}

// Counts returns the number of in-domain cells held by each agent. The pool
// is reported under Pool.
func (m *Mesh) Counts() map[int]int {
	counts := make(map[int]int)
	for i := range m.cells {
		if m.cells[i].InDomain {
			counts[m.cells[i].Agent]++
		}
	}
	return counts
}

// Seed returns the seed cell of an agent.
func (m *Mesh) Seed(agent int) (int, bool) {
	for i := range m.cells {
		if m.cells[i].InDomain && m.cells[i].Agent == agent && m.cells[i].Depth == 1 {
			return i, true
		}
	}
	return -1, false
}

// Agents returns the ids of all agents owning at least one cell, ascending.
func (m *Mesh) Agents() []int {
	seen := make(map[int]bool)
	var agents []int
	for i := range m.cells {
		c := &m.cells[i]
		if c.Owned() && !seen[c.Agent] {
			seen[c.Agent] = true
			agents = append(agents, c.Agent)
		}
	}
	sort.Ints(agents)
	return agents
}

// IsBorder reports whether an in-domain cell touches a cell of another agent,
// outside cells included.
func (m *Mesh) IsBorder(id int) bool {
	c := &m.cells[id]
	if !c.InDomain {
		return false
	}
	for _, nb := range c.Neighbors {
		if m.cells[nb].Agent != c.Agent {
			return true
		}
	}
	return false
}

// Distance is the planar distance between two cell centres.
func (m *Mesh) Distance(a, b int) float64 {
	return PointDistance(m.cells[a].Center, m.cells[b].Center)
}

// PointDistance is the planar distance between two points.
func PointDistance(a, b geom.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Nearest scans the given cells for the one whose centre is closest to p.
// Ties resolve to the lowest id. It returns -1 when ids is empty.
func (m *Mesh) Nearest(p geom.Point, ids []int) int {
	best, bestD := -1, math.Inf(1)
	for _, id := range ids {
		d := PointDistance(p, m.cells[id].Center)
		if d < bestD || (d == bestD && id < best) {
			best, bestD = id, d
		}
	}
	return best
}
