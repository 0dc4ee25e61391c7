package mesh

import "github.com/ctessum/geom"

// Reserved agent ids.
const (
	// Pool owns in-domain cells that no agent has claimed.
	Pool = 0
	// Outside marks cells beyond the region boundary or inside a hole.
	Outside = -1
)

// Cell is one triangle of the mesh. Points use X for latitude and Y for longitude.
type Cell struct {
	ID       int
	InDomain bool
	Center   geom.Point
	// Vertices are ordered so that neighbour slot k lies across the edge
	// Vertices[k] -> Vertices[(k+1)%3].
	Vertices  [3]geom.Point
	Neighbors [3]int

	Agent         int
	Depth         int
	CoverageDepth int
	Branch        int
}

// IsSeed reports whether the cell is the starting cell of its agent.
func (c *Cell) IsSeed() bool {
	return c.Agent > 0 && c.Depth == 1
}

// Owned reports whether the cell is in the domain and held by an agent.
func (c *Cell) Owned() bool {
	return c.InDomain && c.Agent > 0
}
