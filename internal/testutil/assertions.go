package testutil

import (
	"testing"

	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertOwnership checks the ownership invariants every engine must keep:
// in-domain cells are pooled or owned, outside cells stay outside and every
// owning agent has exactly one seed.
func AssertOwnership(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	seeds := make(map[int]int)
	owners := make(map[int]bool)
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.InDomain {
			require.Equal(t, mesh.Outside, c.Agent, "outside cell %d changed owner", id)
			continue
		}
		require.GreaterOrEqual(t, c.Agent, mesh.Pool, "in-domain cell %d has agent %d", id, c.Agent)
		if c.Agent > 0 {
			owners[c.Agent] = true
			if c.Depth == 1 {
				seeds[c.Agent]++
			}
		}
	}
	for agent := range owners {
		assert.Equal(t, 1, seeds[agent], "agent %d seed count", agent)
	}
}

// AssertConserved checks that every in-domain cell is counted exactly once.
func AssertConserved(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	total := 0
	for _, n := range m.Counts() {
		total += n
	}
	require.Equal(t, m.InDomainCount(), total)
}

// AssertAdjacentDepths checks that every owned non-seed cell has a same-agent
// neighbour one step closer to the seed.
func AssertAdjacentDepths(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.Owned() || c.Depth <= 1 {
			continue
		}
		found := false
		for _, nb := range c.Neighbors {
			n := m.At(nb)
			if n.Agent == c.Agent && n.Depth == c.Depth-1 {
				found = true
				break
			}
		}
		assert.True(t, found, "cell %d at depth %d has no parent", id, c.Depth)
	}
}
