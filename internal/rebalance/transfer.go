package rebalance

import (
	"sort"

	"github.com/specialistvlad/meshplan/internal/coverage"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

// movable reports whether a donor cell may change hands. Seeds never move.
func movable(c *mesh.Cell, donor int) bool {
	return c.InDomain && c.Agent == donor && !c.IsSeed()
}

// candidate is a donor cell touching the recipient, paired with the
// recipient cell that would take it.
type candidate struct {
	cell   int
	parent int
}

// frontier lists the movable donor cells that touch the recipient's region.
// Each is paired with its lowest-coverage recipient neighbour, lowest id
// first on ties. Candidates come back ordered by that coverage depth and
// then by cell id, so the recipient extends its shallowest border first.
func frontier(m *mesh.Mesh, recipient, donor int) []candidate {
	parent := make(map[int]int)
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.InDomain || c.Agent != recipient {
			continue
		}
		for _, nb := range c.Neighbors {
			if !movable(m.At(nb), donor) {
				continue
			}
			if p, ok := parent[nb]; !ok || c.CoverageDepth < m.At(p).CoverageDepth {
				parent[nb] = id
			}
		}
	}

	out := make([]candidate, 0, len(parent))
	for cell, p := range parent {
		out = append(out, candidate{cell: cell, parent: p})
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := m.At(out[i].parent).CoverageDepth, m.At(out[j].parent).CoverageDepth
		if ci != cj {
			return ci < cj
		}
		return out[i].cell < out[j].cell
	})
	return out
}

// keepsConnected reports whether donor still reaches all of its cells from
// its seed once skip is taken away. The pool has no seed and always passes.
func keepsConnected(m *mesh.Mesh, donor, skip int) bool {
	if donor == mesh.Pool {
		return true
	}
	seed, ok := m.Seed(donor)
	if !ok || seed == skip {
		return false
	}
	total := 0
	for id := 0; id < m.CellCount(); id++ {
		if c := m.At(id); c.InDomain && c.Agent == donor {
			total++
		}
	}

	seen := m.NewFlags()
	seen[seed] = true
	stack := []int{seed}
	reached := 1
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, nb := range m.At(id).Neighbors {
			if seen[nb] || nb == skip {
				continue
			}
			c := m.At(nb)
			if !c.InDomain || c.Agent != donor {
				continue
			}
			seen[nb] = true
			reached++
			stack = append(stack, nb)
		}
	}
	return reached == total-1
}

// hop moves up to want donor cells that already touch the recipient. It
// makes one pass over the frontier and skips any cell whose loss would cut
// the donor off from its seed. A moved cell sits one step deeper and one
// coverage level further out than the recipient cell that took it.
func hop(m *mesh.Mesh, recipient, donor, want int) int {
	moved := 0
	for _, cand := range frontier(m, recipient, donor) {
		if moved >= want {
			break
		}
		if !keepsConnected(m, donor, cand.cell) {
			continue
		}
		p, c := m.At(cand.parent), m.At(cand.cell)
		c.Agent = recipient
		c.Depth = p.Depth + 1
		c.CoverageDepth = p.CoverageDepth + coverage.TransferBump
		moved++
	}
	return moved
}

// carry pushes amount cells along path, which runs from the deficit agent to
// the source. Hops run from the source end, and each hop is capped at what
// the previous one actually delivered, so intermediate agents keep their
// size. It returns the number of cells the deficit agent received.
func carry(m *mesh.Mesh, path []int, amount int) int {
	for i := len(path) - 1; i >= 1 && amount > 0; i-- {
		amount = hop(m, path[i-1], path[i], amount)
	}
	return amount
}
