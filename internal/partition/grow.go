package partition

import (
	"context"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/mesh"
)

// claimFunc decides whether parent takes the unnumbered child this round.
// It may change the child's owner.
type claimFunc func(parent, child *mesh.Cell) bool

// grow runs synchronous rounds of breadth-first growth from every numbered
// cell. A cell numbered in round r is expanded in round r+1, so the depth of
// every claimed cell is one more than its parent's. Seeds carry depth 1 and
// the first round is 2. It returns the last round that did any work.
func grow(ctx context.Context, m *mesh.Mesh, numbered []bool, claim claimFunc) (int, error) {
	n := m.CellCount()
	visited := m.NewFlags()
	maxRounds := n + 2
	last := 1
	for round := 2; ; round++ {
		if round > maxRounds {
			return last, fmt.Errorf("growth still active after %d rounds: %w", maxRounds, mesh.ErrIterationLimit)
		}
		if err := ctx.Err(); err != nil {
			return last, err
		}
		progressed := false
		for id := 0; id < n; id++ {
			c := m.At(id)
			if !c.InDomain || !numbered[id] || visited[id] || c.Depth == round {
				continue
			}
			visited[id] = true
			progressed = true
			for slot, nb := range c.Neighbors {
				child := m.At(nb)
				if !child.InDomain || numbered[nb] || !claim(c, child) {
					continue
				}
				child.Depth = round
				child.Branch = lineage(c, slot)
				numbered[nb] = true
			}
		}
		if !progressed {
			return last, nil
		}
		last = round
	}
}

// lineage returns the branch tag for a cell claimed by parent across slot.
// Children of a seed open a new branch per edge, later cells inherit theirs.
func lineage(parent *mesh.Cell, slot int) int {
	if parent.Depth == 1 {
		return (parent.Agent-1)*3 + slot + 1
	}
	return parent.Branch
}

// Regrow recomputes depth and branch for every owned cell from its agent's
// seed without quotas, walking only through same-agent cells. Owned cells
// the walk cannot reach are returned so the caller can release them.
func Regrow(ctx context.Context, m *mesh.Mesh) ([]int, error) {
	numbered := m.NewFlags()
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.Owned() {
			continue
		}
		if c.Depth == 1 {
			numbered[id] = true
			c.Branch = 0
			continue
		}
		c.Depth, c.Branch = 0, 0
	}

	_, err := grow(ctx, m, numbered, func(parent, child *mesh.Cell) bool {
		return child.Agent == parent.Agent
	})
	if err != nil {
		return nil, err
	}

	var orphans []int
	for id := 0; id < m.CellCount(); id++ {
		if m.At(id).Owned() && !numbered[id] {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}
