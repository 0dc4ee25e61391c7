// Package coverage computes how far each cell lies from the border of its
// agent's region, measured in coverage levels that count down from Max.
package coverage

import (
	"context"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

const (
	// Max is the coverage depth of border cells.
	Max = 1000
	// Step is the decrement between consecutive coverage levels.
	Step = 10
	// TransferBump is added to the recipient's border level for a cell that
	// changes hands during rebalancing, placing it one level outside the
	// original border.
	TransferBump = 10
)

// Compute assigns a coverage depth to every in-domain cell. Cells touching a
// different agent (outside included) get Max. Each pass lowers the level by
// Step and every assigned cell above the level hands it to its unassigned
// same-agent neighbours. It stops after the first pass that assigns nothing.
// Cells that no pass reaches keep 0. It returns the number of passes.
func Compute(ctx context.Context, m *mesh.Mesh) (int, error) {
	n := m.CellCount()
	assigned := m.NewFlags()
	for id := 0; id < n; id++ {
		m.At(id).CoverageDepth = 0
	}
	for id := 0; id < n; id++ {
		if m.IsBorder(id) {
			m.At(id).CoverageDepth = Max
			assigned[id] = true
		}
	}

	level := Max
	maxPasses := Max/Step + n + 1
	for pass := 1; ; pass++ {
		if pass > maxPasses {
			return pass - 1, fmt.Errorf("coverage still changing after %d passes: %w", maxPasses, mesh.ErrIterationLimit)
		}
		if err := ctx.Err(); err != nil {
			return pass - 1, err
		}
		level -= Step
		if level < 0 {
			level = 0
		}
		changed := false
		for id := 0; id < n; id++ {
			c := m.At(id)
			if !c.InDomain || !assigned[id] || c.CoverageDepth <= level {
				continue
			}
			for _, nb := range c.Neighbors {
				other := m.At(nb)
				if !other.InDomain || assigned[nb] || other.Agent != c.Agent {
					continue
				}
				other.CoverageDepth = level
				assigned[nb] = true
				changed = true
			}
		}
		if !changed {
			ctxlog.FromContext(ctx).Debug("Coverage depth computed.", "passes", pass, "lowest_level", level)
			return pass, nil
		}
	}
}

// Lowest returns the smallest coverage depth among an agent's cells.
func Lowest(m *mesh.Mesh, agent int) (int, bool) {
	lowest, found := 0, false
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.InDomain || c.Agent != agent {
			continue
		}
		if !found || c.CoverageDepth < lowest {
			lowest, found = c.CoverageDepth, true
		}
	}
	return lowest, found
}
