package planner

import (
	"context"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/coverage"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

// Tour visits every cell of an agent's region once.
type Tour struct {
	Agent     int        `json:"agent"`
	Waypoints []Waypoint `json:"waypoints"`
}

// FullCoverage builds a greedy nearest-neighbour tour of the agent's region,
// starting at its seed. The region is swept from the border inward: at each
// coverage level, from coverage.Max down to the region's lowest level, the
// tour keeps stepping to the nearest unvisited cell at or above that level.
// Coverage depth must be current when this is called.
func FullCoverage(ctx context.Context, m *mesh.Mesh, agent int) (*Tour, error) {
	seed, ok := m.Seed(agent)
	if !ok {
		return nil, fmt.Errorf("agent %d: %w", agent, ErrUnknownAgent)
	}
	lowest, _ := coverage.Lowest(m, agent)

	visited := m.NewFlags()
	visited[seed] = true
	tour := &Tour{Agent: agent, Waypoints: []Waypoint{waypoint(m, seed)}}
	current := seed

	maxSteps := m.CellCount() + coverage.Max/coverage.Step + 2
	steps := 0
	for level := coverage.Max; level >= lowest; level -= coverage.Step {
		if err := ctx.Err(); err != nil {
			return tour, err
		}
		for {
			steps++
			if steps > maxSteps {
				return tour, fmt.Errorf("coverage tour exceeded %d steps: %w", maxSteps, mesh.ErrIterationLimit)
			}
			var candidates []int
			for id := 0; id < m.CellCount(); id++ {
				c := m.At(id)
				if !visited[id] && c.InDomain && c.Agent == agent && c.CoverageDepth >= level {
					candidates = append(candidates, id)
				}
			}
			next := m.Nearest(m.Center(current), candidates)
			if next < 0 {
				break
			}
			visited[next] = true
			tour.Waypoints = append(tour.Waypoints, waypoint(m, next))
			current = next
		}
	}

	ctxlog.FromContext(ctx).Debug("Coverage tour planned.", "agent", agent, "waypoints", len(tour.Waypoints), "lowest_level", lowest)
	return tour, nil
}
