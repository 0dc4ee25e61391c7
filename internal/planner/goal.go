package planner

import (
	"context"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/coverage"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

const (
	// ceilingStart is the depth ceiling before the first round.
	ceilingStart = 1
	// ceilingStep widens the ceiling every round.
	ceilingStep = 4
)

// Path is a coarse route from an agent's seed toward a goal cell.
type Path struct {
	Agent     int        `json:"agent"`
	Goal      int        `json:"goal"`
	GoalDepth int        `json:"goal_depth"`
	Branch    int        `json:"branch"`
	Ceiling   int        `json:"ceiling"`
	Waypoints []Waypoint `json:"waypoints"`
}

// ToGoal plans a path for agent toward goal. The path starts at the agent's
// seed. Each round raises a depth ceiling and appends the cell of the goal's
// branch below the ceiling that is nearest to the goal, until the ceiling
// reaches the goal's depth. The goal cell itself may be owned by another
// agent. Its depth is then meaningless to this agent, so when the goal lies
// on a border the deepest in-domain neighbour depth is used instead.
//
// When a round finds no candidate the path so far is returned together with
// ErrBranchIsolated.
func ToGoal(ctx context.Context, m *mesh.Mesh, agent, goal int) (*Path, error) {
	seed, ok := m.Seed(agent)
	if !ok {
		return nil, fmt.Errorf("agent %d: %w", agent, ErrUnknownAgent)
	}
	if !m.Valid(goal) || !m.IsInDomain(goal) {
		return nil, fmt.Errorf("cell %d: %w", goal, ErrInvalidGoal)
	}

	g := m.At(goal)
	goalDepth := g.Depth
	if g.CoverageDepth == coverage.Max {
		deepest, found := 0, false
		for _, nb := range g.Neighbors {
			if n := m.At(nb); n.InDomain && (!found || n.Depth > deepest) {
				deepest, found = n.Depth, true
			}
		}
		if found {
			goalDepth = deepest
		}
	}

	path := &Path{
		Agent:     agent,
		Goal:      goal,
		GoalDepth: goalDepth,
		Branch:    g.Branch,
		Ceiling:   ceilingStart,
		Waypoints: []Waypoint{waypoint(m, seed)},
	}
	target := m.Center(goal)
	maxRounds := m.CellCount()/ceilingStep + 2
	for round := 1; ; round++ {
		if round > maxRounds {
			return path, fmt.Errorf("goal path exceeded %d rounds: %w", maxRounds, mesh.ErrIterationLimit)
		}
		if err := ctx.Err(); err != nil {
			return path, err
		}
		path.Ceiling += ceilingStep

		var candidates []int
		for id := 0; id < m.CellCount(); id++ {
			c := m.At(id)
			if c.InDomain && c.Agent == agent && c.Depth < path.Ceiling && c.Branch == path.Branch {
				candidates = append(candidates, id)
			}
		}
		next := m.Nearest(target, candidates)
		if next < 0 {
			return path, fmt.Errorf("agent %d branch %d below depth %d: %w", agent, path.Branch, path.Ceiling, ErrBranchIsolated)
		}
		if last := path.Waypoints[len(path.Waypoints)-1]; last.Cell != next {
			path.Waypoints = append(path.Waypoints, waypoint(m, next))
		}
		if path.Ceiling >= goalDepth {
			break
		}
	}

	ctxlog.FromContext(ctx).Debug("Goal path planned.", "agent", agent, "goal", goal, "goal_depth", goalDepth, "waypoints", len(path.Waypoints))
	return path, nil
}
