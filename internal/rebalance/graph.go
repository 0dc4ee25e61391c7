package rebalance

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/meshplan/internal/mesh"
)

// adjacency returns, for every agent including the pool, the sorted list of
// agents sharing at least one cell edge with it. Outside cells are ignored.
func adjacency(m *mesh.Mesh) map[int][]int {
	sets := make(map[int]map[int]bool)
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.InDomain {
			continue
		}
		for _, nb := range c.Neighbors {
			other := m.At(nb)
			if !other.InDomain || other.Agent == c.Agent {
				continue
			}
			if sets[c.Agent] == nil {
				sets[c.Agent] = make(map[int]bool)
			}
			sets[c.Agent][other.Agent] = true
		}
	}
	adj := make(map[int][]int, len(sets))
	for agent, set := range sets {
		list := make([]int, 0, len(set))
		for other := range set {
			list = append(list, other)
		}
		sort.Ints(list)
		adj[agent] = list
	}
	return adj
}

// findSource walks the adjacency graph depth-first from the deficit agent
// until it reaches an agent with surplus. The returned path starts at the
// deficit agent and ends at the source. Agents whose every neighbour was
// explored are marked dead and never revisited during this search.
func findSource(adj map[int][]int, deficit int, surplus map[int]int) ([]int, error) {
	path := []int{deficit}
	onPath := map[int]bool{deficit: true}
	dead := make(map[int]bool)
	limit := 2*len(adj) + 2
	for step := 0; ; step++ {
		if step > limit {
			return nil, fmt.Errorf("search from agent %d exceeded %d steps: %w", deficit, limit, mesh.ErrIterationLimit)
		}
		if len(path) == 0 {
			return nil, fmt.Errorf("agent %d: no adjacent agent with spare cells: %w", deficit, ErrQuotaUnreachable)
		}
		tail := path[len(path)-1]
		next := -1
		for _, other := range adj[tail] {
			if !onPath[other] && !dead[other] {
				next = other
				break
			}
		}
		if next < 0 {
			dead[tail] = true
			onPath[tail] = false
			path = path[:len(path)-1]
			continue
		}
		path = append(path, next)
		onPath[next] = true
		if surplus[next] > 0 {
			return path, nil
		}
	}
}
