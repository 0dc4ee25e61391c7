package partition

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// AgentSpec is one agent's partition request. Agent ids are assigned by
// position, starting at 1.
type AgentSpec struct {
	Seed geom.Point
	// Percent is the share of the in-domain cells the agent should own.
	Percent float64
}

// Quota is an agent's target cell count, seed excluded, and how much of it
// is still unclaimed.
type Quota struct {
	Agent     int
	Target    int
	Remaining int
}

// Want is the total number of cells the agent should hold, seed included.
func (q Quota) Want() int { return q.Target + 1 }

// Quotas converts percentages into per-agent targets over total cells.
// The seed counts toward the share, so it is subtracted from the target.
func Quotas(specs []AgentSpec, total int) ([]Quota, error) {
	percents := make([]float64, len(specs))
	for i, s := range specs {
		if s.Percent < 0 || s.Percent > 100 || math.IsNaN(s.Percent) {
			return nil, fmt.Errorf("agent %d share %v%%: %w", i+1, s.Percent, ErrInvalidQuota)
		}
		percents[i] = s.Percent
	}
	if sum := floats.Sum(percents); sum > 100+1e-9 {
		return nil, fmt.Errorf("shares add up to %v%%: %w", sum, ErrInvalidQuota)
	}
	quotas := make([]Quota, len(specs))
	for i, pct := range percents {
		target := int(pct*float64(total)/100+0.5) - 1
		if target < 0 {
			target = 0
		}
		quotas[i] = Quota{Agent: i + 1, Target: target, Remaining: target}
	}
	return quotas, nil
}
