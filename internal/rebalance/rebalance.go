package rebalance

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/partition"
)

// Transfer records cells carried along one path of agents.
type Transfer struct {
	// Path runs from the receiving agent to the source. Agent 0 is the pool.
	Path      []int
	Requested int
	Moved     int
}

// Report summarises one rebalance run.
type Report struct {
	Transfers []Transfer
	// Released lists owned cells cut off from their seed and returned to the pool.
	Released []int
	// Unmet maps agent id to the number of cells it is still short.
	Unmet  map[int]int
	Counts map[int]int
	// Status wraps ErrQuotaUnreachable or mesh.ErrIterationLimit when the
	// run could not satisfy every quota.
	Status error
}

// ledger tracks the open deficits and the spare cells available.
type ledger struct {
	need    map[int]int
	surplus map[int]int
}

func newLedger(counts map[int]int, quotas []partition.Quota) *ledger {
	l := &ledger{need: make(map[int]int), surplus: make(map[int]int)}
	if counts[mesh.Pool] > 0 {
		l.surplus[mesh.Pool] = counts[mesh.Pool]
	}
	for _, q := range quotas {
		diff := q.Want() - counts[q.Agent]
		switch {
		case diff > 0:
			l.need[q.Agent] = diff
		case diff < 0:
			l.surplus[q.Agent] = -diff
		}
	}
	return l
}

// deficits returns the agents still short, ascending.
func (l *ledger) deficits() []int {
	agents := make([]int, 0, len(l.need))
	for agent, n := range l.need {
		if n > 0 {
			agents = append(agents, agent)
		}
	}
	sort.Ints(agents)
	return agents
}

// Run rebalances the mesh so that every agent reaches Quota.Want cells where
// an adjacent chain of agents makes that possible. Afterwards depth and
// branch are regrown from the seeds and owned cells that became unreachable
// are released to the pool. Coverage depth is left stale and must be
// recomputed by the caller.
func Run(ctx context.Context, m *mesh.Mesh, quotas []partition.Quota) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{Unmet: make(map[int]int)}

	var problems []error
	unreachable := make(map[int]bool)
	limit := m.CellCount() + len(quotas) + 1
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step > limit {
			problems = append(problems, fmt.Errorf("rebalance stopped after %d transfers: %w", limit, mesh.ErrIterationLimit))
			break
		}
		l := newLedger(m.Counts(), quotas)
		deficit := -1
		for _, agent := range l.deficits() {
			if !unreachable[agent] {
				deficit = agent
				break
			}
		}
		if deficit < 0 || len(l.surplus) == 0 {
			break
		}

		path, err := findSource(adjacency(m), deficit, l.surplus)
		if err != nil {
			if errors.Is(err, mesh.ErrIterationLimit) {
				problems = append(problems, err)
			}
			logger.Debug("No source for deficit.", "agent", deficit, "error", err)
			unreachable[deficit] = true
			continue
		}

		source := path[len(path)-1]
		amount := l.need[deficit]
		if l.surplus[source] < amount {
			amount = l.surplus[source]
		}
		moved := carry(m, path, amount)
		report.Transfers = append(report.Transfers, Transfer{Path: path, Requested: amount, Moved: moved})
		logger.Debug("Cells transferred.", "path", path, "requested", amount, "moved", moved)
		if moved == 0 {
			unreachable[deficit] = true
		}
	}

	orphans, err := partition.Regrow(ctx, m)
	if err != nil {
		if !errors.Is(err, mesh.ErrIterationLimit) {
			return nil, err
		}
		problems = append(problems, err)
	}
	for _, id := range orphans {
		c := m.At(id)
		c.Agent, c.Depth, c.Branch = mesh.Pool, 0, 0
	}
	report.Released = orphans
	if len(orphans) > 0 {
		logger.Warn("Cells cut off from their seed were released.", "count", len(orphans))
	}

	report.Counts = m.Counts()
	for _, q := range quotas {
		if short := q.Want() - report.Counts[q.Agent]; short > 0 {
			report.Unmet[q.Agent] = short
		}
	}
	if len(report.Unmet) > 0 {
		problems = append(problems, fmt.Errorf("%d agent(s) below quota: %w", len(report.Unmet), ErrQuotaUnreachable))
	}
	report.Status = errors.Join(problems...)
	return report, nil
}
