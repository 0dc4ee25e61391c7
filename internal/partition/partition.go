package partition

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

// Report summarises one partition run.
type Report struct {
	// Seeds maps agent id to its seed cell. Agents without a seed are absent.
	Seeds  map[int]int
	Quotas []Quota
	// Counts holds cells per agent after growth, the pool under mesh.Pool.
	Counts map[int]int
	Rounds int
	// SeedErrors lists agents that could not be seeded. They own nothing.
	SeedErrors []error
	// Status is non-nil when growth stopped at its iteration bound.
	Status error
}

// Run clears all ownership and partitions the mesh between the agents.
// Seeds are placed in declaration order. A seed point landing on a cell that
// already seeds an earlier agent is reported in SeedErrors and that agent
// takes no part in the growth.
func Run(ctx context.Context, m *mesh.Mesh, loc *mesh.Locator, specs []AgentSpec) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	quotas, err := Quotas(specs, m.InDomainCount())
	if err != nil {
		return nil, err
	}

	m.ResetOwnership()
	report := &Report{Seeds: make(map[int]int), Quotas: quotas}
	numbered := m.NewFlags()
	seededBy := make(map[int]int)

	for i, spec := range specs {
		agent := i + 1
		cell, ok := loc.Nearest(spec.Seed)
		if !ok {
			report.SeedErrors = append(report.SeedErrors, fmt.Errorf("agent %d: %w", agent, ErrNoSeedCell))
			continue
		}
		if prev, taken := seededBy[cell]; taken {
			report.SeedErrors = append(report.SeedErrors,
				fmt.Errorf("agent %d: cell %d already seeds agent %d: %w", agent, cell, prev, ErrNoSeedCell))
			continue
		}
		seededBy[cell] = agent
		c := m.At(cell)
		c.Agent, c.Depth, c.Branch = agent, 1, 0
		numbered[cell] = true
		report.Seeds[agent] = cell
	}
	for _, err := range report.SeedErrors {
		logger.Warn("Agent left unseeded.", "error", err)
	}

	need := make(map[int]int, len(quotas))
	for _, q := range quotas {
		if _, ok := report.Seeds[q.Agent]; ok {
			need[q.Agent] = q.Target
		}
	}

	rounds, err := grow(ctx, m, numbered, func(parent, child *mesh.Cell) bool {
		left, ok := need[parent.Agent]
		if !ok || left <= 0 {
			return false
		}
		need[parent.Agent] = left - 1
		child.Agent = parent.Agent
		return true
	})
	if err != nil && !errors.Is(err, mesh.ErrIterationLimit) {
		return nil, err
	}
	report.Status = err
	report.Rounds = rounds

	for i := range report.Quotas {
		q := &report.Quotas[i]
		if left, ok := need[q.Agent]; ok {
			q.Remaining = left
		}
	}
	report.Counts = m.Counts()
	logger.Debug("Partition grown.", "rounds", rounds, "counts", report.Counts)
	return report, nil
}
