// Package session owns one planning mesh and runs the full workflow on it:
// region definition, partitioning with rebalancing, and path planning.
// Operations on a session are serialised.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ctessum/geom"
	"github.com/google/uuid"
	"github.com/specialistvlad/meshplan/internal/coverage"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/partition"
	"github.com/specialistvlad/meshplan/internal/planner"
	"github.com/specialistvlad/meshplan/internal/rebalance"
	"github.com/specialistvlad/meshplan/internal/viz"
)

var (
	// ErrGeometryUnavailable is returned by operations that need a region
	// when none has been defined.
	ErrGeometryUnavailable = errors.New("geometry unavailable")
	// ErrNotPartitioned is returned by planning operations before Partition.
	ErrNotPartitioned = errors.New("mesh not partitioned")
)

// Session holds the mesh of one region and its current partition.
type Session struct {
	id           string
	triangulator mesh.Triangulator
	sink         viz.Sink
	mode         viz.Mode
	centers      bool

	mu      sync.Mutex
	mesh    *mesh.Mesh
	locator *mesh.Locator
	quotas  []partition.Quota
}

// Option configures a Session.
type Option func(*Session)

// WithSink sends a frame to sink after every operation that changes the mesh.
func WithSink(sink viz.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithMode selects how cells are coloured in frames.
func WithMode(mode viz.Mode) Option {
	return func(s *Session) { s.mode = mode }
}

// WithCenters labels cell centres in frames.
func WithCenters() Option {
	return func(s *Session) { s.centers = true }
}

// New returns an empty session.
func New(t mesh.Triangulator, opts ...Option) *Session {
	s := &Session{
		id:           uuid.NewString(),
		triangulator: t,
		sink:         viz.Discard{},
		mode:         viz.ModePartition,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

func (s *Session) context(ctx context.Context) context.Context {
	return ctxlog.With(ctx, "session", s.id)
}

// RegionInfo describes a freshly built mesh.
type RegionInfo struct {
	Cells    int          `json:"cells"`
	InDomain int          `json:"in_domain"`
	Bounds   *geom.Bounds `json:"bounds"`
}

// DefineRegion triangulates r and replaces any previous mesh. On failure the
// previous mesh is discarded too.
func (s *Session) DefineRegion(ctx context.Context, r mesh.Region) (*RegionInfo, error) {
	ctx = s.context(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mesh, s.locator, s.quotas = nil, nil, nil
	m, err := s.triangulator.Triangulate(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to triangulate region: %w", err)
	}
	s.mesh, s.locator = m, mesh.NewLocator(m)
	ctxlog.FromContext(ctx).Info("🗺️ Region meshed.", "cells", m.CellCount(), "in_domain", m.InDomainCount())

	s.publish(ctx, "", nil)
	return &RegionInfo{Cells: m.CellCount(), InDomain: m.InDomainCount(), Bounds: m.Bounds()}, nil
}

// PartitionResult combines the growth and rebalance reports.
type PartitionResult struct {
	Seeds      map[int]int       `json:"seeds"`
	Quotas     []partition.Quota `json:"quotas"`
	Counts     map[int]int       `json:"counts"`
	Unmet      map[int]int       `json:"unmet,omitempty"`
	Released   []int             `json:"released,omitempty"`
	Transfers  int               `json:"transfers"`
	SeedErrors []string          `json:"seed_errors,omitempty"`
	// Status is the joined non-fatal outcome of the run, nil when every
	// agent was seeded and met its quota.
	Status error `json:"-"`
}

// Partition splits the mesh between agents, rebalances it and recomputes
// coverage depth.
func (s *Session) Partition(ctx context.Context, agents []partition.AgentSpec) (*PartitionResult, error) {
	ctx = s.context(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mesh == nil {
		return nil, ErrGeometryUnavailable
	}
	logger := ctxlog.FromContext(ctx)

	grown, err := partition.Run(ctx, s.mesh, s.locator, agents)
	if err != nil {
		return nil, fmt.Errorf("failed to partition mesh: %w", err)
	}
	if _, err := coverage.Compute(ctx, s.mesh); err != nil && !errors.Is(err, mesh.ErrIterationLimit) {
		return nil, err
	}
	balanced, err := rebalance.Run(ctx, s.mesh, grown.Quotas)
	if err != nil {
		return nil, fmt.Errorf("failed to rebalance partition: %w", err)
	}
	_, covErr := coverage.Compute(ctx, s.mesh)
	if covErr != nil && !errors.Is(covErr, mesh.ErrIterationLimit) {
		return nil, covErr
	}
	s.quotas = grown.Quotas

	res := &PartitionResult{
		Seeds:     grown.Seeds,
		Quotas:    grown.Quotas,
		Counts:    balanced.Counts,
		Unmet:     balanced.Unmet,
		Released:  balanced.Released,
		Transfers: len(balanced.Transfers),
	}
	for _, e := range grown.SeedErrors {
		res.SeedErrors = append(res.SeedErrors, e.Error())
	}
	res.Status = errors.Join(append(append([]error{}, grown.SeedErrors...), grown.Status, balanced.Status, covErr)...)
	if res.Status != nil {
		logger.Warn("Partition finished with problems.", "error", res.Status)
	}
	logger.Info("🧩 Mesh partitioned.", "agents", len(agents), "counts", res.Counts, "transfers", res.Transfers)

	s.publish(ctx, "", nil)
	return res, nil
}

// PlanToGoal plans a coarse path for agent toward the cell nearest to goal.
// A partial path is returned alongside planner.ErrBranchIsolated.
func (s *Session) PlanToGoal(ctx context.Context, agent int, goal geom.Point) (*planner.Path, error) {
	ctx = s.context(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	cell, ok := s.locator.Nearest(goal)
	if !ok {
		return nil, fmt.Errorf("goal %v: %w", goal, planner.ErrInvalidGoal)
	}
	path, err := planner.ToGoal(ctx, s.mesh, agent, cell)
	if path != nil {
		s.publish(ctx, "goal", planner.Points(path.Waypoints))
	}
	return path, err
}

// PlanFullCoverage recomputes coverage depth and plans a tour of agent's region.
func (s *Session) PlanFullCoverage(ctx context.Context, agent int) (*planner.Tour, error) {
	ctx = s.context(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := coverage.Compute(ctx, s.mesh); err != nil && !errors.Is(err, mesh.ErrIterationLimit) {
		return nil, err
	}
	tour, err := planner.FullCoverage(ctx, s.mesh, agent)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "coverage", planner.Points(tour.Waypoints))
	return tour, nil
}

// Counts returns cells per agent, the pool under mesh.Pool.
func (s *Session) Counts() (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mesh == nil {
		return nil, ErrGeometryUnavailable
	}
	return s.mesh.Counts(), nil
}

// Snapshot copies the current mesh state for read-only inspection.
func (s *Session) Snapshot() ([]mesh.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mesh == nil {
		return nil, ErrGeometryUnavailable
	}
	cells := make([]mesh.Cell, s.mesh.CellCount())
	for id := range cells {
		cells[id] = *s.mesh.At(id)
	}
	return cells, nil
}

func (s *Session) ready() error {
	if s.mesh == nil {
		return ErrGeometryUnavailable
	}
	if s.quotas == nil {
		return ErrNotPartitioned
	}
	return nil
}

// publish paints the mesh, adds an optional trace, and flushes the sink.
// Viewer failures are logged and never fail the operation.
func (s *Session) publish(ctx context.Context, kind string, trace []geom.Point) {
	viz.Paint(s.mesh, s.mode, s.sink, s.centers)
	if len(trace) > 0 {
		s.sink.PushTrace(kind, trace)
	}
	if err := s.sink.Flush(ctx); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to publish frame.", "error", err)
	}
}
