package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/mission"
	"github.com/specialistvlad/meshplan/internal/planner"
	"github.com/specialistvlad/meshplan/internal/session"
)

// PlanOutcome summarises one executed plan block.
type PlanOutcome struct {
	Kind      string
	Name      string
	Agent     int
	Waypoints int
	Length    float64
	File      string
	Upload    string
	// Err is non-fatal: an isolated goal branch still yields a partial path.
	Err error
}

// Report is the outcome of a batch run.
type Report struct {
	Region    *session.RegionInfo
	Partition *session.PartitionResult
	Plans     []PlanOutcome
}

// Run executes the application in the mode selected by its configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.close()

	if a.config.Listen != "" {
		return a.serve(ctx)
	}

	report, err := a.runMission(ctx)
	if err != nil {
		return err
	}
	for _, p := range report.Plans {
		a.logger.Info("Plan finished.", "kind", p.Kind, "name", p.Name, "waypoints", p.Waypoints, "length", p.Length, "file", p.File)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// runMission meshes the region, partitions it and executes every plan block
// in declaration order.
func (a *App) runMission(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	if a.model.Region == nil {
		return nil, fmt.Errorf("no region defined: %w", config.ErrInvalid)
	}

	info, err := a.session.DefineRegion(ctx, toRegion(a.model.Region))
	if err != nil {
		return nil, err
	}
	logger.Info("🗺️ Region ready.", "region", a.model.Region.Name, "cells", info.Cells, "in_domain", info.InDomain)

	if len(a.model.Agents) == 0 {
		logger.Warn("No agents defined, nothing to partition.")
		return &Report{Region: info}, nil
	}
	specs, err := toSpecs(a.model.Agents)
	if err != nil {
		return nil, err
	}
	result, err := a.session.Partition(ctx, specs)
	if err != nil {
		return nil, err
	}
	report := &Report{Region: info, Partition: result}

	if len(a.model.Plans) > 0 {
		if err := os.MkdirAll(a.config.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	for _, p := range a.model.Plans {
		outcome, err := a.runPlan(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("plan %s.%s: %w", p.Kind, p.Name, err)
		}
		report.Plans = append(report.Plans, *outcome)
	}
	return report, nil
}

func (a *App) runPlan(ctx context.Context, p *config.Plan) (*PlanOutcome, error) {
	logger := ctxlog.FromContext(ctx).With("plan", p.Name, "kind", p.Kind)
	agent, _ := a.model.AgentIndex(p.Agent)
	outcome := &PlanOutcome{Kind: p.Kind, Name: p.Name, Agent: agent}

	var waypoints []planner.Waypoint
	switch p.Kind {
	case config.PlanGoal:
		path, err := a.session.PlanToGoal(ctx, agent, point(*p.Goal))
		if err != nil && !errors.Is(err, planner.ErrBranchIsolated) {
			return nil, err
		}
		if err != nil {
			logger.Warn("Goal branch isolated, keeping partial path.", "error", err)
			outcome.Err = err
		}
		waypoints = path.Waypoints
	case config.PlanCoverage:
		tour, err := a.session.PlanFullCoverage(ctx, agent)
		if err != nil {
			return nil, err
		}
		waypoints = tour.Waypoints
	default:
		return nil, fmt.Errorf("unknown plan kind %q: %w", p.Kind, config.ErrInvalid)
	}
	outcome.Waypoints = len(waypoints)
	outcome.Length = planner.Length(waypoints)

	// Goal plans only produce a file when one is asked for.
	if p.Kind == config.PlanGoal && p.Output == "" {
		return outcome, nil
	}

	home := point(a.model.Agents[agent-1].Seed)
	if p.Home != nil {
		home = point(*p.Home)
	}
	file, err := a.writeMission(p, home, planner.Points(waypoints))
	if err != nil {
		return nil, err
	}
	outcome.File = file
	logger.Info("📝 Mission file written.", "file", file, "waypoints", len(waypoints))

	if p.UploadURL != "" {
		status, err := a.uploader.Upload(ctx, file, p.UploadURL)
		if err != nil {
			return nil, err
		}
		outcome.Upload = status
	}
	return outcome, nil
}

func (a *App) writeMission(p *config.Plan, home geom.Point, waypoints []geom.Point) (string, error) {
	name := p.Output
	if name == "" {
		name = fmt.Sprintf("%s-%s.waypoints", a.session.ID(), p.Name)
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(a.config.OutDir, name)
	}
	items := mission.Build(home, waypoints, mission.DefaultOptions())
	if err := mission.WriteFile(name, items); err != nil {
		return "", err
	}
	return name, nil
}
