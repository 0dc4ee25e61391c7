// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
)

func (l *Loader) translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	model := &config.Model{}
	for _, r := range root.Regions {
		region, err := l.translateRegion(ctx, r)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(&config.Model{Region: region}); err != nil {
			return nil, err
		}
	}
	for _, a := range root.Agents {
		seed, err := decodeCoordinate(a.Seed)
		if err != nil {
			return nil, fmt.Errorf("agent %q seed: %w", a.Name, err)
		}
		model.Agents = append(model.Agents, &config.Agent{Name: a.Name, Seed: seed, Quota: a.Quota})
	}
	for _, p := range root.Plans {
		plan, err := l.translatePlan(p)
		if err != nil {
			return nil, err
		}
		model.Plans = append(model.Plans, plan)
	}
	for _, v := range root.Visualizations {
		viz := config.Visualization(*v)
		if err := model.Merge(&config.Model{Visualization: &viz}); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// translateRegion converts the HCL-specific region schema into the agnostic model.
func (l *Loader) translateRegion(ctx context.Context, r *Region) (*config.Region, error) {
	logger := ctxlog.FromContext(ctx).With("region", r.Name)
	logger.Debug("Translating HCL region to internal config model.")

	boundary, err := decodeCoordinates(r.Boundary)
	if err != nil {
		return nil, fmt.Errorf("region %q boundary: %w", r.Name, err)
	}
	region := &config.Region{Name: r.Name, Boundary: boundary}

	for _, h := range r.Holes {
		points, err := decodeCoordinates(h.Points)
		if err != nil {
			return nil, fmt.Errorf("region %q hole %q points: %w", r.Name, h.Name, err)
		}
		seed, err := decodeCoordinate(h.Seed)
		if err != nil {
			return nil, fmt.Errorf("region %q hole %q seed: %w", r.Name, h.Name, err)
		}
		region.Holes = append(region.Holes, &config.Hole{Name: h.Name, Points: points, Seed: seed})
	}

	if r.Mesh != nil {
		region.Mesh = &config.MeshCriteria{MaxEdge: r.Mesh.MaxEdge}
		if r.Mesh.MinAngle != nil {
			region.Mesh.MinAngle = *r.Mesh.MinAngle
		}
		if r.Mesh.Smoothing != nil {
			region.Mesh.Smoothing = *r.Mesh.Smoothing
		}
	} else {
		logger.Debug("Region has no mesh block.")
	}
	return region, nil
}

func (l *Loader) translatePlan(p *Plan) (*config.Plan, error) {
	goal, err := decodeOptionalCoordinate(p.Goal)
	if err != nil {
		return nil, fmt.Errorf("plan %s.%s goal: %w", p.Kind, p.Name, err)
	}
	home, err := decodeOptionalCoordinate(p.Home)
	if err != nil {
		return nil, fmt.Errorf("plan %s.%s home: %w", p.Kind, p.Name, err)
	}
	return &config.Plan{
		Kind:      p.Kind,
		Name:      p.Name,
		Agent:     p.Agent,
		Goal:      goal,
		Home:      home,
		Output:    p.Output,
		UploadURL: p.UploadURL,
	}, nil
}
