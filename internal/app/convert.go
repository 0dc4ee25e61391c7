package app

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"github.com/specialistvlad/meshplan/internal/partition"
)

// point maps [latitude, longitude] onto X and Y.
func point(c config.Coordinate) geom.Point {
	return geom.Point{X: c[0], Y: c[1]}
}

func points(cs []config.Coordinate) []geom.Point {
	out := make([]geom.Point, len(cs))
	for i, c := range cs {
		out[i] = point(c)
	}
	return out
}

func toRegion(r *config.Region) mesh.Region {
	region := mesh.Region{Boundary: points(r.Boundary)}
	for _, h := range r.Holes {
		region.Holes = append(region.Holes, mesh.Hole{Points: points(h.Points), Seed: point(h.Seed)})
	}
	if r.Mesh != nil {
		region.Criteria = mesh.Criteria{MinAngle: r.Mesh.MinAngle, MaxEdge: r.Mesh.MaxEdge, Smoothing: r.Mesh.Smoothing}
	}
	return region
}

func toSpecs(agents []*config.Agent) ([]partition.AgentSpec, error) {
	specs := make([]partition.AgentSpec, len(agents))
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent %d is empty: %w", i+1, config.ErrInvalid)
		}
		specs[i] = partition.AgentSpec{Seed: point(a.Seed), Percent: a.Quota}
	}
	return specs, nil
}
