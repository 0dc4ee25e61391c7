// Package planner builds waypoint sequences over a partitioned mesh: a
// coarse path from an agent's seed to a goal cell, and a tour that covers
// an agent's whole region from the border inward.
package planner

import (
	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/mesh"
	"gonum.org/v1/gonum/floats"
)

// Waypoint is a cell visited by a plan.
type Waypoint struct {
	Cell   int        `json:"cell"`
	Center geom.Point `json:"center"`
}

func waypoint(m *mesh.Mesh, id int) Waypoint {
	return Waypoint{Cell: id, Center: m.Center(id)}
}

// Points returns the waypoint centres in order.
func Points(wps []Waypoint) []geom.Point {
	pts := make([]geom.Point, len(wps))
	for i, w := range wps {
		pts[i] = w.Center
	}
	return pts
}

// Length returns the planar length of the polyline through the waypoints.
func Length(wps []Waypoint) float64 {
	total := 0.0
	for i := 1; i < len(wps); i++ {
		a, b := wps[i-1].Center, wps[i].Center
		total += floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
	}
	return total
}
