package viz

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/meshplan/internal/coverage"
	"github.com/specialistvlad/meshplan/internal/mesh"
)

// Mode selects what the cell colours show.
type Mode string

const (
	// ModeTask shades each region by distance from its seed.
	ModeTask Mode = "task"
	// ModeCoverage shades cells by coverage depth.
	ModeCoverage Mode = "coverage"
	// ModePartition gives every agent a flat colour.
	ModePartition Mode = "partition"
	// ModeBorders highlights cells on region borders.
	ModeBorders Mode = "borders"
)

// ParseMode validates a mode name. An empty name selects ModePartition.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case "":
		return ModePartition, nil
	case ModeTask, ModeCoverage, ModePartition, ModeBorders:
		return m, nil
	default:
		return "", fmt.Errorf("unknown display mode %q", s)
	}
}

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

func (c Color) scale(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

var (
	palette = []Color{
		{R: 0.90, G: 0.30, B: 0.24, A: 1},
		{R: 0.20, G: 0.60, B: 0.86, A: 1},
		{R: 0.18, G: 0.80, B: 0.44, A: 1},
		{R: 0.95, G: 0.77, B: 0.06, A: 1},
		{R: 0.61, G: 0.35, B: 0.71, A: 1},
		{R: 0.90, G: 0.49, B: 0.13, A: 1},
		{R: 0.10, G: 0.74, B: 0.61, A: 1},
		{R: 0.91, G: 0.12, B: 0.55, A: 1},
	}
	poolColor = Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	seedColor = Color{R: 1, G: 1, B: 1, A: 1}
)

// AgentColor returns the flat colour of an agent. The pool is grey.
func AgentColor(agent int) Color {
	if agent <= 0 {
		return poolColor
	}
	return palette[(agent-1)%len(palette)]
}

// ColorOf returns the colour of a cell in the given mode. maxDepth is the
// largest depth of any owned cell and scales ModeTask shading.
func ColorOf(m *mesh.Mesh, id int, mode Mode, maxDepth int) Color {
	c := m.At(id)
	if c.IsSeed() {
		return seedColor
	}
	base := AgentColor(c.Agent)
	switch mode {
	case ModeTask:
		if c.Agent <= 0 || maxDepth <= 1 {
			return base
		}
		return base.scale(1 - 0.7*float64(c.Depth-1)/float64(maxDepth-1))
	case ModeCoverage:
		level := float64(c.CoverageDepth) / coverage.Max
		if level > 1 {
			level = 1
		}
		return Color{R: level, G: level, B: 1 - level, A: 1}
	case ModeBorders:
		if m.IsBorder(id) {
			return base.scale(0.4)
		}
		return base
	default:
		return base
	}
}

// Paint pushes every in-domain cell and every region border edge to sink.
// With centers set, cell centres are labelled too. It does not flush.
func Paint(m *mesh.Mesh, mode Mode, sink Sink, centers bool) {
	maxDepth := 0
	for id := 0; id < m.CellCount(); id++ {
		if c := m.At(id); c.Owned() && c.Depth > maxDepth {
			maxDepth = c.Depth
		}
	}
	for id := 0; id < m.CellCount(); id++ {
		c := m.At(id)
		if !c.InDomain {
			continue
		}
		sink.PushTriangle(c.Vertices, ColorOf(m, id, mode, maxDepth))
		if centers {
			sink.PushCenter(c.Center, id)
		}
		for slot, nb := range c.Neighbors {
			other := m.At(nb)
			// Shared edges are pushed once, from the lower id.
			if other.Agent == c.Agent || (other.InDomain && nb < id) {
				continue
			}
			a, b := m.Edge(id, slot)
			sink.PushBorderEdge(a, b)
		}
	}
}
