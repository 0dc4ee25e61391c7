package config

import (
	"errors"
	"fmt"
)

// Plan kinds.
const (
	PlanGoal     = "goal"
	PlanCoverage = "coverage"
)

// ErrInvalid marks configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Coordinate is a [latitude, longitude] pair.
type Coordinate [2]float64

// Model is the unified, format-agnostic representation of a mission file set.
type Model struct {
	Region        *Region        `json:"region,omitempty" yaml:"region"`
	Agents        []*Agent       `json:"agents,omitempty" yaml:"agents"`
	Plans         []*Plan        `json:"plans,omitempty" yaml:"plans"`
	Visualization *Visualization `json:"visualization,omitempty" yaml:"visualization"`
}

// Region is the area to partition.
type Region struct {
	Name     string        `json:"name" yaml:"name"`
	Boundary []Coordinate  `json:"boundary" yaml:"boundary"`
	Holes    []*Hole       `json:"holes,omitempty" yaml:"holes"`
	Mesh     *MeshCriteria `json:"mesh,omitempty" yaml:"mesh"`
}

// Hole is an area inside the region that no agent covers.
type Hole struct {
	Name   string       `json:"name" yaml:"name"`
	Points []Coordinate `json:"points" yaml:"points"`
	Seed   Coordinate   `json:"seed" yaml:"seed"`
}

// MeshCriteria bounds the triangulation.
type MeshCriteria struct {
	MinAngle  float64 `json:"min_angle" yaml:"min_angle"`
	MaxEdge   float64 `json:"max_edge" yaml:"max_edge"`
	Smoothing int     `json:"smoothing" yaml:"smoothing"`
}

// Agent is one vehicle. Agents are numbered from 1 in declaration order.
type Agent struct {
	Name  string     `json:"name" yaml:"name"`
	Seed  Coordinate `json:"seed" yaml:"seed"`
	Quota float64    `json:"quota" yaml:"quota"`
}

// Plan requests a path for one agent.
type Plan struct {
	Kind      string      `json:"kind" yaml:"kind"`
	Name      string      `json:"name" yaml:"name"`
	Agent     string      `json:"agent" yaml:"agent"`
	Goal      *Coordinate `json:"goal,omitempty" yaml:"goal"`
	Home      *Coordinate `json:"home,omitempty" yaml:"home"`
	Output    string      `json:"output,omitempty" yaml:"output"`
	UploadURL string      `json:"upload_url,omitempty" yaml:"upload_url"`
}

// Visualization configures the socket.io viewer.
type Visualization struct {
	URL       string `json:"url" yaml:"url"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace"`
	Mode      string `json:"mode,omitempty" yaml:"mode"`
	Timeout   string `json:"timeout,omitempty" yaml:"timeout"`
	Centers   bool   `json:"centers,omitempty" yaml:"centers"`
}

// AgentIndex returns the 1-based id of the named agent.
func (m *Model) AgentIndex(name string) (int, bool) {
	for i, a := range m.Agents {
		if a.Name == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Merge adds the contents of other to m. A second region or visualization
// block, or a repeated agent or plan name, is an error.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.Region != nil {
		if m.Region != nil {
			return fmt.Errorf("region %q defined twice (already have %q): %w", other.Region.Name, m.Region.Name, ErrInvalid)
		}
		m.Region = other.Region
	}
	if other.Visualization != nil {
		if m.Visualization != nil {
			return fmt.Errorf("visualization defined twice: %w", ErrInvalid)
		}
		m.Visualization = other.Visualization
	}
	for _, a := range other.Agents {
		if _, dup := m.AgentIndex(a.Name); dup {
			return fmt.Errorf("agent %q defined twice: %w", a.Name, ErrInvalid)
		}
		m.Agents = append(m.Agents, a)
	}
	for _, p := range other.Plans {
		for _, existing := range m.Plans {
			if existing.Kind == p.Kind && existing.Name == p.Name {
				return fmt.Errorf("plan %s.%s defined twice: %w", p.Kind, p.Name, ErrInvalid)
			}
		}
		m.Plans = append(m.Plans, p)
	}
	return nil
}

// Validate checks cross references the loaders cannot see within one file.
func (m *Model) Validate() error {
	if m.Region == nil {
		return fmt.Errorf("no region defined: %w", ErrInvalid)
	}
	if m.Region.Mesh == nil {
		return fmt.Errorf("region %q has no mesh criteria: %w", m.Region.Name, ErrInvalid)
	}
	for _, p := range m.Plans {
		if _, ok := m.AgentIndex(p.Agent); !ok {
			return fmt.Errorf("plan %s.%s references unknown agent %q: %w", p.Kind, p.Name, p.Agent, ErrInvalid)
		}
		switch p.Kind {
		case PlanGoal:
			if p.Goal == nil {
				return fmt.Errorf("goal plan %q has no goal: %w", p.Name, ErrInvalid)
			}
		case PlanCoverage:
		default:
			return fmt.Errorf("plan %q has unknown kind %q: %w", p.Name, p.Kind, ErrInvalid)
		}
	}
	return nil
}
