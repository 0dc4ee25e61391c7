// This file contains the gohcl schema structs for mission files. Coordinate
// attributes stay raw expressions so that their shape can be checked with
// precise error messages.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// Region is the HCL schema for a `region "<name>"` block.
type Region struct {
	Name     string         `hcl:"name,label"`
	Boundary hcl.Expression `hcl:"boundary"`
	Holes    []*Hole        `hcl:"hole,block"`
	Mesh     *Mesh          `hcl:"mesh,block"`
}

// Hole is the HCL schema for a `hole "<name>"` block inside a region.
type Hole struct {
	Name   string         `hcl:"name,label"`
	Points hcl.Expression `hcl:"points"`
	Seed   hcl.Expression `hcl:"seed"`
}

// Mesh is the HCL schema for the `mesh` block inside a region.
type Mesh struct {
	MinAngle  *float64 `hcl:"min_angle,optional"`
	MaxEdge   float64  `hcl:"max_edge"`
	Smoothing *int     `hcl:"smoothing,optional"`
}

// Agent is the HCL schema for an `agent "<name>"` block.
type Agent struct {
	Name  string         `hcl:"name,label"`
	Seed  hcl.Expression `hcl:"seed"`
	Quota float64        `hcl:"quota"`
}

// Plan is the HCL schema for a `plan "<kind>" "<name>"` block.
type Plan struct {
	Kind      string         `hcl:"kind,label"`
	Name      string         `hcl:"name,label"`
	Agent     string         `hcl:"agent"`
	Goal      hcl.Expression `hcl:"goal,optional"`
	Home      hcl.Expression `hcl:"home,optional"`
	Output    string         `hcl:"output,optional"`
	UploadURL string         `hcl:"upload_url,optional"`
}

// Visualization is the HCL schema for the `visualization` block.
type Visualization struct {
	URL       string `hcl:"url"`
	Namespace string `hcl:"namespace,optional"`
	Mode      string `hcl:"mode,optional"`
	Timeout   string `hcl:"timeout,optional"`
	Centers   bool   `hcl:"centers,optional"`
}
