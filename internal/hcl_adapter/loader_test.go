package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/stretchr/testify/require"
)

const missionHCL = `
region "field" {
  boundary = [[0, 0], [0, 10], [6, 10], [6, 0]]
  hole "pond" {
    points = [[2, 2], [2, 3], [3, 3], [3, 2]]
    seed   = [2.5, 2.5]
  }
  mesh {
    min_angle = 20
    max_edge  = 1.0
    smoothing = 20
  }
}

agent "uav1" {
  seed  = [0.5, 0.5]
  quota = 50
}

plan "coverage" "survey" {
  agent      = "uav1"
  home       = [0.2, 0.2]
  output     = "uav1.waypoints"
  upload_url = "https://bucket.example/uav1?sig=abc"
}

plan "goal" "inspect" {
  agent = "uav1"
  goal  = [4.5, 8.0]
}

visualization {
  url     = "http://localhost:3000/"
  mode    = "coverage"
  timeout = "5s"
}
`

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FullMission(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "mission.hcl", missionHCL)

	got, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	want := &config.Model{
		Region: &config.Region{
			Name:     "field",
			Boundary: []config.Coordinate{{0, 0}, {0, 10}, {6, 10}, {6, 0}},
			Holes: []*config.Hole{{
				Name:   "pond",
				Points: []config.Coordinate{{2, 2}, {2, 3}, {3, 3}, {3, 2}},
				Seed:   config.Coordinate{2.5, 2.5},
			}},
			Mesh: &config.MeshCriteria{MinAngle: 20, MaxEdge: 1, Smoothing: 20},
		},
		Agents: []*config.Agent{{Name: "uav1", Seed: config.Coordinate{0.5, 0.5}, Quota: 50}},
		Plans: []*config.Plan{
			{
				Kind:      config.PlanCoverage,
				Name:      "survey",
				Agent:     "uav1",
				Home:      &config.Coordinate{0.2, 0.2},
				Output:    "uav1.waypoints",
				UploadURL: "https://bucket.example/uav1?sig=abc",
			},
			{Kind: config.PlanGoal, Name: "inspect", Agent: "uav1", Goal: &config.Coordinate{4.5, 8}},
		},
		Visualization: &config.Visualization{URL: "http://localhost:3000/", Mode: "coverage", Timeout: "5s"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded model mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, got.Validate())
}

func TestLoad_SplitAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "a_region.hcl", `
region "r" {
  boundary = [[0, 0], [0, 1], [1, 1]]
  mesh { max_edge = 0.5 }
}`)
	writeHCL(t, dir, "b_agents.hcl", `
agent "one" {
  seed  = [0.1, 0.1]
  quota = 100
}`)
	writeHCL(t, dir, "notes.yaml", "not: hcl")

	got, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "r", got.Region.Name)
	require.Equal(t, 0.0, got.Region.Mesh.MinAngle)
	require.Len(t, got.Agents, 1)
	require.Nil(t, got.Visualization)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "syntax error",
			content: `agent "a" {`,
			errText: "failed to parse",
		},
		{
			name:    "missing required attribute",
			content: `agent "a" { quota = 10 }`,
			errText: "failed to decode",
		},
		{
			name:    "short coordinate",
			content: "agent \"a\" {\n  seed  = [1]\n  quota = 10\n}\n",
			errText: "got 1 elements",
		},
		{
			name:    "non-numeric coordinate",
			content: "agent \"a\" {\n  seed  = [\"x\", 1]\n  quota = 10\n}\n",
			errText: "element 0",
		},
		{
			name:    "boundary not a list",
			content: `region "r" { boundary = "square" }`,
			errText: "boundary",
		},
		{
			name: "two regions",
			content: `
region "a" { boundary = [[0, 0], [0, 1], [1, 1]] }
region "b" { boundary = [[0, 0], [0, 1], [1, 1]] }`,
			errText: "defined twice",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeHCL(t, dir, "main.hcl", tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errText)
		})
	}
}
