package yaml_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestLoad_FullMission(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "region.yaml", `
region:
  name: field
  boundary: [[0, 0], [0, 10], [6, 10], [6, 0]]
  holes:
    - name: pond
      points: [[2, 2], [2, 3], [3, 3], [3, 2]]
      seed: [2.5, 2.5]
  mesh:
    min_angle: 20
    max_edge: 1.0
`)
	writeFile(t, dir, "agents.yml", `
agents:
  - name: uav1
    seed: [0.5, 0.5]
    quota: 60
  - name: uav2
    seed: [5.5, 9.5]
    quota: 40
plans:
  - kind: goal
    name: inspect
    agent: uav2
    goal: [4.5, 8.0]
visualization:
  url: http://localhost:3000/
  mode: coverage
`)
	writeFile(t, dir, "ignored.hcl", `agent "x" {}`)

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	require.Equal(t, "field", m.Region.Name)
	require.Len(t, m.Region.Boundary, 4)
	require.Equal(t, config.Coordinate{2.5, 2.5}, m.Region.Holes[0].Seed)
	require.Equal(t, 1.0, m.Region.Mesh.MaxEdge)
	require.Len(t, m.Agents, 2)
	require.Equal(t, 40.0, m.Agents[1].Quota)
	require.Equal(t, &config.Coordinate{4.5, 8.0}, m.Plans[0].Goal)
	require.Nil(t, m.Plans[0].Home)
	require.Equal(t, "coverage", m.Visualization.Mode)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown key", "region:\n  name: a\n  colour: red\n"},
		{"bad coordinate", "agents:\n  - name: a\n    seed: [1, 2, 3]\n"},
		{"malformed", "agents: [\n"},
		{"duplicate agent", "agents:\n  - name: a\n  - name: a\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "mission.yaml", tc.content)
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "")

	m, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Nil(t, m.Region)
	require.Empty(t, m.Agents)
}
