package config

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLoader struct {
	model *Model
	err   error
}

func (s staticLoader) Load(context.Context, ...string) (*Model, error) { return s.model, s.err }

func validModel() *Model {
	return &Model{
		Region: &Region{Name: "field", Boundary: []Coordinate{{0, 0}, {1, 0}, {1, 1}}, Mesh: &MeshCriteria{MaxEdge: 1}},
		Agents: []*Agent{{Name: "a", Quota: 50}, {Name: "b", Quota: 50}},
		Plans: []*Plan{
			{Kind: PlanCoverage, Name: "survey", Agent: "b"},
			{Kind: PlanGoal, Name: "inspect", Agent: "a", Goal: &Coordinate{0.5, 0.5}},
		},
	}
}

func TestModel_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(m *Model)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Model) {}},
		{name: "no region", mutate: func(m *Model) { m.Region = nil }, wantErr: true},
		{name: "no mesh", mutate: func(m *Model) { m.Region.Mesh = nil }, wantErr: true},
		{name: "unknown agent", mutate: func(m *Model) { m.Plans[0].Agent = "zed" }, wantErr: true},
		{name: "goal without goal", mutate: func(m *Model) { m.Plans[1].Goal = nil }, wantErr: true},
		{name: "unknown kind", mutate: func(m *Model) { m.Plans[0].Kind = "orbit" }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validModel()
			tc.mutate(m)

			err := m.Validate()

			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModel_AgentIndex(t *testing.T) {
	t.Parallel()

	m := validModel()

	idx, ok := m.AgentIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = m.AgentIndex("nope")
	assert.False(t, ok)
}

func TestChain_MergesModels(t *testing.T) {
	t.Parallel()

	// Arrange
	full := validModel()
	first := &Model{Region: full.Region, Agents: full.Agents[:1]}
	second := &Model{Agents: full.Agents[1:], Plans: full.Plans}

	// Act
	got, err := Chain(staticLoader{model: first}, staticLoader{model: second}).Load(context.Background())

	// Assert
	require.NoError(t, err)
	if diff := cmp.Diff(full, got); diff != "" {
		t.Errorf("merged model mismatch (-want +got):\n%s", diff)
	}
}

func TestChain_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Chain(staticLoader{err: boom}).Load(context.Background())
	assert.ErrorIs(t, err, boom)

	dup := &Model{Agents: []*Agent{{Name: "a"}}}
	_, err = Chain(staticLoader{model: dup}, staticLoader{model: dup}).Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)

	region := &Model{Region: &Region{Name: "r"}}
	_, err = Chain(staticLoader{model: region}, staticLoader{model: region}).Load(context.Background())
	assert.ErrorIs(t, err, ErrInvalid)
}
