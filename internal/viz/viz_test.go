package viz_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/testutil"
	"github.com/specialistvlad/meshplan/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, testutil.LeakOptions()...)
}

func TestPaint_BordersAndTriangles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		split       int
		wantBorders int
	}{
		{name: "single agent", split: 2, wantBorders: 8},
		{name: "two agents", split: 1, wantBorders: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			m := testutil.Lattice(t, 2, 2)
			for j := 0; j < 2; j++ {
				for i := 0; i < 2; i++ {
					agent := 1
					if i >= tc.split {
						agent = 2
					}
					m.At(testutil.Lower(2, i, j)).Agent = agent
					m.At(testutil.Upper(2, i, j)).Agent = agent
				}
			}
			rec := viz.NewRecorder()

			// Act
			viz.Paint(m, viz.ModeBorders, rec, true)
			require.NoError(t, rec.Flush(context.Background()))

			// Assert
			frame, ok := rec.Last()
			require.True(t, ok)
			assert.Len(t, frame.Triangles, 8)
			assert.Len(t, frame.Centers, 8)
			assert.Len(t, frame.Borders, tc.wantBorders)
		})
	}
}

func TestColorOf(t *testing.T) {
	t.Parallel()

	m := testutil.Lattice(t, 2, 1)
	seed, other := m.At(0), m.At(1)
	seed.Agent, seed.Depth = 1, 1
	other.Agent, other.Depth = 1, 2

	assert.Equal(t, viz.Color{R: 1, G: 1, B: 1, A: 1}, viz.ColorOf(m, 0, viz.ModePartition, 2))
	assert.Equal(t, viz.AgentColor(1), viz.ColorOf(m, 1, viz.ModePartition, 2))
	assert.Equal(t, viz.AgentColor(0), viz.ColorOf(m, 2, viz.ModePartition, 2))
	assert.Less(t, viz.ColorOf(m, 1, viz.ModeTask, 2).R, viz.AgentColor(1).R)
	assert.Equal(t, viz.AgentColor(1), viz.AgentColor(9))
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    viz.Mode
		wantErr bool
	}{
		{in: "", want: viz.ModePartition},
		{in: "Task", want: viz.ModeTask},
		{in: "coverage", want: viz.ModeCoverage},
		{in: "borders", want: viz.ModeBorders},
		{in: "rainbow", wantErr: true},
	}
	for _, tc := range tests {
		got, err := viz.ParseMode(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestRecorder_FramesAreSeparated(t *testing.T) {
	t.Parallel()

	// Arrange
	rec := viz.NewRecorder()
	ctx := context.Background()

	// Act
	rec.PushTrace("goal", []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}})
	require.NoError(t, rec.Flush(ctx))
	require.NoError(t, rec.Flush(ctx))

	// Assert
	frames := rec.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []viz.Trace{{Kind: "goal", Points: []viz.Vec{{1, 2}, {3, 4}}}}, frames[0].Traces)
	assert.True(t, frames[1].Empty())

	raw, err := json.Marshal(frames[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"borders":null,"centers":null,"triangles":null,"traces":[{"kind":"goal","points":[[1,2],[3,4]]}]}`, string(raw))
}

func TestNewSocketSink(t *testing.T) {
	t.Parallel()

	_, err := viz.NewSocketSink(viz.SocketOptions{URL: "not a url"})
	assert.Error(t, err)

	sink, err := viz.NewSocketSink(viz.SocketOptions{URL: "http://localhost:3000/socket.io/"})
	require.NoError(t, err)
	// An empty frame never opens a connection.
	assert.NoError(t, sink.Flush(context.Background()))
	sink.Close()
}
