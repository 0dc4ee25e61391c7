package mission_test

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/specialistvlad/meshplan/internal/mission"
	"github.com/specialistvlad/meshplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	// Arrange
	home := geom.Point{X: 37.5, Y: 23.25}
	wps := []geom.Point{{X: 37.51, Y: 23.26}, {X: 37.52, Y: 23.27}}

	// Act
	items := mission.Build(home, wps, mission.Options{})

	// Assert
	require.Len(t, items, 5)
	assert.True(t, items[0].Current)
	assert.Equal(t, mission.CmdNavWaypoint, items[0].Command)
	assert.Equal(t, 585.0, items[0].Altitude)
	assert.Equal(t, mission.CmdNavTakeoff, items[1].Command)
	assert.Equal(t, wps[0].X, items[1].Latitude)
	assert.Equal(t, 100.0, items[2].Altitude)
	last := items[4]
	assert.Equal(t, mission.CmdNavLand, last.Command)
	assert.Equal(t, [4]float64{480, 0, 0, 25}, last.Params)
	assert.Equal(t, home.Y, last.Longitude)
	for i, it := range items {
		assert.Equal(t, i, it.Seq)
		assert.True(t, it.AutoContinue)
	}
}

func TestBuild_NoWaypointsSkipsTakeoff(t *testing.T) {
	t.Parallel()

	items := mission.Build(geom.Point{}, nil, mission.Options{CruiseAltitude: 50})

	require.Len(t, items, 2)
	assert.Equal(t, mission.CmdNavLand, items[1].Command)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	// Arrange
	items := mission.Build(geom.Point{X: 1.123456789, Y: 2}, []geom.Point{{X: 1.5, Y: 2.5}}, mission.Options{})
	var buf bytes.Buffer

	// Act
	require.NoError(t, mission.Write(&buf, items))

	// Assert
	want := strings.Join([]string{
		"QGC WPL 110",
		"0\t1\t0\t16\t0\t0\t0\t0\t1.1234568\t2.0000000\t585\t1",
		"1\t0\t3\t22\t15\t0\t0\t0\t1.5000000\t2.5000000\t100\t1",
		"2\t0\t3\t16\t0\t0\t0\t0\t1.5000000\t2.5000000\t100\t1",
		"3\t0\t0\t21\t480\t0\t0\t25\t1.1234568\t2.0000000\t580\t1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestUpload(t *testing.T) {
	t.Parallel()

	// Arrange
	type captured struct{ method, contentType, body string }
	got := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got <- captured{method: r.Method, contentType: r.Header.Get("Content-Type"), body: string(b)}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "plan.txt")
	require.NoError(t, mission.WriteFile(path, mission.Build(geom.Point{}, nil, mission.Options{})))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Act
	status, err := mission.NewUploader(srv.Client()).Upload(testutil.Context(t), path, srv.URL+"/bucket/plan.txt?sig=abc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "200 OK", status)
	req := <-got
	wantType := mime.TypeByExtension(".txt")
	if wantType == "" {
		wantType = "application/octet-stream"
	}
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, wantType, req.contentType)
	assert.Equal(t, string(raw), req.body)
}

func TestUpload_AnySuccessStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		want string
	}{
		{name: "created", code: http.StatusCreated, want: "201 Created"},
		{name: "no content", code: http.StatusNoContent, want: "204 No Content"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tc.code)
			}))
			defer srv.Close()
			path := filepath.Join(t.TempDir(), "plan.txt")
			require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

			// Act
			status, err := mission.NewUploader(srv.Client()).Upload(testutil.Context(t), path, srv.URL)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestUpload_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := mission.NewUploader(srv.Client()).Upload(testutil.Context(t), path, srv.URL)

	assert.ErrorContains(t, err, "403")
}

func TestUpload_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := mission.NewUploader(nil).Upload(testutil.Context(t), filepath.Join(t.TempDir(), "nope.txt"), "http://127.0.0.1:1")

	assert.ErrorContains(t, err, "failed to open source file")
}
