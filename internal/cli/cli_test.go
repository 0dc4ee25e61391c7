package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/meshplan/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		want       *app.Config
		wantExit   bool
		wantCode   int
		wantOutput string
	}{
		{
			name: "positional path with defaults",
			args: []string{"missions/field.hcl"},
			want: &app.Config{MissionPath: "missions/field.hcl", OutDir: ".", LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "long flag wins over shorthand and positional",
			args: []string{"-mission", "a.hcl", "-m", "b.hcl", "c.hcl"},
			want: &app.Config{MissionPath: "a.hcl", OutDir: ".", LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "all options",
			args: []string{"-m", "dir", "-out-dir", "out", "-viz-url", "http://localhost:3000", "-log-format", "TEXT", "-log-level", "Debug"},
			want: &app.Config{MissionPath: "dir", OutDir: "out", VizURL: "http://localhost:3000", LogFormat: "text", LogLevel: "debug"},
		},
		{
			name: "listen without mission",
			args: []string{"-listen", ":8080"},
			want: &app.Config{Listen: ":8080", OutDir: ".", LogFormat: "json", LogLevel: "info"},
		},
		{
			name:       "no arguments prints usage",
			args:       []string{},
			wantExit:   true,
			wantOutput: "Usage:",
		},
		{
			name:       "help flag",
			args:       []string{"-h"},
			wantExit:   true,
			wantOutput: "MISSION_PATH",
		},
		{
			name:     "bad log format",
			args:     []string{"-log-format", "xml", "m.hcl"},
			wantCode: 2,
		},
		{
			name:     "bad log level",
			args:     []string{"-log-level", "trace", "m.hcl"},
			wantCode: 2,
		},
		{
			name:     "unknown flag",
			args:     []string{"-workers", "4"},
			wantCode: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			got, shouldExit, err := Parse(tc.args, out)

			if tc.wantCode != 0 {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantExit, shouldExit)
			if tc.wantOutput != "" {
				require.Contains(t, out.String(), tc.wantOutput)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
