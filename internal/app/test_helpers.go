package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Logs are
// printed when the test fails or MESHPLAN_TEST_LOGS=true.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(logBuffer, appConfig, loader)

	t.Cleanup(func() {
		testApp.close()
		if t.Failed() || os.Getenv("MESHPLAN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
