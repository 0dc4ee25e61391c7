package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/meshplan/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("meshplan", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
meshplan - Area partitioning and coverage path planning for vehicle fleets.

Usage:
  meshplan [options] [MISSION_PATH]
  meshplan -listen :8080

Arguments:
  MISSION_PATH
    Path to a .hcl or .yaml mission file, or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	missionFlag := flagSet.String("mission", "", "Path to the mission file or directory.")
	mFlag := flagSet.String("m", "", "Path to the mission file or directory (shorthand).")
	outDirFlag := flagSet.String("out-dir", ".", "Directory for generated mission files.")
	listenFlag := flagSet.String("listen", "", "Serve the planning HTTP API on this address instead of running the mission.")
	vizURLFlag := flagSet.String("viz-url", "", "Socket.io viewer URL. Overrides the mission's visualization block.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *missionFlag != "" {
		path = *missionFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Mission path determined.", "path", path)

	if path == "" && *listenFlag == "" {
		slog.Debug("No mission path or listen address provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		MissionPath: path,
		OutDir:      *outDirFlag,
		Listen:      *listenFlag,
		VizURL:      *vizURLFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
