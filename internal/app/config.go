package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	MissionPath string // .hcl / .yaml files or a directory of them
	OutDir      string // where mission files are written
	Listen      string // serve the HTTP API on this address instead of a batch run
	VizURL      string // overrides the visualization block's url

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.MissionPath == "" && cfg.Listen == "" {
		return nil, errors.New("MissionPath is required unless Listen is set")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	return &cfg, nil
}
