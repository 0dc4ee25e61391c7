// Package yaml_adapter loads mission files written in YAML into the
// format-agnostic config model. Its documents mirror the HCL blocks:
//
//	region:
//	  name: field
//	  boundary: [[0, 0], [0, 10], [6, 10], [6, 0]]
//	  mesh: {max_edge: 1.0}
//	agents:
//	  - {name: uav1, seed: [0.5, 0.5], quota: 50}
//	plans:
//	  - {kind: coverage, name: survey, agent: uav1}
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/meshplan/internal/config"
	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/specialistvlad/meshplan/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .yaml and .yml file under paths. Unknown keys are
// rejected.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		part, err := decodeFile(file)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(part); err != nil {
			return nil, fmt.Errorf("in YAML file %s: %w", file, err)
		}
	}
	return model, nil
}

func decodeFile(path string) (*config.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML file %s: %w", path, err)
	}
	defer f.Close()

	var part config.Model
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&part); err != nil {
		if errors.Is(err, io.EOF) {
			return &part, nil
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return &part, nil
}
