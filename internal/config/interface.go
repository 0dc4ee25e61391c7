package config

import (
	"context"
	"fmt"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every file of its format found under paths and translates
	// them into the format-agnostic model. Files of other formats are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// chain merges the models of several loaders.
type chain []Loader

// Chain returns a Loader that runs every loader over the same paths and
// merges their models.
func Chain(loaders ...Loader) Loader {
	return chain(loaders)
}

// Load implements Loader.
func (c chain) Load(ctx context.Context, paths ...string) (*Model, error) {
	merged := &Model{}
	for _, l := range c {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(m); err != nil {
			return nil, fmt.Errorf("failed to merge configuration: %w", err)
		}
	}
	return merged, nil
}
