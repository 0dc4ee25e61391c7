// Package config defines the format-agnostic mission model and the Loader
// interface that turns configuration files into it.
//
// The Model is the single source of truth for the app package. Concrete
// loaders for HCL and YAML live in separate adapter packages.
package config
