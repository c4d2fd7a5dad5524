// Package config loads optional TOML defaults for the CLI. Flags given
// explicitly on the command line always win over file values.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"pulsekit/internal/cli"
)

// File mirrors the tunable subset of cli.Options.
type File struct {
	BaselineSamples int    `toml:"baseline_samples"`
	Threshold       *int   `toml:"threshold"`
	ChunkSize       int    `toml:"chunk_size"`
	Threads         int    `toml:"threads"`
	Output          string `toml:"output"`
	CheckLinks      bool   `toml:"check_links"`
}

// Load parses a TOML defaults file.
func Load(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := toml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Apply copies file values into opts for every flag the user did not set on
// the command line. set reports whether a flag name was given explicitly.
func Apply(f File, opts *cli.Options, set func(name string) bool) {
	if f.BaselineSamples > 0 && !set("baseline-samples") {
		opts.BaselineSamples = f.BaselineSamples
	}
	// Threshold is a pointer: zero and negative thresholds are meaningful.
	if f.Threshold != nil && !set("threshold") {
		opts.Threshold = *f.Threshold
	}
	if f.ChunkSize > 0 && !set("chunk-size") {
		opts.ChunkSize = f.ChunkSize
	}
	if f.Threads > 0 && !set("threads") {
		opts.Threads = f.Threads
	}
	if f.Output != "" && !set("output") {
		opts.Output = f.Output
	}
	if f.CheckLinks && !set("check-links") {
		opts.CheckLinks = true
	}
}
