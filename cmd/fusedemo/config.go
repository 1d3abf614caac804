package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional fuse.yaml read by fusedemo.
type Config struct {
	// Story is the story to run, or "all".
	Story string `yaml:"story,omitempty"`

	// Duration is how long the demo runs.
	Duration time.Duration `yaml:"duration,omitempty"`

	// Interval is the timer tick interval.
	Interval time.Duration `yaml:"interval,omitempty"`

	// Control is a file whose contents control an extra timer.
	Control string `yaml:"control,omitempty"`

	// Format is the control file format: "yaml" or "json".
	Format string `yaml:"format,omitempty"`

	// Events prints fuse events as they are emitted.
	Events bool `yaml:"events,omitempty"`
}

// defaults returns the configuration used when nothing is set.
func defaults() Config {
	return Config{
		Story:    "all",
		Duration: 2 * time.Second,
		Interval: 100 * time.Millisecond,
		Format:   "yaml",
	}
}

// LoadOptional reads path if present and overlays it on the defaults.
func LoadOptional(path string) (Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	switch c.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("format must be yaml or json, got %q", c.Format)
	}
	return nil
}
