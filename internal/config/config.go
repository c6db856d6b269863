// Package config loads run settings for the pointcluster command from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TrevorS/pointcluster"
	"github.com/TrevorS/pointcluster/internal/synth"
)

// MethodAll runs every clustering method in turn.
const MethodAll = "all"

// Config is the top-level YAML structure.
type Config struct {
	K             int     `yaml:"k"`
	Method        string  `yaml:"method"`
	MaxIterations int     `yaml:"max_iterations"`
	SampleSize    int     `yaml:"sample_size"`
	Seed          uint64  `yaml:"seed"`
	MaxDistance   float64 `yaml:"max_distance"`

	// Input, when set, is a CSV file read instead of generating points.
	Input string `yaml:"input"`
	// Output, when set, receives the JSON run report.
	Output string `yaml:"output"`
	// PlotDir, when set, receives one HTML scatter chart per method.
	PlotDir string `yaml:"plot_dir"`
	// SavePoints, when set, receives the point set as CSV.
	SavePoints string `yaml:"save_points"`

	Points synth.Config `yaml:"points"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		K:             20,
		Method:        MethodAll,
		MaxIterations: 100,
		Seed:          1,
		MaxDistance:   500,
		Points: synth.Config{
			Seeds:   20,
			Total:   20000,
			X:       synth.Range{Min: -5000, Max: 5000},
			Y:       synth.Range{Min: -5000, Max: 5000},
			XOffset: synth.Range{Min: -100, Max: 100},
			YOffset: synth.Range{Min: -100, Max: 100},
		},
	}
}

// Load reads the YAML file at path on top of Default. If the file does not
// exist, Load returns Default (not an error).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Methods resolves the Method setting into the methods to run.
func (c Config) Methods() ([]pointcluster.Method, error) {
	if c.Method == "" || c.Method == MethodAll {
		return pointcluster.Methods(), nil
	}
	m, err := pointcluster.ParseMethod(c.Method)
	if err != nil {
		return nil, err
	}
	return []pointcluster.Method{m}, nil
}

// Validate checks the settings that are not checked by the clustering or
// generation code itself.
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("config: k must be >= 1, got %d", c.K)
	}
	if c.MaxDistance <= 0 {
		return fmt.Errorf("config: max_distance must be > 0, got %g", c.MaxDistance)
	}
	if _, err := c.Methods(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Input == "" {
		if err := c.Points.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// Cluster returns the clustering settings for method m.
func (c Config) Cluster(m pointcluster.Method) pointcluster.Config {
	cfg := pointcluster.DefaultConfig(c.K)
	cfg.Method = m
	cfg.MaxIterations = c.MaxIterations
	cfg.SampleSize = c.SampleSize
	cfg.Seed = c.Seed
	return cfg
}
