package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridSize  = 64
	DefaultBatchSize = 10
	DefaultCount     = 20
	DefaultAlpha     = 2.5
	DefaultTau       = 7.0
	DefaultViscosity = 1e-3
	DefaultDuration  = 10.0
	DefaultDt        = 1e-4
	DefaultSnapshots = 50
)

type Config struct {
	GridSize  int     `yaml:"grid_size"`
	BatchSize int     `yaml:"batch_size"`
	Count     int     `yaml:"count"`
	Alpha     float64 `yaml:"alpha"`
	Tau       float64 `yaml:"tau"`
	Sigma     float64 `yaml:"sigma"` // 0 means derived from alpha and tau
	Viscosity float64 `yaml:"viscosity"`
	Duration  float64 `yaml:"duration"`
	Dt        float64 `yaml:"dt"`
	Snapshots int     `yaml:"snapshots"`
	Seed      uint64  `yaml:"seed"`
	Forcing   string  `yaml:"forcing"` // "kolmogorov" or "none"
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:  DefaultGridSize,
		BatchSize: DefaultBatchSize,
		Count:     DefaultCount,
		Alpha:     DefaultAlpha,
		Tau:       DefaultTau,
		Viscosity: DefaultViscosity,
		Duration:  DefaultDuration,
		Dt:        DefaultDt,
		Snapshots: DefaultSnapshots,
		Forcing:   "kolmogorov",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("config: grid_size must be positive, got %d", c.GridSize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	if c.Count <= 0 {
		return fmt.Errorf("config: count must be positive, got %d", c.Count)
	}
	if c.Alpha <= 0 || c.Tau <= 0 {
		return fmt.Errorf("config: alpha and tau must be positive, got %g and %g", c.Alpha, c.Tau)
	}
	if c.Viscosity <= 0 {
		return fmt.Errorf("config: viscosity must be positive, got %g", c.Viscosity)
	}
	if c.Duration <= 0 || c.Dt <= 0 {
		return fmt.Errorf("config: duration and dt must be positive, got %g and %g", c.Duration, c.Dt)
	}
	if c.Snapshots < 1 {
		return fmt.Errorf("config: snapshots must be at least 1, got %d", c.Snapshots)
	}
	if c.Forcing != "" && c.Forcing != "kolmogorov" && c.Forcing != "none" {
		return fmt.Errorf("config: unknown forcing %q", c.Forcing)
	}
	return nil
}

// ReynoldsNumber reports the characteristic Reynolds number implied by the
// Kolmogorov forcing amplitude and the configured viscosity,
// √0.1 / ((2π)^(3/2)·ν).
func (c *Config) ReynoldsNumber() float64 {
	return math.Sqrt(0.1) / (math.Pow(2*math.Pi, 1.5) * c.Viscosity)
}
