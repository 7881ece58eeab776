package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GridSize != 64 {
		t.Errorf("expected grid size 64, got %d", cfg.GridSize)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Forcing != "kolmogorov" {
		t.Errorf("expected kolmogorov forcing, got %s", cfg.Forcing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("kolmogorov")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Alpha != 1.5 {
		t.Errorf("expected alpha 1.5, got %f", cfg.Alpha)
	}
	if cfg.GridSize != 512 {
		t.Errorf("expected grid size 512, got %d", cfg.GridSize)
	}

	// Mutating the returned config must not touch the preset table.
	cfg.GridSize = 1
	if Presets["kolmogorov"].GridSize != 512 {
		t.Error("preset table mutated through GetPreset result")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
}

func TestPresetsValidate(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.GridSize = 128
	cfg.Alpha = 1.5
	cfg.Seed = 42
	cfg.Forcing = "none"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if *loaded != *cfg {
		t.Errorf("loaded config %+v differs from saved %+v", loaded, cfg)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid size", func(c *Config) { c.GridSize = 0 }},
		{"negative batch", func(c *Config) { c.BatchSize = -1 }},
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }},
		{"negative tau", func(c *Config) { c.Tau = -7 }},
		{"zero viscosity", func(c *Config) { c.Viscosity = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1e-4 }},
		{"zero snapshots", func(c *Config) { c.Snapshots = 0 }},
		{"unknown forcing", func(c *Config) { c.Forcing = "sinusoidal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestReynoldsNumber(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viscosity = 1e-5

	want := math.Sqrt(0.1) / (math.Pow(2*math.Pi, 1.5) * 1e-5)
	if got := cfg.ReynoldsNumber(); math.Abs(got-want)/want > 1e-12 {
		t.Errorf("ReynoldsNumber = %g, want %g", got, want)
	}
}
