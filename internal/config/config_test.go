package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.MacroStep != 86400 || cfg.SubStep != 10 {
		t.Errorf("unexpected steps %g/%g", cfg.MacroStep, cfg.SubStep)
	}
	if cfg.Density != 5520 {
		t.Errorf("unexpected density %g", cfg.Density)
	}

	specs, err := cfg.Specs()
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 9 {
		t.Errorf("expected 9 bodies, got %d", len(specs))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	data := `
preset: binary
remainder: partial
sub_step: 60
softening: 1e6
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Preset != "binary" || cfg.SubStep != 60 || cfg.Softening != 1e6 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MacroStep != 86400 {
		t.Errorf("default macro-step lost: %g", cfg.MacroStep)
	}

	ic, err := cfg.Integrator()
	if err != nil {
		t.Fatal(err)
	}
	if ic.Remainder != integrators.RemainderPartial {
		t.Errorf("expected partial remainder, got %v", ic.Remainder)
	}
}

func TestLoadBodies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	data := `
bodies:
  - {name: star, mass: 2.0e30}
  - {name: planet, x: 1.5e11, vy: 3.0e4, mass: 6.0e24}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 2 || reg.Body(1).Name != "planet" {
		t.Errorf("bodies not loaded: %+v", reg.Bodies())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	cfg := DefaultConfig()
	cfg.Scheme = "symplectic"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Scheme != "symplectic" {
		t.Errorf("expected symplectic, got %s", loaded.Scheme)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad density", func(c *Config) { c.Density = 0 }, dynamo.ErrInvalidConfig},
		{"bad sub-step", func(c *Config) { c.SubStep = -10 }, dynamo.ErrInvalidConfig},
		{"bad remainder", func(c *Config) { c.Remainder = "sometimes" }, dynamo.ErrInvalidConfig},
		{"bad fps", func(c *Config) { c.FPS = 0 }, dynamo.ErrInvalidConfig},
		{"bad scheme", func(c *Config) { c.Scheme = "rk4" }, dynamo.ErrUnknownScheme},
		{"bad preset", func(c *Config) { c.Preset = "andromeda" }, dynamo.ErrUnknownPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		specs := GetPreset(name)
		if len(specs) == 0 {
			t.Errorf("preset %s is empty", name)
		}
		for _, s := range specs {
			if s.Mass <= 0 {
				t.Errorf("preset %s: body %s has non-positive mass", name, s.Name)
			}
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	a := GetPreset("solar")
	a[0].Mass = 1
	if GetPreset("solar")[0].Mass == 1 {
		t.Error("presets must return fresh slices")
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "inner"
	cfg.Scheme = "symplectic"

	reg, integ, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if reg.Len() != 5 {
		t.Errorf("expected 5 bodies, got %d", reg.Len())
	}
	if integ.Scheme().Name() != "symplectic" {
		t.Errorf("expected symplectic scheme, got %s", integ.Scheme().Name())
	}
	if integ.Config().SubStep != 10 {
		t.Errorf("expected 10s sub-step, got %g", integ.Config().SubStep)
	}

	cfg.Scheme = "leapfrog"
	if _, _, err := cfg.Build(); !errors.Is(err, dynamo.ErrUnknownScheme) {
		t.Errorf("expected unknown scheme, got %v", err)
	}
}
