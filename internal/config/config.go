package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
)

const (
	DefaultPreset     = "solar"
	DefaultHalfExtent = 4500e9 // m, distance from the origin to the edge of the view
	DefaultFPS        = 30
	DefaultTrail      = 120
)

type Config struct {
	Preset     string      `yaml:"preset"`
	Scheme     string      `yaml:"scheme"`
	Remainder  string      `yaml:"remainder"`
	MacroStep  float64     `yaml:"macro_step"`
	SubStep    float64     `yaml:"sub_step"`
	Gravity    float64     `yaml:"gravity"`
	Softening  float64     `yaml:"softening"`
	Density    float64     `yaml:"density"`
	HalfExtent float64     `yaml:"half_extent"`
	FPS        int         `yaml:"fps"`
	Trail      int         `yaml:"trail"`
	Bodies     []body.Spec `yaml:"bodies,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:     DefaultPreset,
		Scheme:     integrators.DefaultScheme,
		Remainder:  integrators.RemainderDrop.String(),
		MacroStep:  integrators.DefaultMacroStep,
		SubStep:    integrators.DefaultSubStep,
		Gravity:    integrators.G,
		Density:    body.DefaultDensity,
		HalfExtent: DefaultHalfExtent,
		FPS:        DefaultFPS,
		Trail:      DefaultTrail,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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
	if _, err := c.Integrator(); err != nil {
		return err
	}
	if _, err := integrators.Lookup(c.Scheme); err != nil {
		return err
	}
	if c.Density <= 0 {
		return fmt.Errorf("%w: density must be positive, got %g", dynamo.ErrInvalidConfig, c.Density)
	}
	if c.HalfExtent <= 0 {
		return fmt.Errorf("%w: half_extent must be positive, got %g", dynamo.ErrInvalidConfig, c.HalfExtent)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrInvalidConfig, c.FPS)
	}
	if c.Trail < 0 {
		return fmt.Errorf("%w: trail must not be negative, got %d", dynamo.ErrInvalidConfig, c.Trail)
	}
	if _, err := c.Specs(); err != nil {
		return err
	}
	return nil
}

// Integrator converts the integration settings.
func (c *Config) Integrator() (integrators.Config, error) {
	rem, err := integrators.ParseRemainder(c.Remainder)
	if err != nil {
		return integrators.Config{}, err
	}
	ic := integrators.Config{
		MacroStep: c.MacroStep,
		SubStep:   c.SubStep,
		Remainder: rem,
		Params: integrators.Params{
			G:         c.Gravity,
			Softening: c.Softening,
		},
	}
	return ic, ic.Validate()
}

// Specs returns the initial conditions: the explicit body list when present,
// the named preset otherwise.
func (c *Config) Specs() ([]body.Spec, error) {
	if len(c.Bodies) > 0 {
		return c.Bodies, nil
	}
	specs := GetPreset(c.Preset)
	if specs == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, c.Preset, ListPresets())
	}
	return specs, nil
}

// Registry builds the body registry described by the configuration.
func (c *Config) Registry() (*body.Registry, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return body.NewRegistry(specs, c.Density), nil
}

// Build creates a fresh registry and an integrator running the configured
// scheme.
func (c *Config) Build() (*body.Registry, *integrators.Integrator, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, nil, err
	}
	ic, err := c.Integrator()
	if err != nil {
		return nil, nil, err
	}
	s, err := integrators.Lookup(c.Scheme)
	if err != nil {
		return nil, nil, err
	}
	return reg, integrators.New(ic, s), nil
}
