package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt      = float32(1.0 / 60.0)
	DefaultSteps   = 600
	DefaultCount   = 10
	DefaultSpacing = float32(2.0)
	DefaultHeight  = float32(20.0)
	DefaultMass    = float32(1.0)

	// Standard gravity, matching the world's default.
	DefaultGravityY = float32(-9.80665)
)

// Scenario describes a reproducible simulation workload: a gravity field, a
// step schedule, and a row of bodies dropped from height.
type Scenario struct {
	Name    string        `yaml:"name"`
	Dt      float32       `yaml:"dt"`
	Steps   int           `yaml:"steps"`
	Gravity GravityConfig `yaml:"gravity"`
	Spawn   SpawnConfig   `yaml:"spawn"`
}

type GravityConfig struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

type SpawnConfig struct {
	Count   int     `yaml:"count"`
	Spacing float32 `yaml:"spacing"`  // gap between bodies along x
	Height  float32 `yaml:"height"`   // initial y for every body
	FallVel float32 `yaml:"fall_vel"` // initial downward speed
	Mass    float32 `yaml:"mass"`
}

func Default() *Scenario {
	return &Scenario{
		Name:    "drop",
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Gravity: GravityConfig{Y: DefaultGravityY},
		Spawn: SpawnConfig{
			Count:   DefaultCount,
			Spacing: DefaultSpacing,
			Height:  DefaultHeight,
			Mass:    DefaultMass,
		},
	}
}

// Load reads a scenario from a yaml file, filling unset fields from the
// defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scn := Default()
	if err := yaml.Unmarshal(data, scn); err != nil {
		return nil, err
	}
	return scn, nil
}

func Save(path string, scn *Scenario) error {
	data, err := yaml.Marshal(scn)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the run loop depends on. The simulation core
// itself accepts anything; this guards the outer tooling.
func (s *Scenario) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", s.Dt)
	}
	if s.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", s.Steps)
	}
	if s.Spawn.Count < 0 {
		return fmt.Errorf("spawn count must not be negative, got %d", s.Spawn.Count)
	}
	if s.Spawn.Count > 65535 {
		return fmt.Errorf("spawn count %d exceeds the body slot space", s.Spawn.Count)
	}
	return nil
}
