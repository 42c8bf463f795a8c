package config

import "sort"

var presets = map[string]Scenario{
	// A sparse row of bodies falling in parallel; nothing ever overlaps, so
	// a nonzero pair count flags a regression in the box derivation.
	"drop": {
		Name:    "drop",
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Gravity: GravityConfig{Y: DefaultGravityY},
		Spawn: SpawnConfig{
			Count:   10,
			Spacing: 2.0,
			Height:  20.0,
			Mass:    1.0,
		},
	},
	// Bodies packed tighter than their bounding radius: every neighbor
	// overlaps, exercising the pair search output ordering.
	"cluster": {
		Name:    "cluster",
		Dt:      DefaultDt,
		Steps:   240,
		Gravity: GravityConfig{Y: DefaultGravityY},
		Spawn: SpawnConfig{
			Count:   16,
			Spacing: 0.25,
			Height:  10.0,
			Mass:    1.0,
		},
	},
	// Many light bodies with an initial downward velocity; a broadphase
	// stress workload.
	"rain": {
		Name:    "rain",
		Dt:      DefaultDt,
		Steps:   900,
		Gravity: GravityConfig{Y: DefaultGravityY},
		Spawn: SpawnConfig{
			Count:   200,
			Spacing: 1.5,
			Height:  50.0,
			FallVel: 5.0,
			Mass:    0.2,
		},
	},
}

// Preset returns a copy of the named scenario, or nil if unknown.
func Preset(name string) *Scenario {
	scn, ok := presets[name]
	if !ok {
		return nil
	}
	return &scn
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
