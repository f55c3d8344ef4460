// Package main tunes movement and energy constants with CMA-ES so that
// evolved agents live longer.
package main

import (
	"math"

	"github.com/pthm-cable/evosoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded before applying
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// The order matches ApplyToConfig and ExtractFromConfig.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement
			{Name: "speed", Path: "movement.speed", Min: 0.25, Max: 4.0, Default: 1.0},
			{Name: "turn_damping", Path: "movement.turn_damping", Min: 0.01, Max: 0.5, Default: 0.1},
			// Feeding
			{Name: "capture_radius", Path: "resources.capture_radius", Min: 15, Max: 120, Default: 50},
			{Name: "transfer_per_tick", Path: "resources.transfer_per_tick", Min: 1, Max: 6, Default: 1, Integer: true},
			{Name: "decay_per_tick", Path: "resources.decay_per_tick", Min: 0, Max: 4, Default: 1, Integer: true},
			// Energy
			{Name: "upkeep_per_tick", Path: "energy.upkeep_per_tick", Min: 1, Max: 4, Default: 1, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds the integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Callers must Finalize
// the config afterwards.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Movement.Speed = c[0]
	cfg.Movement.TurnDamping = c[1]
	cfg.Resources.CaptureRadius = c[2]
	cfg.Resources.TransferPerTick = uint32(c[3])
	cfg.Resources.DecayPerTick = uint32(c[4])
	cfg.Energy.UpkeepPerTick = uint32(c[5])
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Movement.Speed,
		cfg.Movement.TurnDamping,
		cfg.Resources.CaptureRadius,
		float64(cfg.Resources.TransferPerTick),
		float64(cfg.Resources.DecayPerTick),
		float64(cfg.Energy.UpkeepPerTick),
	}
}
