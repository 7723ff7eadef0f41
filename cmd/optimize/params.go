package main

import (
	"math"

	"github.com/pthm-cable/gridlife/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Training loop
			{Name: "mutation", Path: "training.mutation", Min: 0, Max: 6, Default: 1},
			{Name: "reward", Path: "training.reward", Min: 0, Max: 10, Default: 2},
			// Starting weights; the four moves share one value
			{Name: "weight_move", Path: "policy.default_weights.move_*", Min: 0, Max: 10, Default: 2},
			{Name: "weight_interact", Path: "policy.default_weights.interact", Min: 0, Max: 10, Default: 2},
			{Name: "weight_build", Path: "policy.default_weights.build", Min: 0, Max: 10, Default: 0},
			{Name: "weight_wait", Path: "policy.default_weights.wait", Min: 0, Max: 20, Default: 10},
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

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. All values are
// integers in the simulation and are rounded.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	u := func(i int) uint32 { return uint32(math.Round(clamped[i])) }

	// Order must match Specs order
	cfg.Training.Mutation = u(0)
	cfg.Training.Reward = u(1)

	weights := make(map[string]uint32, len(cfg.Policy.DefaultWeights))
	for name, w := range cfg.Policy.DefaultWeights {
		weights[name] = w
	}
	for _, move := range []string{"move_up", "move_down", "move_left", "move_right"} {
		weights[move] = u(2)
	}
	weights["interact"] = u(3)
	weights["build"] = u(4)
	weights["wait"] = u(5)
	cfg.Policy.DefaultWeights = weights
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	w := cfg.Policy.DefaultWeights
	return []float64{
		float64(cfg.Training.Mutation),
		float64(cfg.Training.Reward),
		float64(w["move_up"]),
		float64(w["interact"]),
		float64(w["build"]),
		float64(w["wait"]),
	}
}
