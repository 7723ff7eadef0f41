// Package policy implements the trainable agent policy: weighted action
// samplers keyed by a canonical perceptual state, a per-run decision log,
// and the copy-on-write mutate/reward operations used by training.
package policy

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/gridlife/components"
)

// WeightedPolicy is a weighted-random sampler over the closed action set.
// Weights are indexed by action, so iteration is always in canonical order.
type WeightedPolicy struct {
	weights [components.NumActions]uint32
}

// NewWeightedPolicy builds a policy from explicit weights. Missing actions
// get weight 0.
func NewWeightedPolicy(weights map[components.Action]uint32) WeightedPolicy {
	var p WeightedPolicy
	for a, w := range weights {
		if a.Valid() {
			p.weights[a] = w
		}
	}
	return p
}

// FromNames builds a policy from wire-named weights such as {"wait": 10}.
func FromNames(weights map[string]uint32) (WeightedPolicy, error) {
	var p WeightedPolicy
	for name, w := range weights {
		a, err := components.ParseAction(name)
		if err != nil {
			return WeightedPolicy{}, fmt.Errorf("policy weights: %w", err)
		}
		p.weights[a] = w
	}
	return p, nil
}

// Weight returns the weight of a.
func (p WeightedPolicy) Weight(a components.Action) uint32 {
	return p.weights[a]
}

// Total returns the sum of all weights.
func (p WeightedPolicy) Total() uint64 {
	var total uint64
	for _, w := range p.weights {
		total += uint64(w)
	}
	return total
}

// Sample draws an action with probability proportional to its weight.
// A policy whose weights are all zero always yields Wait.
func (p WeightedPolicy) Sample(rng *rand.Rand) components.Action {
	total := p.Total()
	if total == 0 {
		return components.Wait
	}
	draw := uint64(rng.Int63n(int64(total)))

	var cumulative uint64
	for i, w := range p.weights {
		cumulative += uint64(w)
		if cumulative > draw {
			return components.Action(i)
		}
	}
	return components.Wait
}

// Increase adds delta to the weight of a, saturating at MaxUint32.
func (p *WeightedPolicy) Increase(a components.Action, delta uint32) {
	p.weights[a] = components.SatAddU32(p.weights[a], delta)
}

// Decrease subtracts delta from the weight of a, clamping at zero.
func (p *WeightedPolicy) Decrease(a components.Action, delta uint32) {
	if p.weights[a] <= delta {
		p.weights[a] = 0
		return
	}
	p.weights[a] -= delta
}

// MutateAll moves every weight up or down by magnitude on a fair coin flip.
func (p *WeightedPolicy) MutateAll(magnitude uint32, rng *rand.Rand) {
	for i := range p.weights {
		a := components.Action(i)
		if rng.Intn(2) == 0 {
			p.Increase(a, magnitude)
		} else {
			p.Decrease(a, magnitude)
		}
	}
}

// Named returns the weights keyed by action wire name.
func (p WeightedPolicy) Named() map[string]uint32 {
	named := make(map[string]uint32, components.NumActions)
	for i, w := range p.weights {
		named[components.Action(i).String()] = w
	}
	return named
}
