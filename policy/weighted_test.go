package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/components"
)

func TestSample_ZeroTotalFallsBackToWait(t *testing.T) {
	var p WeightedPolicy
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		require.Equal(t, components.Wait, p.Sample(rng))
	}
}

func TestSample_DeterministicForSeed(t *testing.T) {
	p := NewWeightedPolicy(map[components.Action]uint32{
		components.MoveUp: 3, components.Interact: 1, components.Wait: 5,
	})

	draw := func() []components.Action {
		rng := rand.New(rand.NewSource(99))
		out := make([]components.Action, 200)
		for i := range out {
			out[i] = p.Sample(rng)
		}
		return out
	}
	assert.Equal(t, draw(), draw())
}

func TestSample_FrequenciesMatchWeights(t *testing.T) {
	p := NewWeightedPolicy(map[components.Action]uint32{
		components.MoveUp: 2, components.Wait: 10,
	})
	rng := rand.New(rand.NewSource(7))

	const draws = 10000
	counts := make(map[components.Action]int)
	for i := 0; i < draws; i++ {
		counts[p.Sample(rng)]++
	}

	assert.InDelta(t, 10.0/12.0, float64(counts[components.Wait])/draws, 0.02)
	assert.InDelta(t, 2.0/12.0, float64(counts[components.MoveUp])/draws, 0.02)
	assert.Len(t, counts, 2, "zero-weight actions must never be drawn")
}

func TestSample_SingleNonZeroWeight(t *testing.T) {
	for _, a := range components.AllActions() {
		p := NewWeightedPolicy(map[components.Action]uint32{a: 1})
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 50; i++ {
			require.Equal(t, a, p.Sample(rng), "only %s has weight", a)
		}
	}
}

func TestDecrease_NeverNegative(t *testing.T) {
	tests := []struct {
		name  string
		start uint32
		delta uint32
		want  uint32
	}{
		{"partial", 10, 3, 7},
		{"exact", 4, 4, 0},
		{"overshoot", 2, 5, 0},
		{"from zero", 0, 1, 0},
		{"zero delta", 6, 0, 6},
		{"huge delta", 6, 1<<32 - 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range components.AllActions() {
				p := NewWeightedPolicy(map[components.Action]uint32{a: tt.start})
				p.Decrease(a, tt.delta)
				assert.Equal(t, tt.want, p.Weight(a))
			}
		})
	}
}

func TestIncrease_Saturates(t *testing.T) {
	p := NewWeightedPolicy(map[components.Action]uint32{components.Build: 1<<32 - 2})
	p.Increase(components.Build, 10)
	assert.Equal(t, uint32(1<<32-1), p.Weight(components.Build))

	p.Increase(components.Wait, 4)
	assert.Equal(t, uint32(4), p.Weight(components.Wait))
}

func TestMutateAll_MovesEveryWeightByMagnitude(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, magnitude := range []uint32{0, 1, 3, 50} {
		for round := 0; round < 100; round++ {
			p := NewWeightedPolicy(map[components.Action]uint32{
				components.MoveUp: 2, components.MoveDown: 2, components.MoveLeft: 2,
				components.MoveRight: 2, components.Interact: 2, components.Build: 0,
				components.Wait: 10,
			})
			before := p
			p.MutateAll(magnitude, rng)

			for _, a := range components.AllActions() {
				old, got := before.Weight(a), p.Weight(a)
				up := old + magnitude
				down := uint32(0)
				if old > magnitude {
					down = old - magnitude
				}
				require.Truef(t, got == up || got == down,
					"magnitude %d: %s went %d -> %d", magnitude, a, old, got)
			}
		}
	}
}

func TestFromNames(t *testing.T) {
	p, err := FromNames(map[string]uint32{"wait": 10, "move_right": 2})
	require.NoError(t, err)
	assert.Equal(t, uint32(10), p.Weight(components.Wait))
	assert.Equal(t, uint32(2), p.Weight(components.MoveRight))
	assert.Equal(t, uint64(12), p.Total())

	_, err = FromNames(map[string]uint32{"jump": 1})
	assert.Error(t, err)
}

func TestReadersWorkOnReturnedValues(t *testing.T) {
	weights := map[components.Action]uint32{components.Wait: 10, components.MoveUp: 2}

	assert.Equal(t, uint32(10), NewWeightedPolicy(weights).Weight(components.Wait))
	assert.Equal(t, uint64(12), NewWeightedPolicy(weights).Total())
	assert.Equal(t, uint32(2), NewWeightedPolicy(weights).Named()["move_up"])

	table := NewTable(NewWeightedPolicy(weights), Perception{HPBucket: 1})
	assert.Equal(t, uint32(10), table.Defaults().Weight(components.Wait))
	action := table.Defaults().Sample(rand.New(rand.NewSource(3)))
	assert.Contains(t, []components.Action{components.Wait, components.MoveUp}, action)
}
