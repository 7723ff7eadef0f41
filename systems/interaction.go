package systems

import (
	"math/rand"

	"github.com/pthm-cable/gridlife/components"
)

// Outcome is the result of one interaction roll.
type Outcome uint8

const (
	OutcomeSkipped Outcome = iota // agent or object already dead
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	}
	return "skipped"
}

// Resolve rolls rng.Intn(rollSides) + ability against the object's difficulty.
// Success grants the object's reward to the agent and wears the object by one
// hp. Failure costs the agent the object's penalty.
func Resolve(agent *components.Agent, obj *components.Object, rng *rand.Rand, rollSides int) Outcome {
	if !agent.Alive || !obj.Alive {
		return OutcomeSkipped
	}

	roll := uint64(rng.Intn(rollSides)) + uint64(agent.Ability)
	if roll >= uint64(obj.Difficulty) {
		agent.HP = components.SatAdd32(agent.HP, saturateI32(obj.RewardHP))
		agent.Ability = components.SatAddU32(agent.Ability, obj.RewardAbility)
		obj.Wear(1)
		return OutcomeSuccess
	}

	agent.Consume(saturateI32(obj.Penalty))
	return OutcomeFailure
}

func saturateI32(v uint32) int32 {
	if v > 1<<31-1 {
		return 1<<31 - 1
	}
	return int32(v)
}
