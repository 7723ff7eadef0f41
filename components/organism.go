package components

// Agent is the single simulated actor.
type Agent struct {
	Alive      bool
	HP         int32
	Ability    uint32
	Lifetime   uint32 // ticks of passive decay survived
	Pos        Position
	ViewRadius uint32
	Pending    Action // decision taken this tick
}

// Consume removes n hp. Dead agents are never mutated again.
func (a *Agent) Consume(n int32) {
	if !a.Alive {
		return
	}
	a.HP = SatSub32(a.HP, n)
	if a.HP <= 0 {
		a.Alive = false
	}
}

// SatAdd32 adds without wrapping past the int32 range.
func SatAdd32(a, b int32) int32 {
	return clamp64(int64(a) + int64(b))
}

// SatSub32 subtracts without wrapping past the int32 range.
func SatSub32(a, b int32) int32 {
	return clamp64(int64(a) - int64(b))
}

// SatAddU32 adds without wrapping past MaxUint32.
func SatAddU32(a, b uint32) uint32 {
	s := uint64(a) + uint64(b)
	if s > 1<<32-1 {
		return 1<<32 - 1
	}
	return uint32(s)
}

func clamp64(v int64) int32 {
	const maxI, minI = 1<<31 - 1, -1 << 31
	if v > maxI {
		return maxI
	}
	if v < minI {
		return minI
	}
	return int32(v)
}
