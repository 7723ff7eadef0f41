package policy

import (
	"maps"
	"math/rand"
	"slices"

	"github.com/pthm-cable/gridlife/components"
)

// Decision is one logged choice of a simulation run.
type Decision struct {
	Tick   uint32
	Key    StateKey
	Action components.Action
}

// Table maps perceptual states to weighted policies and records the
// decisions of the run it drives. A Table is owned by one goroutine;
// Mutate and Reward return new tables and never modify the receiver.
type Table struct {
	defaults   WeightedPolicy
	perception Perception
	entries    map[StateKey]*WeightedPolicy
	log        []Decision
}

// NewTable creates an empty table. Every state seen for the first time
// starts with a copy of defaults.
func NewTable(defaults WeightedPolicy, perception Perception) *Table {
	return &Table{
		defaults:   defaults,
		perception: perception,
		entries:    make(map[StateKey]*WeightedPolicy),
	}
}

// Defaults returns the policy new entries start with.
func (t *Table) Defaults() WeightedPolicy {
	return t.defaults
}

// Perception returns the discretization used by Decide.
func (t *Table) Perception() Perception {
	return t.perception
}

// GetOrCreate returns the live policy for key, inserting a default one on
// first lookup. Changes made through the returned pointer persist.
func (t *Table) GetOrCreate(key StateKey) *WeightedPolicy {
	if p, ok := t.entries[key]; ok {
		return p
	}
	p := new(WeightedPolicy)
	*p = t.defaults
	t.entries[key] = p
	return p
}

// Lookup returns the policy for key without creating it.
func (t *Table) Lookup(key StateKey) (*WeightedPolicy, bool) {
	p, ok := t.entries[key]
	return p, ok
}

// Decide perceives, samples an action from the state's policy and logs it.
func (t *Table) Decide(tick uint32, agent components.Agent, visible []components.Sighting, rng *rand.Rand) components.Action {
	key := t.perception.Build(agent, visible)
	action := t.GetOrCreate(key).Sample(rng)
	t.log = append(t.log, Decision{Tick: tick, Key: key, Action: action})
	return action
}

// Mutate returns a deep copy with every entry's weights perturbed by
// magnitude. The copy starts with an empty decision log. Entries are visited
// in key order so a seeded rng gives the same result every time.
func (t *Table) Mutate(magnitude uint32, rng *rand.Rand) *Table {
	out := t.copyEntries()
	for _, key := range out.Keys() {
		out.entries[key].MutateAll(magnitude, rng)
	}
	return out
}

// Reward returns a deep copy in which every logged (state, action) pair has
// its weight increased by delta, once per log occurrence.
func (t *Table) Reward(delta uint32) *Table {
	out := t.Clone()
	for _, d := range out.log {
		out.GetOrCreate(d.Key).Increase(d.Action, delta)
	}
	return out
}

// Clone returns a deep copy including the decision log.
func (t *Table) Clone() *Table {
	out := t.copyEntries()
	out.log = slices.Clone(t.log)
	return out
}

func (t *Table) copyEntries() *Table {
	out := &Table{
		defaults:   t.defaults,
		perception: t.perception,
		entries:    make(map[StateKey]*WeightedPolicy, len(t.entries)),
	}
	for key, p := range t.entries {
		cp := *p
		out.entries[key] = &cp
	}
	return out
}

// ResetLog clears the decision log.
func (t *Table) ResetLog() {
	t.log = nil
}

// Log returns a copy of the decision log in the order decisions were made.
func (t *Table) Log() []Decision {
	return slices.Clone(t.log)
}

// Len returns the number of state entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns all state keys in sorted order.
func (t *Table) Keys() []StateKey {
	return slices.Sorted(maps.Keys(t.entries))
}

// Entry is one state and a copy of its policy.
type Entry struct {
	Key    StateKey
	Policy WeightedPolicy
}

// Entries returns copies of all entries sorted by key.
func (t *Table) Entries() []Entry {
	keys := t.Keys()
	out := make([]Entry, len(keys))
	for i, key := range keys {
		out[i] = Entry{Key: key, Policy: *t.entries[key]}
	}
	return out
}

// LastDecision returns the most recent logged decision.
func (t *Table) LastDecision() (Decision, bool) {
	if len(t.log) == 0 {
		return Decision{}, false
	}
	return t.log[len(t.log)-1], true
}
