package policy

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pthm-cable/gridlife/components"
)

// FactorKind discriminates the perception factor variants. Declaration order
// is part of the canonical factor order.
type FactorKind uint8

const (
	KindProximity FactorKind = iota // object seen at a distance
	KindOccupied                    // object on the agent's cell
	KindVitals                      // agent hp bucket
)

var factorKindNames = [...]string{"proximity", "occupied", "vitals"}

func (k FactorKind) String() string {
	if int(k) < len(factorKindNames) {
		return factorKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Factor is one observed fact. Fields not used by a variant stay zero, so
// equal facts compare equal.
type Factor struct {
	Kind      FactorKind
	Distance  uint32
	Direction components.Direction
	Tag       components.ObjectTag
	HP        int32
}

// Proximity is an object of tag seen distance cells away in dir.
func Proximity(distance uint32, dir components.Direction, tag components.ObjectTag) Factor {
	return Factor{Kind: KindProximity, Distance: distance, Direction: dir, Tag: tag}
}

// Occupied is an object of tag on the agent's own cell.
func Occupied(tag components.ObjectTag) Factor {
	return Factor{Kind: KindOccupied, Tag: tag}
}

// Vitals is the agent's hp bucket.
func Vitals(hp int32) Factor {
	return Factor{Kind: KindVitals, HP: hp}
}

// Compare orders factors by kind, then by the variant's fields.
func (f Factor) Compare(o Factor) int {
	if c := cmp.Compare(f.Kind, o.Kind); c != 0 {
		return c
	}
	switch f.Kind {
	case KindProximity:
		if c := cmp.Compare(f.Distance, o.Distance); c != 0 {
			return c
		}
		if c := cmp.Compare(f.Direction, o.Direction); c != 0 {
			return c
		}
		return cmp.Compare(f.Tag, o.Tag)
	case KindOccupied:
		return cmp.Compare(f.Tag, o.Tag)
	default:
		return cmp.Compare(f.HP, o.HP)
	}
}

func (f Factor) encode(sb *strings.Builder) {
	switch f.Kind {
	case KindProximity:
		fmt.Fprintf(sb, "prox:%d:%s:%s", f.Distance, f.Direction, f.Tag)
	case KindOccupied:
		fmt.Fprintf(sb, "occ:%s", f.Tag)
	default:
		fmt.Fprintf(sb, "hp:%d", f.HP)
	}
}

// StateKey is the canonical encoding of a sorted factor list. Equal factor
// multisets always encode to the same key.
type StateKey string

const keySep = "|"

// KeyOf sorts a copy of factors into canonical order and encodes it.
func KeyOf(factors []Factor) StateKey {
	sorted := slices.Clone(factors)
	slices.SortFunc(sorted, Factor.Compare)

	var sb strings.Builder
	for i, f := range sorted {
		if i > 0 {
			sb.WriteString(keySep)
		}
		f.encode(&sb)
	}
	return StateKey(sb.String())
}

// Factors decodes the key back into its canonical factor list.
func (k StateKey) Factors() ([]Factor, error) {
	if k == "" {
		return nil, nil
	}
	parts := strings.Split(string(k), keySep)
	factors := make([]Factor, 0, len(parts))
	for _, part := range parts {
		f, err := decodeFactor(part)
		if err != nil {
			return nil, fmt.Errorf("state key %q: %w", k, err)
		}
		factors = append(factors, f)
	}
	return factors, nil
}

func decodeFactor(s string) (Factor, error) {
	fields := strings.Split(s, ":")
	switch {
	case fields[0] == "prox" && len(fields) == 4:
		dist, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return Factor{}, fmt.Errorf("distance: %w", err)
		}
		var dir components.Direction
		if err := dir.UnmarshalText([]byte(fields[2])); err != nil {
			return Factor{}, err
		}
		tag, err := components.ParseObjectTag(fields[3])
		if err != nil {
			return Factor{}, err
		}
		return Proximity(uint32(dist), dir, tag), nil
	case fields[0] == "occ" && len(fields) == 2:
		tag, err := components.ParseObjectTag(fields[1])
		if err != nil {
			return Factor{}, err
		}
		return Occupied(tag), nil
	case fields[0] == "hp" && len(fields) == 2:
		hp, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return Factor{}, fmt.Errorf("hp: %w", err)
		}
		return Vitals(int32(hp)), nil
	}
	return Factor{}, fmt.Errorf("malformed factor %q", s)
}

// Perception discretizes what the agent sees into a StateKey.
type Perception struct {
	HPBucket int32 // hp values per vitals bucket; <= 1 keeps raw hp
}

// Factors lists the facts for agent and its visible objects in canonical order.
func (p Perception) Factors(agent components.Agent, visible []components.Sighting) []Factor {
	factors := make([]Factor, 0, len(visible)+1)
	for _, s := range visible {
		if s.Pos == agent.Pos {
			factors = append(factors, Occupied(s.Tag))
			continue
		}
		dist, dir := Bearing(agent.Pos, s.Pos)
		factors = append(factors, Proximity(dist, dir, s.Tag))
	}
	factors = append(factors, Vitals(p.bucket(agent.HP)))
	slices.SortFunc(factors, Factor.Compare)
	return factors
}

// Build returns the canonical state key for agent and its visible objects.
func (p Perception) Build(agent components.Agent, visible []components.Sighting) StateKey {
	return KeyOf(p.Factors(agent, visible))
}

func (p Perception) bucket(hp int32) int32 {
	if p.HPBucket <= 1 {
		return hp
	}
	// floor division so negative hp never shares bucket 0
	q := hp / p.HPBucket
	if hp%p.HPBucket != 0 && hp < 0 {
		q--
	}
	return q
}

// Bearing returns the Manhattan distance from `from` to `to` and the
// dominant-axis direction. Ties between axes resolve to the horizontal axis.
// Callers must not pass equal positions.
func Bearing(from, to components.Position) (uint32, components.Direction) {
	dx := int64(to.X) - int64(from.X)
	dy := int64(to.Y) - int64(from.Y)
	adx, ady := abs64(dx), abs64(dy)
	dist := uint32(adx + ady)

	if adx >= ady {
		if dx > 0 {
			return dist, components.DirRight
		}
		return dist, components.DirLeft
	}
	if dy > 0 {
		return dist, components.DirDown
	}
	return dist, components.DirUp
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
