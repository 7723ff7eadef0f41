package policy

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/gridlife/components"
)

// DocumentVersion is incremented when the persisted format changes.
const DocumentVersion = 1

// ErrSchema marks a document that does not describe a valid table.
var ErrSchema = errors.New("policy document schema violation")

// Document is the persisted form of a Table.
type Document struct {
	Version     int                `json:"version" jsonschema:"description=Format version,minimum=0,maximum=1"`
	Entries     []EntryDocument    `json:"entries" jsonschema:"description=One weighted policy per perceptual state"`
	DecisionLog []DecisionDocument `json:"decisionLog" jsonschema:"description=Decisions of the run that produced this table in tick order"`
}

// EntryDocument is one state entry.
type EntryDocument struct {
	StateKey []FactorDocument  `json:"stateKey"`
	Weights  map[string]uint32 `json:"weights" jsonschema:"description=Action weight keyed by action name"`
}

// DecisionDocument is one decision log record.
type DecisionDocument struct {
	Tick     uint32           `json:"tick"`
	StateKey []FactorDocument `json:"stateKey"`
	Action   string           `json:"action" jsonschema:"enum=move_up,enum=move_down,enum=move_left,enum=move_right,enum=interact,enum=build,enum=wait"`
}

// FactorDocument is one perception factor. Which optional fields are
// required depends on Kind.
type FactorDocument struct {
	Kind      string  `json:"kind" jsonschema:"enum=proximity,enum=occupied,enum=vitals"`
	Distance  *uint32 `json:"distance,omitempty" jsonschema:"description=Manhattan distance (proximity only)"`
	Direction string  `json:"direction,omitempty" jsonschema:"enum=up,enum=down,enum=left,enum=right,description=Dominant axis (proximity only)"`
	Tag       string  `json:"tag,omitempty" jsonschema:"enum=shelter,enum=challenge,enum=danger,enum=structure,description=Object tag (proximity and occupied)"`
	HP        *int32  `json:"hp,omitempty" jsonschema:"description=HP bucket (vitals only)"`
}

// Serialize converts the table, including its decision log, to a Document.
// Entries are written in key order.
func (t *Table) Serialize() Document {
	doc := Document{
		Version:     DocumentVersion,
		Entries:     make([]EntryDocument, 0, len(t.entries)),
		DecisionLog: make([]DecisionDocument, 0, len(t.log)),
	}
	for _, e := range t.Entries() {
		doc.Entries = append(doc.Entries, EntryDocument{
			StateKey: keyDocument(e.Key),
			Weights:  e.Policy.Named(),
		})
	}
	for _, d := range t.log {
		doc.DecisionLog = append(doc.DecisionLog, DecisionDocument{
			Tick:     d.Tick,
			StateKey: keyDocument(d.Key),
			Action:   d.Action.String(),
		})
	}
	return doc
}

func keyDocument(key StateKey) []FactorDocument {
	// keys are only ever produced by KeyOf, so decoding cannot fail
	factors, _ := key.Factors()
	docs := make([]FactorDocument, len(factors))
	for i, f := range factors {
		docs[i] = factorDocument(f)
	}
	return docs
}

func factorDocument(f Factor) FactorDocument {
	doc := FactorDocument{Kind: f.Kind.String()}
	switch f.Kind {
	case KindProximity:
		dist := f.Distance
		doc.Distance = &dist
		doc.Direction = f.Direction.String()
		doc.Tag = f.Tag.String()
	case KindOccupied:
		doc.Tag = f.Tag.String()
	case KindVitals:
		hp := f.HP
		doc.HP = &hp
	}
	return doc
}

// Deserialize rebuilds a table from doc. New entries created later start
// from defaults and Decide uses perception. Any violation of the schema is
// reported wrapped in ErrSchema.
func Deserialize(doc Document, defaults WeightedPolicy, perception Perception) (*Table, error) {
	if doc.Version < 0 || doc.Version > DocumentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSchema, doc.Version)
	}

	t := NewTable(defaults, perception)
	for i, e := range doc.Entries {
		key, err := parseKeyDocument(e.StateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: entries[%d]: %v", ErrSchema, i, err)
		}
		if _, dup := t.entries[key]; dup {
			return nil, fmt.Errorf("%w: entries[%d]: duplicate state %q", ErrSchema, i, key)
		}
		weights, err := FromNames(e.Weights)
		if err != nil {
			return nil, fmt.Errorf("%w: entries[%d]: %v", ErrSchema, i, err)
		}
		t.entries[key] = &weights
	}

	t.log = make([]Decision, 0, len(doc.DecisionLog))
	for i, d := range doc.DecisionLog {
		key, err := parseKeyDocument(d.StateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: decisionLog[%d]: %v", ErrSchema, i, err)
		}
		if _, ok := t.entries[key]; !ok {
			return nil, fmt.Errorf("%w: decisionLog[%d]: state %q has no entry", ErrSchema, i, key)
		}
		action, err := components.ParseAction(d.Action)
		if err != nil {
			return nil, fmt.Errorf("%w: decisionLog[%d]: %v", ErrSchema, i, err)
		}
		t.log = append(t.log, Decision{Tick: d.Tick, Key: key, Action: action})
	}
	return t, nil
}

func parseKeyDocument(docs []FactorDocument) (StateKey, error) {
	factors := make([]Factor, len(docs))
	for i, d := range docs {
		f, err := parseFactorDocument(d)
		if err != nil {
			return "", fmt.Errorf("stateKey[%d]: %w", i, err)
		}
		factors[i] = f
	}
	return KeyOf(factors), nil
}

func parseFactorDocument(d FactorDocument) (Factor, error) {
	switch d.Kind {
	case "proximity":
		if d.Distance == nil {
			return Factor{}, errors.New("proximity factor missing distance")
		}
		var dir components.Direction
		if err := dir.UnmarshalText([]byte(d.Direction)); err != nil {
			return Factor{}, err
		}
		tag, err := components.ParseObjectTag(d.Tag)
		if err != nil {
			return Factor{}, err
		}
		return Proximity(*d.Distance, dir, tag), nil
	case "occupied":
		tag, err := components.ParseObjectTag(d.Tag)
		if err != nil {
			return Factor{}, err
		}
		return Occupied(tag), nil
	case "vitals":
		if d.HP == nil {
			return Factor{}, errors.New("vitals factor missing hp")
		}
		return Vitals(*d.HP), nil
	}
	return Factor{}, fmt.Errorf("unknown factor kind %q", d.Kind)
}
