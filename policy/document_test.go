package policy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/components"
)

func TestDocument_RoundTrip(t *testing.T) {
	table := populated(t)
	doc := table.Serialize()

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Deserialize(decoded, table.Defaults(), table.Perception())
	require.NoError(t, err)

	assert.Equal(t, table.Keys(), restored.Keys())
	assert.Equal(t, table.Log(), restored.Log())
	for _, key := range table.Keys() {
		want, _ := table.Lookup(key)
		got, _ := restored.Lookup(key)
		assert.Equal(t, *want, *got)
	}
}

func TestDocument_Shape(t *testing.T) {
	table := newTestTable()
	key := KeyOf([]Factor{
		Vitals(7),
		Occupied(components.TagShelter),
		Proximity(3, components.DirUp, components.TagDanger),
	})
	table.GetOrCreate(key)

	data, err := json.Marshal(table.Serialize())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"version": 1,
		"entries": [{
			"stateKey": [
				{"kind": "proximity", "distance": 3, "direction": "up", "tag": "danger"},
				{"kind": "occupied", "tag": "shelter"},
				{"kind": "vitals", "hp": 7}
			],
			"weights": {"move_up": 2, "move_down": 2, "move_left": 2, "move_right": 2,
				"interact": 2, "build": 0, "wait": 10}
		}],
		"decisionLog": []
	}`, string(data))
}

func TestDeserialize_SchemaErrors(t *testing.T) {
	three := uint32(3)
	vitals := FactorDocument{Kind: "vitals", HP: new(int32)}

	tests := []struct {
		name string
		doc  Document
	}{
		{"future version", Document{Version: DocumentVersion + 1}},
		{"unknown kind", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{{Kind: "smell"}}},
		}}},
		{"proximity without distance", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{{Kind: "proximity", Direction: "up", Tag: "danger"}}},
		}}},
		{"bad direction", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{{Kind: "proximity", Distance: &three, Direction: "north", Tag: "danger"}}},
		}}},
		{"bad tag", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{{Kind: "occupied", Tag: "tree"}}},
		}}},
		{"vitals without hp", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{{Kind: "vitals"}}},
		}}},
		{"unknown action weight", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{vitals}, Weights: map[string]uint32{"jump": 1}},
		}}},
		{"duplicate state", Document{Version: 1, Entries: []EntryDocument{
			{StateKey: []FactorDocument{vitals}},
			{StateKey: []FactorDocument{vitals}},
		}}},
		{"log state without entry", Document{Version: 1, DecisionLog: []DecisionDocument{
			{Tick: 0, StateKey: []FactorDocument{vitals}, Action: "wait"},
		}}},
		{"unknown logged action", Document{Version: 1,
			Entries:     []EntryDocument{{StateKey: []FactorDocument{vitals}}},
			DecisionLog: []DecisionDocument{{StateKey: []FactorDocument{vitals}, Action: "fly"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.doc, defaultWeights(), Perception{HPBucket: 1})
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestDeserialize_EmptyDocument(t *testing.T) {
	table, err := Deserialize(Document{Version: 1}, defaultWeights(), Perception{HPBucket: 1})
	require.NoError(t, err)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Log())
}
