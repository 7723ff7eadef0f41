package storage

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/policy"
)

var (
	defaults   = policy.NewWeightedPolicy(map[components.Action]uint32{components.MoveRight: 2, components.Wait: 10})
	perception = policy.Perception{HPBucket: 1}
)

func trainedTable() *policy.Table {
	table := policy.NewTable(defaults, perception)
	rng := rand.New(rand.NewSource(2))
	for tick := uint32(0); tick < 8; tick++ {
		agent := components.Agent{Alive: true, HP: int32(10 - tick)}
		visible := []components.Sighting{{Tag: components.TagShelter, Pos: components.Position{X: 1, Y: int32(tick)}}}
		table.Decide(tick, agent, visible, rng)
	}
	return table.Reward(2)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "policy.json"))
	table := trainedTable()

	require.NoError(t, store.Save(table))
	loaded, err := store.Load(defaults, perception)
	require.NoError(t, err)

	assert.Equal(t, table.Serialize(), loaded.Serialize())
	assert.Equal(t, defaults, loaded.Defaults())
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "policy.json"))

	require.NoError(t, store.Save(trainedTable()))
	empty := policy.NewTable(defaults, perception)
	require.NoError(t, store.Save(empty))

	loaded, err := store.Load(defaults, perception)
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
	assert.Empty(t, loaded.Log())

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name      string
		path      string
		wantIs    error
		wantNotIs error
	}{
		{"missing", filepath.Join(dir, "absent.json"), ErrNotFound, policy.ErrSchema},
		{"unreadable directory", dir, nil, ErrNotFound},
		{"not json", write("garbage.json", "{nope"), policy.ErrSchema, ErrNotFound},
		{"unknown field", write("extra.json", `{"version":1,"entries":[],"decisionLog":[],"owner":"x"}`), policy.ErrSchema, nil},
		{"unknown factor field", write("factor.json",
			`{"version":1,"entries":[{"stateKey":[{"kind":"vitals","hp":1,"smell":2}],"weights":{}}],"decisionLog":[]}`), policy.ErrSchema, nil},
		{"bad action", write("action.json",
			`{"version":1,"entries":[{"stateKey":[{"kind":"vitals","hp":1}],"weights":{"fly":1}}],"decisionLog":[]}`), policy.ErrSchema, nil},
		{"trailing data", write("trailing.json", `{"version":1,"entries":[],"decisionLog":[]} {}`), policy.ErrSchema, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileStore(tt.path).Load(defaults, perception)
			require.Error(t, err)

			var serr *StorageError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, "load", serr.Op)
			assert.Equal(t, tt.path, serr.Path)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantNotIs != nil {
				assert.NotErrorIs(t, err, tt.wantNotIs)
			}
		})
	}
}

func TestFileStore_SaveError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := NewFileStore(filepath.Join(blocker, "policy.json"))
	err := store.Save(trainedTable())

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "save", serr.Op)
}
