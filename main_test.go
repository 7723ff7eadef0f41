package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/config"
	"github.com/pthm-cable/gridlife/policy"
	"github.com/pthm-cable/gridlife/storage"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(cfg, overrides{generations: 0, samples: 3, mutation: 4, reward: -1, maxTicks: 0, workers: -1, streamAddr: ":9000"})

	assert.Equal(t, 0, cfg.Training.Generations)
	assert.Equal(t, 3, cfg.Training.Samples)
	assert.Equal(t, uint32(4), cfg.Training.Mutation)
	assert.Equal(t, uint32(2), cfg.Training.Reward)
	assert.Equal(t, 10000, cfg.Training.MaxTicks)
	assert.Equal(t, 0, cfg.Training.Workers)
	assert.Equal(t, ":9000", cfg.Stream.Addr)
}

func TestLoadTable(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()

	t.Run("no store gives empty table", func(t *testing.T) {
		table, err := loadTable(cfg, fileStore(""))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("missing file fails", func(t *testing.T) {
		table, err := loadTable(cfg, fileStore(filepath.Join(dir, "absent.json")))
		assert.Nil(t, table)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		var serr *storage.StorageError
		assert.ErrorAs(t, err, &serr)
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "policy.json")
		table, err := loadTable(cfg, nil)
		require.NoError(t, err)
		table.GetOrCreate(policy.KeyOf([]policy.Factor{policy.Vitals(4)}))
		require.NoError(t, fileStore(path).Save(table))

		loaded, err := loadTable(cfg, fileStore(path))
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Len())
	})

	t.Run("corrupt file fails", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, writeFile(path, "{"))
		_, err := loadTable(cfg, fileStore(path))
		var serr *storage.StorageError
		assert.ErrorAs(t, err, &serr)
	})

	t.Run("store error is returned as is", func(t *testing.T) {
		failure := &storage.StorageError{Op: "load", Path: "remote", Err: storage.ErrNotFound}
		_, err := loadTable(cfg, failingStore{err: failure})
		assert.Same(t, failure, err)
	})
}

type failingStore struct {
	err error
}

func (s failingStore) Load(policy.WeightedPolicy, policy.Perception) (*policy.Table, error) {
	return nil, s.err
}

func (s failingStore) Save(*policy.Table) error {
	return s.err
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
