package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/gridlife/components"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int32(50), cfg.World.Width)
	assert.Equal(t, int32(25), cfg.Agent.SpawnX)
	assert.Equal(t, int32(10), cfg.Agent.HP)
	assert.Equal(t, uint32(5), cfg.Agent.Ability)
	assert.Equal(t, uint32(5), cfg.Agent.ViewRadius)
	assert.Equal(t, 20, cfg.Generation.RollRange)
	assert.Equal(t, int32(5), cfg.Build.Cost)
	assert.Equal(t, 10000, cfg.Training.MaxTicks)
	assert.Equal(t, []components.ObjectTag{components.TagShelter, components.TagChallenge, components.TagDanger}, cfg.Derived.BandTags)

	danger, ok := cfg.Object(components.TagDanger)
	require.True(t, ok)
	assert.Equal(t, uint32(10), danger.Difficulty)
	assert.False(t, danger.AutoInteract)

	_, ok = cfg.Object(components.TagStructure)
	assert.True(t, ok)
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	path := writeConfig(t, "world:\n  width: 30\ntraining:\n  samples: 3\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(30), cfg.World.Width)
	assert.Equal(t, int32(25), cfg.Agent.SpawnX)
	assert.Equal(t, int32(50), cfg.World.Height)
	assert.Equal(t, 3, cfg.Training.Samples)
	assert.Equal(t, 20, cfg.Training.Generations)
}

func TestStructureFallsBackToShelter(t *testing.T) {
	cfg := &Config{
		Objects: []ObjectConfig{{Tag: "shelter", AutoInteract: true, HP: 7, Draw: "rect"}},
	}
	require.NoError(t, cfg.computeDerived())

	structure, ok := cfg.Object(components.TagStructure)
	require.True(t, ok)
	assert.Equal(t, "structure", structure.Tag)
	assert.Equal(t, int32(7), structure.HP)
	assert.True(t, structure.AutoInteract)
}

func TestLoad_ObjectsMergeByTag(t *testing.T) {
	path := writeConfig(t, `
objects:
  - tag: danger
    penalty: 4
  - tag: shelter
    hp: 9
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Objects, 4)

	danger, ok := cfg.Object(components.TagDanger)
	require.True(t, ok)
	assert.Equal(t, uint32(4), danger.Penalty)
	assert.Equal(t, uint32(10), danger.Difficulty)
	assert.Equal(t, "round", danger.Draw)

	shelter, ok := cfg.Object(components.TagShelter)
	require.True(t, ok)
	assert.Equal(t, int32(9), shelter.HP)
	assert.True(t, shelter.AutoInteract)

	challenge, ok := cfg.Object(components.TagChallenge)
	require.True(t, ok)
	assert.Equal(t, int32(1), challenge.HP)
}

func TestLoad_BandsReplaceWhole(t *testing.T) {
	path := writeConfig(t, "generation:\n  bands:\n    - { object: danger, min: 15 }\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Generation.RollRange)
	require.Len(t, cfg.Generation.Bands, 1)
	assert.Equal(t, []components.ObjectTag{components.TagDanger}, cfg.Derived.BandTags)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().Objects, cfg.Objects)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero width", "world:\n  width: 0\n", "size must be positive"},
		{"spawn outside", "agent:\n  spawn_x: 80\n", "outside world"},
		{"unknown object tag", "objects:\n  - tag: volcano\n    draw: rect\n", "volcano"},
		{"unknown band tag", "generation:\n  bands:\n    - { object: lava, min: 1 }\n", "lava"},
		{"bad draw type", "objects:\n  - tag: shelter\n    draw: hexagon\n", "hexagon"},
		{"unknown action weight", "policy:\n  default_weights:\n    jump: 1\n", "jump"},
		{"zero roll sides", "interaction:\n  roll_sides: 0\n", "roll_sides"},
		{"zero max ticks", "training:\n  max_ticks: 0\n", "max_ticks"},
		{"not yaml", "world: [", "parsing config file"},
		{"objects not a list", "objects: 3\n", "objects must be a list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestHPBucketDefaultsToOne(t *testing.T) {
	cfg, err := Load(writeConfig(t, "perception:\n  hp_bucket: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), cfg.Perception.HPBucket)
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Training.Samples = 7
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Training.Samples)
	assert.Equal(t, cfg.Objects, loaded.Objects)
}
