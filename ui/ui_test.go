package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShares(t *testing.T) {
	shares := Shares([]WeightBar{{Name: "a", Weight: 1}, {Name: "b", Weight: 3}})
	assert.InDeltaSlice(t, []float32{0.25, 0.75}, shares, 1e-6)

	assert.Equal(t, []float32{0, 0}, Shares([]WeightBar{{}, {}}))
	assert.Empty(t, Shares(nil))
}

func TestTicksThisFrame(t *testing.T) {
	tests := []struct {
		name  string
		state PlaybackState
		want  int
	}{
		{"running", PlaybackState{Speed: 4}, 4},
		{"running zero speed", PlaybackState{}, 1},
		{"paused", PlaybackState{Paused: true, Speed: 4}, 0},
		{"step while paused", PlaybackState{Paused: true, Step: true, Speed: 4}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.TicksThisFrame())
		})
	}
}

func TestClampSpeed(t *testing.T) {
	assert.Equal(t, 1, ClampSpeed(0, 10))
	assert.Equal(t, 10, ClampSpeed(20, 10))
	assert.Equal(t, 5, ClampSpeed(5, 10))
	assert.Equal(t, 1, ClampSpeed(5, 0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "abcdefghij", truncate("abcdefghij", 3))
}
