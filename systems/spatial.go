// Package systems provides the per-tick rules of the grid simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridlife/components"
)

// Grid indexes entities by cell for co-location and view queries.
// Entities in one cell keep their insertion order.
type Grid struct {
	width  int32
	height int32
	cells  [][]ecs.Entity
}

// NewGrid creates an index covering a width x height world.
func NewGrid(width, height int32) *Grid {
	cells := make([][]ecs.Entity, int(width)*int(height))
	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Clear removes all entities from the grid.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at pos. Positions outside the grid are ignored.
func (g *Grid) Insert(e ecs.Entity, pos components.Position) {
	if idx, ok := g.cellIndex(pos); ok {
		g.cells[idx] = append(g.cells[idx], e)
	}
}

// At returns the entities at pos in insertion order. The slice is owned
// by the grid and is only valid until the next Insert or Clear.
func (g *Grid) At(pos components.Position) []ecs.Entity {
	if idx, ok := g.cellIndex(pos); ok {
		return g.cells[idx]
	}
	return nil
}

// QueryBoxInto appends every entity within the square of half-size radius
// around center to dst. Callers narrow the result with Visible.
func (g *Grid) QueryBoxInto(dst []ecs.Entity, center components.Position, radius uint32) []ecs.Entity {
	lo := ClampPosition(components.Position{
		X: int32(clampInt64(int64(center.X)-int64(radius), -1<<31, 1<<31-1)),
		Y: int32(clampInt64(int64(center.Y)-int64(radius), -1<<31, 1<<31-1)),
	}, g.width, g.height)
	hi := ClampPosition(components.Position{
		X: int32(clampInt64(int64(center.X)+int64(radius), -1<<31, 1<<31-1)),
		Y: int32(clampInt64(int64(center.Y)+int64(radius), -1<<31, 1<<31-1)),
	}, g.width, g.height)

	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			dst = append(dst, g.cells[int(y)*int(g.width)+int(x)]...)
		}
	}
	return dst
}

func (g *Grid) cellIndex(pos components.Position) (int, bool) {
	if pos.X < 0 || pos.Y < 0 || pos.X >= g.width || pos.Y >= g.height {
		return 0, false
	}
	return int(pos.Y)*int(g.width) + int(pos.X), true
}

// Visible keeps the sightings within radius of from, in their original order.
// It filters in place, reusing the backing array of sightings.
func Visible(from components.Position, radius uint32, sightings []components.Sighting) []components.Sighting {
	out := sightings[:0]
	for _, s := range sightings {
		if InView(from, radius, s.Pos) {
			out = append(out, s)
		}
	}
	return out
}
