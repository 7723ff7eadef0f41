package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func rlVec(x, y float32) rl.Vector2 {
	return rl.Vector2{X: x, Y: y}
}

func length(v rl.Vector2) float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}
