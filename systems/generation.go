package systems

import (
	"math/rand"

	"github.com/pthm-cable/gridlife/components"
	"github.com/pthm-cable/gridlife/config"
)

// Placement is one object to spawn at world creation.
type Placement struct {
	Tag components.ObjectTag
	Pos components.Position
}

// Generate draws the initial object layout. Every interior cell
// (x in [1,width), y in [1,height)) draws once from rng in row-major order;
// the first band whose minimum the draw reaches places its object.
func Generate(rng *rand.Rand, cfg *config.Config) []Placement {
	var out []Placement
	for y := int32(1); y < cfg.World.Height; y++ {
		for x := int32(1); x < cfg.World.Width; x++ {
			draw := rng.Intn(cfg.Generation.RollRange)
			for i, band := range cfg.Generation.Bands {
				if draw >= band.Min {
					out = append(out, Placement{
						Tag: cfg.Derived.BandTags[i],
						Pos: components.Position{X: x, Y: y},
					})
					break
				}
			}
		}
	}
	return out
}

// Spawn builds the object state and appearance for tag from its template.
func Spawn(cfg *config.Config, tag components.ObjectTag) (components.Object, components.Appearance, bool) {
	tmpl, ok := cfg.Object(tag)
	if !ok {
		return components.Object{}, components.Appearance{}, false
	}
	draw, _ := components.ParseDrawType(tmpl.Draw)
	obj := components.Object{
		Tag:           tag,
		Alive:         tmpl.HP > 0,
		AutoInteract:  tmpl.AutoInteract,
		HP:            tmpl.HP,
		Difficulty:    tmpl.Difficulty,
		Penalty:       tmpl.Penalty,
		RewardHP:      tmpl.RewardHP,
		RewardAbility: tmpl.RewardAbility,
	}
	app := components.Appearance{
		Draw:  draw,
		Color: tmpl.Color,
		Size:  tmpl.Size,
	}
	return obj, app, true
}
