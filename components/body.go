package components

import "fmt"

// Object holds the interactive state of a world object.
type Object struct {
	Tag           ObjectTag
	Alive         bool
	AutoInteract  bool
	HP            int32
	Difficulty    uint32
	Penalty       uint32
	RewardHP      uint32
	RewardAbility uint32
}

// Wear removes n hp from the object and marks it dead at zero.
func (o *Object) Wear(n int32) {
	o.HP = SatSub32(o.HP, n)
	if o.HP <= 0 {
		o.Alive = false
	}
}

// DrawType selects the shape a visualizer uses for an object.
type DrawType uint8

const (
	DrawNone DrawType = iota
	DrawRect
	DrawRound
	DrawCircle
	DrawPixel
	DrawStar
	DrawLine
)

const numDrawTypes = int(DrawLine) + 1

func (d DrawType) String() string {
	if int(d) < numDrawTypes {
		return drawTypeNames[d]
	}
	return fmt.Sprintf("draw(%d)", uint8(d))
}

// ParseDrawType resolves a draw type name such as "rect".
func ParseDrawType(name string) (DrawType, error) {
	for i, n := range drawTypeNames {
		if n == name {
			return DrawType(i), nil
		}
	}
	return DrawNone, fmt.Errorf("unknown draw type %q", name)
}

// Appearance is draw metadata. The simulation never reads it.
type Appearance struct {
	Draw  DrawType
	Color [4]uint8 // RGBA
	Size  uint8    // pixels at the default cell size
}
