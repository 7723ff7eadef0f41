package components

import "fmt"

// Position is a grid cell. X grows to the right, Y grows downward.
type Position struct {
	X, Y int32
}

// Direction is the dominant axis and sign from an observer to a target.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

const numDirections = int(DirRight) + 1

// Valid reports whether d is a member of the direction set.
func (d Direction) Valid() bool {
	return int(d) < numDirections
}

func (d Direction) String() string {
	if d.Valid() {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, n := range directionNames {
		if n == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// Sighting is what perception needs to know about a visible object.
type Sighting struct {
	Tag ObjectTag
	Pos Position
}
