// Package components defines the value types shared by the policy, the
// simulation world and its observers.
package components

import "fmt"

// Action is one discrete agent choice. The declaration order is the
// canonical order used for weighted sampling and serialization.
type Action uint8

const (
	MoveUp Action = iota
	MoveDown
	MoveLeft
	MoveRight
	Interact
	Build
	Wait
)

// NumActions is the size of the closed action set.
const NumActions = int(Wait) + 1

// AllActions returns every action in canonical order.
func AllActions() [NumActions]Action {
	return [NumActions]Action{MoveUp, MoveDown, MoveLeft, MoveRight, Interact, Build, Wait}
}

// Valid reports whether a is a member of the action set.
func (a Action) Valid() bool {
	return int(a) < NumActions
}

// String returns the wire name of the action.
func (a Action) String() string {
	if a.Valid() {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", uint8(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction resolves a wire name such as "move_up".
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return Wait, fmt.Errorf("unknown action %q", name)
}

// ObjectTag identifies the kind of a world object. Declaration order is the
// canonical order used when sorting perception factors.
type ObjectTag uint8

const (
	TagShelter ObjectTag = iota
	TagChallenge
	TagDanger
	TagStructure // built by the agent
)

// NumObjectTags is the size of the closed tag set.
const NumObjectTags = int(TagStructure) + 1

// Valid reports whether t is a member of the tag set.
func (t ObjectTag) Valid() bool {
	return int(t) < NumObjectTags
}

func (t ObjectTag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t ObjectTag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid object tag %d", uint8(t))
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ObjectTag) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseObjectTag resolves a tag name such as "shelter".
func ParseObjectTag(name string) (ObjectTag, error) {
	for i, n := range tagNames {
		if n == name {
			return ObjectTag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object tag %q", name)
}
