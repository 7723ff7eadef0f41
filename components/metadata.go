package components

// Wire names, indexed by the enum value. The order must match the constants.
var (
	actionNames    = [NumActions]string{"move_up", "move_down", "move_left", "move_right", "interact", "build", "wait"}
	tagNames       = [NumObjectTags]string{"shelter", "challenge", "danger", "structure"}
	directionNames = [numDirections]string{"up", "down", "left", "right"}
	drawTypeNames  = [numDrawTypes]string{"none", "rect", "round", "circle", "pixel", "star", "line"}
)

// ActionNames returns the wire names of all actions in canonical order.
func ActionNames() []string {
	return actionNames[:]
}

// ObjectTagNames returns the names of all object tags in canonical order.
func ObjectTagNames() []string {
	return tagNames[:]
}

// DirectionNames returns the names of all directions in canonical order.
func DirectionNames() []string {
	return directionNames[:]
}
