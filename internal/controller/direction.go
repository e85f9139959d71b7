package controller

// Direction is the adjustment direction of a step intent
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection maps a raw token to a Direction.
// Unknown tokens are reported as not-ok; step operations treat them as no-ops.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionUp:
		return DirectionUp, true
	case DirectionDown:
		return DirectionDown, true
	default:
		return "", false
	}
}
