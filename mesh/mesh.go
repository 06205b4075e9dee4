// Package mesh defines the commonly used data structures for the systolic
// array model.
package mesh

// Side defines a boundary of the array.
type Side int

// Weights enter from the North, activations from the West and results
// leave through the East.
const (
	North Side = iota
	East
	South
	West
)

// Name returns the name of the side.
func (s Side) Name() string {
	switch s {
	case North:
		return "North"
	case West:
		return "West"
	case South:
		return "South"
	case East:
		return "East"
	default:
		panic("invalid side")
	}
}

// Opposite returns the side across the array.
func (s Side) Opposite() Side {
	switch s {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		panic("invalid side")
	}
}
