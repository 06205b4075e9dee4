package fifo

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/sysarray/mesh"
)

// Spec holds the immutable parameters of a queue.
type Spec struct {
	Depth int        // Number of word slots
	Width mesh.Width // Bits per word
}

// Validate reports whether the spec describes a buildable queue.
func (s Spec) Validate() error {
	if s.Depth <= 0 {
		return errors.Errorf("depth must be > 0, got %d", s.Depth)
	}
	return s.Width.Validate()
}

// DefaultSpec returns an 8-deep queue of 32-bit words.
func DefaultSpec() Spec {
	return Spec{
		Depth: 8,
		Width: 32,
	}
}
