package systolic

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/sysarray/mesh"
)

// Spec holds the immutable parameters of an engine.
type Spec struct {
	Size  int        // Rows and columns of the cell grid
	Width mesh.Width // Bits per word
}

// Validate reports whether the spec describes a buildable engine.
func (s Spec) Validate() error {
	if s.Size <= 0 {
		return errors.Errorf("size must be > 0, got %d", s.Size)
	}
	return s.Width.Validate()
}

// DefaultSpec returns a 4x4 engine of 32-bit words.
func DefaultSpec() Spec {
	return Spec{
		Size:  4,
		Width: 32,
	}
}
