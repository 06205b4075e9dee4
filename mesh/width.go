package mesh

import (
	"math/bits"

	"github.com/pkg/errors"
)

// MaxWidth is the widest word the model supports.
const MaxWidth = 64

// Width is the number of bits in a data word.
type Width uint

// Validate checks that the width can be represented.
func (w Width) Validate() error {
	if w == 0 || w > MaxWidth {
		return errors.Errorf("word width must be in [1, %d], got %d", MaxWidth, w)
	}
	return nil
}

// Mask returns the all-ones word of this width.
func (w Width) Mask() uint64 {
	if w >= MaxWidth {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

// Truncate narrows v to the width, dropping the high bits.
func (w Width) Truncate(v uint64) uint64 {
	return v & w.Mask()
}

// Product returns the double-width product of two words as its high and low
// halves, each w bits wide.
func (w Width) Product(a, b uint64) (hi, lo uint64) {
	a, b = w.Truncate(a), w.Truncate(b)
	h, l := bits.Mul64(a, b)
	if w >= MaxWidth {
		return h, l
	}
	hi = (h<<(MaxWidth-w) | l>>w) & w.Mask()
	lo = l & w.Mask()
	return hi, lo
}

// Multiply is the multiply primitive of a cell. The double-width product is
// narrowed to the word width, so overflow wraps around.
func (w Width) Multiply(a, b uint64) uint64 {
	_, lo := w.Product(a, b)
	return lo
}

// Add returns a+b wrapped to the width.
func (w Width) Add(a, b uint64) uint64 {
	return w.Truncate(a + b)
}
