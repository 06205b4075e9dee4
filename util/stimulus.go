package valgen

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// Pattern selects how operand values are produced.
type Pattern string

const (
	// PatternRandom draws every value uniformly from [Lo, Hi].
	PatternRandom Pattern = "random"
	// PatternConst repeats Lo, which makes every product the same.
	PatternConst Pattern = "const"
	// PatternIncreasing counts up from Lo in draw order.
	PatternIncreasing Pattern = "increasing"
)

// Validate reports whether the pattern is known. The empty pattern means
// PatternRandom.
func (p Pattern) Validate() error {
	switch p {
	case "", PatternRandom, PatternConst, PatternIncreasing:
		return nil
	default:
		return errors.Errorf("unknown pattern %q", string(p))
	}
}

// Stimulus describes reproducible operands for a systolic run.
type Stimulus struct {
	Seed    int64
	Size    int
	Lo      uint64
	Hi      uint64
	Pattern Pattern
}

// DefaultStimulus draws operands from [0, 99].
func DefaultStimulus(size int, seed int64) Stimulus {
	return Stimulus{
		Seed: seed,
		Size: size,
		Lo:   0,
		Hi:   99,
	}
}

// Generate returns k activation vectors and k weight vectors. The same
// stimulus always produces the same vectors.
func (s Stimulus) Generate(k int) (activations, weights [][]uint64) {
	next := MakeVectorGen(s.values(), s.Size)

	activations = make([][]uint64, k)
	weights = make([][]uint64, k)
	for t := 0; t < k; t++ {
		activations[t] = next()
		weights[t] = next()
	}

	return activations, weights
}

func (s Stimulus) values() func() uint64 {
	switch s.Pattern {
	case "", PatternRandom:
		return MakeRandomGen(rand.New(rand.NewSource(s.Seed)), s.Lo, s.Hi)
	case PatternConst:
		return MakeConstGen(s.Lo)
	case PatternIncreasing:
		return MakeIncreasingGen(s.Lo)
	default:
		panic(fmt.Sprintf("unknown pattern %q", string(s.Pattern)))
	}
}

// Flatten lays vectors out one after another, the order FeedIn expects.
func Flatten(vectors [][]uint64) []uint64 {
	flat := make([]uint64, 0)
	for _, v := range vectors {
		flat = append(flat, v...)
	}
	return flat
}
