// Some helpers using closures to generate values
package valgen

import (
	"fmt"
	"math/rand"
)

// MakeConstGen returns the same value on every call.
func MakeConstGen(constant uint64) func() uint64 {
	return func() uint64 {
		return constant
	}
}

// MakeIncreasingGen counts up from start, returning start+1 first.
func MakeIncreasingGen(start uint64) func() uint64 {
	current := start
	return func() uint64 {
		current++
		return current
	}
}

// MakeRandomGen draws values uniformly from [lo, hi].
func MakeRandomGen(rng *rand.Rand, lo, hi uint64) func() uint64 {
	if hi < lo {
		panic(fmt.Sprintf("empty range [%d, %d]", lo, hi))
	}
	span := hi - lo + 1
	return func() uint64 {
		if span == 0 {
			return rng.Uint64()
		}
		return lo + rng.Uint64()%span
	}
}

// MakeVectorGen groups size consecutive values into one vector.
func MakeVectorGen(gen func() uint64, size int) func() []uint64 {
	return func() []uint64 {
		v := make([]uint64, size)
		for i := range v {
			v[i] = gen()
		}
		return v
	}
}
