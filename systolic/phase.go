package systolic

import (
	"fmt"

	"github.com/sarchlab/sysarray/mesh"
)

// LoadTicks returns how many ticks a skewed load of k operand vectors
// occupies on a grid of the given size. The last pair reaches the far
// corner cell 2(size-1) ticks after it enters.
func LoadTicks(k, size int) int {
	if k == 0 {
		return 0
	}
	return k + 2*(size-1)
}

// Skew turns k logical vectors into the physical injection schedule. Row
// r's activation and column c's weight of logical tick t are injected at
// physical ticks t+r and t+c, so that both reach cell (r, c) in the same
// tick. Ticks outside the valid range carry zeros.
func Skew(activations, weights [][]uint64, size int) (act, wt [][]uint64) {
	k := mustSameLength(activations, weights, size)
	total := LoadTicks(k, size)

	act = make2D(total, size)
	wt = make2D(total, size)

	for t := 0; t < k; t++ {
		for lane := 0; lane < size; lane++ {
			act[t+lane][lane] = activations[t][lane]
			wt[t+lane][lane] = weights[t][lane]
		}
	}

	return act, wt
}

func mustSameLength(activations, weights [][]uint64, size int) int {
	if len(activations) != len(weights) {
		panic(fmt.Sprintf("got %d activation vectors and %d weight vectors",
			len(activations), len(weights)))
	}

	for t := range activations {
		if len(activations[t]) != size || len(weights[t]) != size {
			panic(fmt.Sprintf("vector %d does not have %d entries", t, size))
		}
	}

	return len(activations)
}

// CarryWalk returns the carry-enable vector of readout step t. Every
// column right of size-1-t passes its upstream result, so the row output
// exposes the accumulator of column size-1-t.
func CarryWalk(size, step int) []bool {
	ce := make([]bool, size)
	for j := 0; j < size; j++ {
		ce[j] = j > size-1-step
	}
	return ce
}

// Load injects the operands with the wavefront skew while every cell
// accumulates.
func (e *Engine) Load(activations, weights [][]uint64) {
	act, wt := Skew(activations, weights, e.spec.Size)

	e.tracePhase("Load", len(act))

	for t := range act {
		e.Tick(Inputs{ActivationIn: act[t], WeightIn: wt[t]})
	}
}

// Drain freezes the accumulators and walks the carry-enable chain. It
// returns, for each row, the values emitted in order, which is column
// size-1 first.
func (e *Engine) Drain() [][]uint64 {
	n := e.spec.Size
	readout := make2D(n, n)

	e.tracePhase("Drain", n)

	for step := 0; step < n; step++ {
		out := e.Tick(Inputs{Load: true, CarryEnable: CarryWalk(n, step)})
		for row := 0; row < n; row++ {
			readout[row][step] = out.DataOut[row]
		}
	}

	PrintState(e)

	return readout
}

// Clear zeroes every accumulator in one tick.
func (e *Engine) Clear() {
	e.tracePhase("Clear", 1)
	e.Tick(Inputs{Clear: true})
}

// Flush clears for size ticks so that no operand from an earlier run is
// still travelling through the passthrough registers.
func (e *Engine) Flush() {
	e.tracePhase("Flush", e.spec.Size)
	for t := 0; t < e.spec.Size; t++ {
		e.Tick(Inputs{Clear: true})
	}
}

// Multiply runs one independent accumulation: flush, load, drain and clear.
// The result is the serial readout of each row.
func (e *Engine) Multiply(activations, weights [][]uint64) [][]uint64 {
	e.Flush()
	e.Load(activations, weights)
	readout := e.Drain()
	e.Clear()

	return readout
}

// ReadoutToMatrix reorders a serial readout into [row][col] order.
func ReadoutToMatrix(readout [][]uint64) [][]uint64 {
	n := len(readout)
	m := make2D(n, n)
	for r := 0; r < n; r++ {
		for step := 0; step < n; step++ {
			m[r][n-1-step] = readout[r][step]
		}
	}
	return m
}

func (e *Engine) tracePhase(phase string, ticks int) {
	mesh.Trace("Engine",
		"Behavior", "Phase",
		"Name", e.name,
		"Phase", phase,
		"Tick", e.ticks,
		"Duration", ticks,
	)
}
