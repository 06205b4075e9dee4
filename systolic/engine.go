// Package systolic models a size x size systolic array of compute cells.
// Weights enter from the North and move down one row per tick, activations
// enter from the West and move right one column per tick, and results are
// shifted out through the East by the carry-enable chain.
package systolic

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/core"
	"github.com/sarchlab/sysarray/mesh"
)

// HookPosEngineTick marks the end of an engine tick. The hook item is a
// TickRecord.
var HookPosEngineTick = &sim.HookPos{Name: "Engine Tick"}

// HookPosEngineReset marks an asynchronous reset. The hook item is the
// engine's State after the reset.
var HookPosEngineReset = &sim.HookPos{Name: "Engine Reset"}

// Engine is a grid of compute cells wired by edge buffers. The next state
// is always computed from the current state into a separate buffer, and the
// two are swapped at the end of the tick.
type Engine struct {
	*sim.HookableBase

	name  string
	spec  Spec
	cur   *State
	next  *State
	ticks uint64
}

// Name returns the name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// Spec returns the parameters of the engine.
func (e *Engine) Spec() Spec {
	return e.spec
}

// Size returns the grid dimension.
func (e *Engine) Size() int {
	return e.spec.Size
}

// Ticks returns the number of ticks since the engine was built.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.cur.Clone()
}

// Accumulators returns a copy of every cell's accumulator.
func (e *Engine) Accumulators() [][]uint64 {
	return e.cur.Accumulators()
}

// EdgeVector returns a copy of the edge buffer on the given boundary: the
// last injected weights (North), the weights leaving the bottom row
// (South), the last injected activations (West) or the last result output
// (East).
func (e *Engine) EdgeVector(side mesh.Side) []uint64 {
	n := e.spec.Size
	v := make([]uint64, n)

	for k := 0; k < n; k++ {
		switch side {
		case mesh.North:
			v[k] = e.cur.Weight[0][k]
		case mesh.South:
			v[k] = e.cur.Weight[n][k]
		case mesh.West:
			v[k] = e.cur.Activation[k][0]
		case mesh.East:
			v[k] = e.cur.Result[k][n]
		default:
			panic("invalid side")
		}
	}

	return v
}

// Reset forces every register and edge buffer to zero immediately.
func (e *Engine) Reset() {
	e.cur.clear()
	e.next.clear()

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosEngineReset,
			Item:   e.cur.Clone(),
		})
	}
}

// Tick advances the engine by one clock cycle. The returned outputs are
// driven by the accumulators latched before the tick.
func (e *Engine) Tick(in Inputs) Outputs {
	in = e.normalize(in)

	var pre State
	if e.NumHooks() > 0 {
		pre = e.cur.Clone()
	}

	out := e.evaluate(in)
	e.cur, e.next = e.next, e.cur
	e.ticks++

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosEngineTick,
			Item: TickRecord{
				Name: e.name,
				Tick: e.ticks,
				Pre:  pre,
				In:   in,
				Post: e.cur.Clone(),
				Out:  out,
			},
		})
	}

	return out
}

func (e *Engine) normalize(in Inputs) Inputs {
	n := e.spec.Size

	in.ActivationIn = e.vectorOrZeros(in.ActivationIn, "activation")
	in.WeightIn = e.vectorOrZeros(in.WeightIn, "weight")

	switch len(in.CarryEnable) {
	case 0:
		in.CarryEnable = make([]bool, n)
	case n:
	default:
		panic(fmt.Sprintf("carry enable has %d entries, want %d",
			len(in.CarryEnable), n))
	}

	return in
}

func (e *Engine) vectorOrZeros(v []uint64, what string) []uint64 {
	n := e.spec.Size
	out := make([]uint64, n)

	switch len(v) {
	case 0:
	case n:
		for k := range v {
			out[k] = e.spec.Width.Truncate(v[k])
		}
	default:
		panic(fmt.Sprintf("%s vector has %d entries, want %d", what, len(v), n))
	}

	return out
}

// evaluate fills e.next from e.cur and the inputs of this tick and returns
// the outputs. The registers in e.cur are left untouched.
func (e *Engine) evaluate(in Inputs) Outputs {
	n := e.spec.Size
	cur, next := e.cur, e.next
	out := Outputs{DataOut: make([]uint64, n)}

	if in.Reset {
		next.clear()
		return out
	}

	next.copyFrom(*cur)

	for k := 0; k < n; k++ {
		next.Weight[0][k] = in.WeightIn[k]
		next.Activation[k][0] = in.ActivationIn[k]
	}

	for i := 0; i < n; i++ {
		next.Result[i][0] = 0
		for j := 0; j < n; j++ {
			cell := cur.Cells[i][j]
			next.Result[i][j+1] = cell.ResultOut(next.Result[i][j], in.CarryEnable[j])
		}
		out.DataOut[i] = next.Result[i][n]
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cell := cur.Cells[i][j]
			ns := cell.Next(e.cellInputs(in, i, j), in.Control(j))

			next.Cells[i][j].Latch(ns)
			next.Weight[i+1][j] = ns.WeightOut
			next.Activation[i][j+1] = ns.ActivationOut
		}
	}

	return out
}

func (e *Engine) cellInputs(in Inputs, row, col int) core.Inputs {
	w := e.cur.Weight[row][col]
	if row == 0 {
		w = in.WeightIn[col]
	}

	a := e.cur.Activation[row][col]
	if col == 0 {
		a = in.ActivationIn[row]
	}

	return core.Inputs{Weight: w, Activation: a}
}
