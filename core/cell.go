// Package core models the compute cell, the multiply-accumulate tile that
// the systolic array is built from.
package core

import (
	"fmt"

	"github.com/sarchlab/sysarray/mesh"
)

// Op is the accumulator update a cell performs in a tick.
type Op int

const (
	OpAccumulate Op = iota
	OpHold
	OpClear
)

// Name returns the name of the op.
func (o Op) Name() string {
	switch o {
	case OpAccumulate:
		return "Accumulate"
	case OpHold:
		return "Hold"
	case OpClear:
		return "Clear"
	default:
		panic("invalid op")
	}
}

// Control holds the control inputs of a cell.
type Control struct {
	Load        bool
	Clear       bool
	CarryEnable bool
}

// Op selects the accumulator update. Clear wins over load.
func (c Control) Op() Op {
	switch {
	case c.Clear:
		return OpClear
	case c.Load:
		return OpHold
	default:
		return OpAccumulate
	}
}

// Inputs are the operands a cell samples from its edges.
type Inputs struct {
	Weight     uint64
	Activation uint64
}

// State is the registered state of a cell.
type State struct {
	Accumulator   uint64
	WeightOut     uint64
	ActivationOut uint64
}

// A Cell is a multiply-accumulate unit. The passthrough registers forward
// its operands one grid position per tick.
type Cell struct {
	State

	Row, Col int
	width    mesh.Width
}

// NewCell creates a cell in its reset state.
func NewCell(row, col int, width mesh.Width) Cell {
	return Cell{Row: row, Col: col, width: width}
}

// Width returns the word width of the cell.
func (c Cell) Width() mesh.Width {
	return c.width
}

// Next returns the state the cell latches at the end of a tick. It only
// reads the current state.
func (c Cell) Next(in Inputs, ctrl Control) State {
	next := State{
		Accumulator:   c.Accumulator,
		WeightOut:     c.width.Truncate(in.Weight),
		ActivationOut: c.width.Truncate(in.Activation),
	}

	switch ctrl.Op() {
	case OpClear:
		next.Accumulator = 0
	case OpHold:
	case OpAccumulate:
		product := c.width.Multiply(in.Activation, in.Weight)
		next.Accumulator = c.width.Add(c.Accumulator, product)
	}

	return next
}

// Latch replaces the registered state.
func (c *Cell) Latch(s State) {
	c.State = s
}

// Reset zeroes every register of the cell.
func (c *Cell) Reset() {
	c.State = State{}
}

// ResultOut is the value the cell drives on its result output. With carry
// enabled, the cell passes the upstream result through instead of exposing
// its accumulator.
func (c Cell) ResultOut(carryIn uint64, carryEnable bool) uint64 {
	if carryEnable {
		return carryIn
	}
	return c.Accumulator
}

func (c Cell) String() string {
	return fmt.Sprintf("Cell(%d, %d)[acc=%d w=%d a=%d]",
		c.Row, c.Col, c.Accumulator, c.WeightOut, c.ActivationOut)
}
