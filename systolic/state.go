package systolic

import "github.com/sarchlab/sysarray/core"

// State is the registered state of an engine together with the edge buffers
// that wire its cells.
//
// Weight is (size+1) x size: Weight[i][j] feeds cell (i, j) and Weight[0] is
// the North boundary. Activation and Result are size x (size+1):
// Activation[i][j] feeds cell (i, j) and Activation[i][0] is the West
// boundary; Result[i][j+1] is driven by cell (i, j) and Result[i][size] is
// the East output.
type State struct {
	Weight     [][]uint64
	Activation [][]uint64
	Result     [][]uint64
	Cells      [][]core.Cell
}

func newState(spec Spec) State {
	n := spec.Size
	s := State{
		Weight:     make2D(n+1, n),
		Activation: make2D(n, n+1),
		Result:     make2D(n, n+1),
		Cells:      make([][]core.Cell, n),
	}

	for i := 0; i < n; i++ {
		s.Cells[i] = make([]core.Cell, n)
		for j := 0; j < n; j++ {
			s.Cells[i][j] = core.NewCell(i, j, spec.Width)
		}
	}

	return s
}

func make2D(rows, cols int) [][]uint64 {
	m := make([][]uint64, rows)
	for i := range m {
		m[i] = make([]uint64, cols)
	}
	return m
}

func copy2D(dst, src [][]uint64) {
	for i := range src {
		copy(dst[i], src[i])
	}
}

func zero2D(m [][]uint64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = 0
		}
	}
}

// Size returns the grid dimension.
func (s State) Size() int {
	return len(s.Cells)
}

// Accumulators returns a copy of every cell's accumulator, indexed
// [row][col].
func (s State) Accumulators() [][]uint64 {
	n := s.Size()
	acc := make2D(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			acc[i][j] = s.Cells[i][j].Accumulator
		}
	}
	return acc
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	n := s.Size()
	c := State{
		Weight:     make2D(n+1, n),
		Activation: make2D(n, n+1),
		Result:     make2D(n, n+1),
		Cells:      make([][]core.Cell, n),
	}
	copy2D(c.Weight, s.Weight)
	copy2D(c.Activation, s.Activation)
	copy2D(c.Result, s.Result)
	for i := range s.Cells {
		c.Cells[i] = make([]core.Cell, n)
		copy(c.Cells[i], s.Cells[i])
	}
	return c
}

func (s *State) copyFrom(o State) {
	copy2D(s.Weight, o.Weight)
	copy2D(s.Activation, o.Activation)
	copy2D(s.Result, o.Result)
	for i := range o.Cells {
		copy(s.Cells[i], o.Cells[i])
	}
}

func (s *State) clear() {
	zero2D(s.Weight)
	zero2D(s.Activation)
	zero2D(s.Result)
	for i := range s.Cells {
		for j := range s.Cells[i] {
			s.Cells[i][j].Reset()
		}
	}
}

// Inputs are the boundary signals sampled at one tick. Nil vectors are
// treated as all zeros or all false.
type Inputs struct {
	Reset        bool
	Load         bool
	Clear        bool
	CarryEnable  []bool
	ActivationIn []uint64
	WeightIn     []uint64
}

// Control returns the control bundle seen by the cell in column col.
func (in Inputs) Control(col int) core.Control {
	return core.Control{
		Load:        in.Load,
		Clear:       in.Clear,
		CarryEnable: in.CarryEnable[col],
	}
}

// Outputs are the values the engine drives at a tick.
type Outputs struct {
	DataOut []uint64
}

// TickRecord captures one tick of an engine for monitors. Pre holds the
// registers before the tick; the boundary values of the tick are in In.
type TickRecord struct {
	Name string
	Tick uint64
	Pre  State
	In   Inputs
	Post State
	Out  Outputs
}
