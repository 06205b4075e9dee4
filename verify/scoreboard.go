package verify

import (
	"fmt"

	"github.com/sarchlab/sysarray/mesh"
)

// Scoreboard is the reference model of one accumulation run. It keeps the
// expected sum of every (row, column) and matches each row's serial output
// against it, last column first.
type Scoreboard struct {
	name     string
	size     int
	width    mesh.Width
	expected [][]uint64
	nextCol  []int
	observed int
	issues   []Issue
}

// NewScoreboard creates an empty scoreboard for a size x size engine.
func NewScoreboard(name string, size int, width mesh.Width) *Scoreboard {
	s := &Scoreboard{
		name:  name,
		size:  size,
		width: width,
	}
	s.Reset()
	return s
}

// Reset starts a new independent run.
func (s *Scoreboard) Reset() {
	s.expected = make([][]uint64, s.size)
	s.nextCol = make([]int, s.size)
	for r := range s.expected {
		s.expected[r] = make([]uint64, s.size)
		s.nextCol[r] = s.size - 1
	}
	s.observed = 0
	s.issues = nil
}

// AddPair accumulates one logical tick of operands: activation[r] meets
// weight[c] in cell (r, c).
func (s *Scoreboard) AddPair(activation, weight []uint64) {
	if len(activation) != s.size || len(weight) != s.size {
		panic(fmt.Sprintf("operand vectors must have %d entries", s.size))
	}

	for r := 0; r < s.size; r++ {
		for c := 0; c < s.size; c++ {
			p := s.width.Multiply(activation[r], weight[c])
			s.expected[r][c] = s.width.Add(s.expected[r][c], p)
		}
	}
}

// AddPairs accumulates several logical ticks.
func (s *Scoreboard) AddPairs(activations, weights [][]uint64) {
	if len(activations) != len(weights) {
		panic("activation and weight streams differ in length")
	}
	for t := range activations {
		s.AddPair(activations[t], weights[t])
	}
}

// Observe matches the next value emitted by a row. It reports whether the
// value was the expected one.
func (s *Scoreboard) Observe(row int, value uint64) bool {
	s.observed++

	if row < 0 || row >= s.size {
		s.mismatch(row, -1, "row out of range",
			map[string]interface{}{"value": value})
		return false
	}

	col := s.nextCol[row]
	if col < 0 {
		s.mismatch(row, -1, "row emitted more values than it has columns",
			map[string]interface{}{"value": value})
		return false
	}
	s.nextCol[row]--

	want := s.expected[row][col]
	if value != want {
		s.mismatch(row, col, fmt.Sprintf("observed %d, expected %d", value, want),
			map[string]interface{}{"observed": value, "expected": want})
		return false
	}

	return true
}

// ObserveReadout matches a whole serial readout, indexed [row][step].
func (s *Scoreboard) ObserveReadout(readout [][]uint64) {
	for row := range readout {
		for _, v := range readout[row] {
			s.Observe(row, v)
		}
	}
}

func (s *Scoreboard) mismatch(row, col int, msg string, details map[string]interface{}) {
	issue := Issue{
		Type:      IssueScoreboard,
		Component: s.name,
		Row:       row,
		Col:       col,
		Tick:      uint64(s.observed),
		Message:   msg,
		Details:   details,
	}
	traceIssue(issue)
	s.issues = append(s.issues, issue)
}

// Expected returns a copy of the expected sums, indexed [row][col].
func (s *Scoreboard) Expected() [][]uint64 {
	out := make([][]uint64, s.size)
	for r := range s.expected {
		out[r] = append([]uint64(nil), s.expected[r]...)
	}
	return out
}

// Observed returns how many values were matched.
func (s *Scoreboard) Observed() int {
	return s.observed
}

// Pending returns how many expected values have not been observed yet.
func (s *Scoreboard) Pending() int {
	pending := 0
	for _, col := range s.nextCol {
		if col >= 0 {
			pending += col + 1
		}
	}
	return pending
}

// Mismatches returns the number of mismatching or unexpected values.
func (s *Scoreboard) Mismatches() int {
	return len(s.issues)
}

// Issues returns the mismatches.
func (s *Scoreboard) Issues() []Issue {
	return s.issues
}
