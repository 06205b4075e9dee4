package verify

import (
	"fmt"

	"github.com/sarchlab/sysarray/systolic"
)

// CheckEngineTick validates one engine tick. The record's inputs must be
// complete vectors, as the engine reports them to hooks.
func CheckEngineTick(rec systolic.TickRecord) []Issue {
	var issues []Issue
	report := func(row, col int, msg string) {
		issues = append(issues, Issue{
			Type:      IssueEngine,
			Component: rec.Name,
			Row:       row,
			Col:       col,
			Tick:      rec.Tick,
			Message:   msg,
		})
	}

	pre, post, in := rec.Pre, rec.Post, rec.In
	n := pre.Size()
	if n == 0 {
		return issues
	}
	width := pre.Cells[0][0].Width()

	if len(rec.Out.DataOut) != n {
		report(-1, -1, fmt.Sprintf("output has %d rows, want %d", len(rec.Out.DataOut), n))
		return issues
	}

	if in.Reset {
		checkEngineCleared(post, rec.Out, report)
		return issues
	}

	for i := 0; i < n; i++ {
		carry := uint64(0)
		if post.Result[i][0] != 0 {
			report(i, 0, "result chain does not start at zero")
		}

		for j := 0; j < n; j++ {
			if !in.CarryEnable[j] {
				carry = pre.Cells[i][j].Accumulator
			}
			if post.Result[i][j+1] != carry {
				report(i, j, fmt.Sprintf("result edge holds %d, want %d",
					post.Result[i][j+1], carry))
			}
		}

		if rec.Out.DataOut[i] != carry {
			report(i, -1, fmt.Sprintf("row output %d, want %d", rec.Out.DataOut[i], carry))
		}
	}

	for k := 0; k < n; k++ {
		if post.Weight[0][k] != in.WeightIn[k] {
			report(0, k, "North boundary does not hold the injected weight")
		}
		if post.Activation[k][0] != in.ActivationIn[k] {
			report(k, 0, "West boundary does not hold the injected activation")
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := pre.Weight[i][j]
			if i == 0 {
				w = in.WeightIn[j]
			}
			a := pre.Activation[i][j]
			if j == 0 {
				a = in.ActivationIn[i]
			}

			cell := post.Cells[i][j]
			if cell.WeightOut != w || post.Weight[i+1][j] != w {
				report(i, j, fmt.Sprintf("weight %d did not hop one row", w))
			}
			if cell.ActivationOut != a || post.Activation[i][j+1] != a {
				report(i, j, fmt.Sprintf("activation %d did not hop one column", a))
			}

			acc := pre.Cells[i][j].Accumulator
			switch {
			case in.Clear:
				acc = 0
			case in.Load:
			default:
				acc = width.Add(acc, width.Multiply(a, w))
			}
			if cell.Accumulator != acc {
				report(i, j, fmt.Sprintf("accumulator %d, want %d", cell.Accumulator, acc))
			}
		}
	}

	return issues
}

// CheckEngineState validates that every register and edge of a state is
// zero, as it must be right after a reset.
func CheckEngineState(name string, tick uint64, s systolic.State) []Issue {
	var issues []Issue
	n := s.Size()
	checkEngineCleared(s, systolic.Outputs{DataOut: make([]uint64, n)},
		func(row, col int, msg string) {
			issues = append(issues, Issue{
				Type:      IssueEngine,
				Component: name,
				Row:       row,
				Col:       col,
				Tick:      tick,
				Message:   msg,
			})
		})
	return issues
}

func checkEngineCleared(
	s systolic.State,
	out systolic.Outputs,
	report func(row, col int, msg string),
) {
	for i, row := range s.Cells {
		for j, cell := range row {
			if cell.Accumulator != 0 || cell.WeightOut != 0 || cell.ActivationOut != 0 {
				report(i, j, "cell not cleared by reset")
			}
		}
	}

	edges := [][][]uint64{s.Weight, s.Activation, s.Result}
	for _, edge := range edges {
		for i := range edge {
			for j := range edge[i] {
				if edge[i][j] != 0 {
					report(i, j, "edge buffer not cleared by reset")
				}
			}
		}
	}

	for i, v := range out.DataOut {
		if v != 0 {
			report(i, -1, "output not cleared by reset")
		}
	}
}
