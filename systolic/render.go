package systolic

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/sysarray/mesh"
)

// RenderState draws the accumulators and edge buffers of a state as text
// tables.
func RenderState(name string, s State) string {
	n := s.Size()

	accTable := table.NewWriter()
	accTable.SetTitle(fmt.Sprintf("%s Accumulators", name))

	header := table.Row{"Row"}
	for j := 0; j < n; j++ {
		header = append(header, fmt.Sprintf("C%d", j))
	}
	header = append(header, "East")
	accTable.AppendHeader(header)

	for i := 0; i < n; i++ {
		row := table.Row{fmt.Sprintf("R%d", i)}
		for j := 0; j < n; j++ {
			row = append(row, s.Cells[i][j].Accumulator)
		}
		row = append(row, s.Result[i][n])
		accTable.AppendRow(row)
	}

	edgeTable := table.NewWriter()
	edgeTable.SetTitle(fmt.Sprintf("%s Boundaries", name))
	edgeTable.AppendHeader(table.Row{"Side", "Values"})
	edgeTable.AppendRow(table.Row{mesh.North.Name(), fmt.Sprint(s.Weight[0])})
	edgeTable.AppendRow(table.Row{mesh.South.Name(), fmt.Sprint(s.Weight[n])})

	west := make([]uint64, n)
	for i := 0; i < n; i++ {
		west[i] = s.Activation[i][0]
	}
	edgeTable.AppendRow(table.Row{mesh.West.Name(), fmt.Sprint(west)})

	return accTable.Render() + "\n" + edgeTable.Render()
}

// PrintState prints the engine state when state printing is toggled on.
func PrintState(e *Engine) {
	if !mesh.PrintToggle {
		return
	}
	fmt.Println(RenderState(e.Name(), *e.cur))
}
