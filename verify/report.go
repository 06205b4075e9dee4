package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name        string
	Invariants  []Issue
	Mismatches  []Issue
	QueueTicks  uint64
	EngineTicks uint64
	Expected    [][]uint64
	Observed    [][]uint64
	Pending     int
}

// GenerateReport gathers the results of a monitor and a scoreboard.
// observed is the result matrix read back from the engine, indexed
// [row][col]; it may be nil.
func GenerateReport(
	name string,
	monitor *Monitor,
	scoreboard *Scoreboard,
	observed [][]uint64,
) *VerificationReport {
	r := &VerificationReport{
		Name:     name,
		Observed: observed,
	}

	if monitor != nil {
		r.Invariants = monitor.Issues()
		r.QueueTicks = monitor.QueueTicks()
		r.EngineTicks = monitor.EngineTicks()
	}

	if scoreboard != nil {
		r.Mismatches = scoreboard.Issues()
		r.Expected = scoreboard.Expected()
		r.Pending = scoreboard.Pending()
	}

	return r
}

// Passed reports whether no invariant was violated and every expected value
// was observed correctly.
func (r *VerificationReport) Passed() bool {
	return len(r.Invariants) == 0 && len(r.Mismatches) == 0 && r.Pending == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "SYSTOLIC ARRAY VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	summary := table.NewWriter()
	summary.SetTitle("Summary")
	summary.AppendHeader(table.Row{"Check", "Count"})
	summary.AppendRow(table.Row{"Queue ticks checked", r.QueueTicks})
	summary.AppendRow(table.Row{"Engine ticks checked", r.EngineTicks})
	summary.AppendRow(table.Row{"Invariant violations", len(r.Invariants)})
	summary.AppendRow(table.Row{"Scoreboard mismatches", len(r.Mismatches)})
	summary.AppendRow(table.Row{"Values never observed", r.Pending})
	fmt.Fprintln(w, summary.Render())

	if len(r.Invariants)+len(r.Mismatches) > 0 {
		issues := table.NewWriter()
		issues.SetTitle("Issues")
		issues.AppendHeader(table.Row{"Type", "Component", "Row", "Col", "Tick", "Message"})
		for _, list := range [][]Issue{r.Invariants, r.Mismatches} {
			for _, i := range list {
				issues.AppendRow(table.Row{
					i.Type, i.Component, i.Row, i.Col, i.Tick, i.Message,
				})
			}
		}
		fmt.Fprintln(w, issues.Render())
	}

	if r.Observed != nil {
		fmt.Fprintln(w, renderMatrix("Observed", r.Observed, r.Expected))
	}

	if r.Passed() {
		fmt.Fprintln(w, "✓ ALL CHECKS PASSED")
	} else {
		fmt.Fprintln(w, "⚠ VERIFICATION FAILED")
	}
}

func renderMatrix(title string, m, expected [][]uint64) string {
	t := table.NewWriter()
	t.SetTitle(title)

	if len(m) == 0 {
		return t.Render()
	}

	header := table.Row{"Row"}
	for c := range m[0] {
		header = append(header, fmt.Sprintf("C%d", c))
	}
	t.AppendHeader(header)

	for r := range m {
		row := table.Row{fmt.Sprintf("R%d", r)}
		for c, v := range m[r] {
			cell := fmt.Sprint(v)
			if expected != nil && expected[r][c] != v {
				cell = fmt.Sprintf("%d (want %d)", v, expected[r][c])
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	return t.Render()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
