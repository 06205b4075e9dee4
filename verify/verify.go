// Package verify provides the checking collaborators of the systolic model:
// the protocol invariant checker, a runtime monitor, and the reference
// scoreboard.
//
// # Invariant Checker
//
// The checks are pure functions of one tick record: the registers before
// the tick, the inputs sampled at the tick, the registers after it and the
// outputs it drove.
//
//   - CheckQueueTick: occupancy bounds, empty/full flags, pointer
//     consistency, the read/write/conflict/blocked transitions and reset.
//   - CheckEngineTick: the one-hop passthrough of weights and activations,
//     the clear/hold/accumulate rule of every cell, the carry chain that
//     drives the East output, and reset.
//
// They can be called directly from property tests, or through the Monitor.
//
// # Monitor
//
// Monitor is an akita sim.Hook. Attach it to a fifo.Queue, a
// systolic.Engine or a whole device and every tick is checked as it
// happens:
//
//	monitor := verify.NewMonitor()
//	engine.AcceptHook(monitor)
//	engine.Multiply(act, wt)
//	if len(monitor.Issues()) > 0 {
//	    ...
//	}
//
// # Scoreboard
//
// Scoreboard independently accumulates the expected dot product of every
// (row, column) from the logical operand pairs and compares it with the
// values a row emits during readout, which arrive last column first.
//
// # Report
//
// GenerateReport collects the monitor and scoreboard results, and
// WriteReport prints them as tables.
package verify

import (
	"fmt"

	"github.com/sarchlab/sysarray/mesh"
)

// IssueType categorizes issues
type IssueType string

const (
	IssueQueue      IssueType = "QUEUE"      // Queue protocol violation
	IssueEngine     IssueType = "ENGINE"     // Engine protocol violation
	IssueScoreboard IssueType = "SCOREBOARD" // Observed value differs from the reference
)

// Issue represents a single violation or mismatch
type Issue struct {
	Type      IssueType
	Component string                 // Name of the queue or engine
	Row       int                    // Cell row (-1 if not applicable)
	Col       int                    // Cell column (-1 if not applicable)
	Tick      uint64                 // Tick at which it was detected
	Message   string                 // Human-readable description
	Details   map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	loc := ""
	if i.Row >= 0 && i.Col >= 0 {
		loc = fmt.Sprintf(" cell(%d,%d)", i.Row, i.Col)
	} else if i.Row >= 0 {
		loc = fmt.Sprintf(" row %d", i.Row)
	}
	return fmt.Sprintf("[%s] %s%s t=%d: %s",
		i.Type, i.Component, loc, i.Tick, i.Message)
}

func traceIssue(issue Issue) {
	mesh.Trace("Verify",
		"Behavior", "Issue",
		"Type", string(issue.Type),
		"Component", issue.Component,
		"Row", issue.Row,
		"Col", issue.Col,
		"Tick", issue.Tick,
		"Message", issue.Message,
	)
}
