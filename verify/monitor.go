package verify

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/fifo"
	"github.com/sarchlab/sysarray/systolic"
)

// Monitor is a hook that checks the protocol invariants of every queue and
// engine tick it observes.
type Monitor struct {
	panicOnIssue bool

	issues      []Issue
	queueTicks  uint64
	engineTicks uint64
	resets      uint64
}

// NewMonitor creates a monitor that records issues.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// PanicOnIssue makes the monitor panic at the first violation, turning it
// into an assertion layer.
func (m *Monitor) PanicOnIssue() *Monitor {
	m.panicOnIssue = true
	return m
}

// Func implements sim.Hook.
func (m *Monitor) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case fifo.HookPosQueueTick:
		rec := ctx.Item.(fifo.TickRecord)
		m.queueTicks++
		m.record(CheckQueueTick(rec))
	case fifo.HookPosQueueReset:
		m.resets++
		s := ctx.Item.(fifo.State)
		if !isInitialQueueState(s) {
			m.record([]Issue{queueIssue(nameOf(ctx.Domain), 0,
				"asynchronous reset did not restore the initial state", nil)})
		}
	case systolic.HookPosEngineTick:
		rec := ctx.Item.(systolic.TickRecord)
		m.engineTicks++
		m.record(CheckEngineTick(rec))
	case systolic.HookPosEngineReset:
		m.resets++
		m.record(CheckEngineState(nameOf(ctx.Domain), 0, ctx.Item.(systolic.State)))
	}
}

func nameOf(domain sim.Hookable) string {
	if named, ok := domain.(sim.Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", domain)
}

func (m *Monitor) record(issues []Issue) {
	for _, issue := range issues {
		traceIssue(issue)
		if m.panicOnIssue {
			panic(issue.String())
		}
	}
	m.issues = append(m.issues, issues...)
}

// Issues returns every violation seen so far.
func (m *Monitor) Issues() []Issue {
	return m.issues
}

// QueueTicks returns the number of queue ticks checked.
func (m *Monitor) QueueTicks() uint64 {
	return m.queueTicks
}

// EngineTicks returns the number of engine ticks checked.
func (m *Monitor) EngineTicks() uint64 {
	return m.engineTicks
}

// Resets returns the number of asynchronous resets checked.
func (m *Monitor) Resets() uint64 {
	return m.resets
}
