// Package fifo models a bounded circular queue that performs at most one
// read or write per tick.
package fifo

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

// HookPosQueueTick marks the end of a queue tick. The hook item is a
// TickRecord.
var HookPosQueueTick = &sim.HookPos{Name: "Queue Tick"}

// HookPosQueueReset marks an asynchronous reset. The hook item is the
// queue's State after the reset.
var HookPosQueueReset = &sim.HookPos{Name: "Queue Reset"}

// Queue is a bounded FIFO of words. The current and next states are kept in
// separate buffers so that a tick is evaluated entirely against the state
// sampled before it.
type Queue struct {
	*sim.HookableBase

	name  string
	spec  Spec
	cur   *State
	next  *State
	ticks uint64
}

// Name returns the name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Spec returns the parameters of the queue.
func (q *Queue) Spec() Spec {
	return q.spec
}

// Ticks returns the number of ticks since the queue was built.
func (q *Queue) Ticks() uint64 {
	return q.ticks
}

// State returns a copy of the current state.
func (q *Queue) State() State {
	return q.cur.Clone()
}

// Occupancy returns the number of unread words.
func (q *Queue) Occupancy() int {
	return q.cur.Occupancy
}

// Empty reports whether the queue holds no word.
func (q *Queue) Empty() bool {
	return q.cur.Empty()
}

// Full reports whether the queue cannot accept a write.
func (q *Queue) Full() bool {
	return q.cur.Full()
}

// Output returns the registered data output.
func (q *Queue) Output() mesh.Data {
	return q.cur.DataOut
}

// Outputs returns all the values the queue currently drives.
func (q *Queue) Outputs() Outputs {
	return outputsOf(*q.cur)
}

// Reset forces the queue to its initial state immediately, outside the
// regular tick cadence.
func (q *Queue) Reset() {
	q.cur.clear()
	q.next.clear()

	if q.NumHooks() > 0 {
		q.InvokeHook(sim.HookCtx{
			Domain: q,
			Pos:    HookPosQueueReset,
			Item:   q.cur.Clone(),
		})
	}
}

// Tick advances the queue by one clock cycle.
func (q *Queue) Tick(in Signals) Outputs {
	var pre State
	if q.NumHooks() > 0 {
		pre = q.cur.Clone()
	}

	q.evaluate(in)
	q.cur, q.next = q.next, q.cur
	q.ticks++

	out := outputsOf(*q.cur)

	if q.NumHooks() > 0 {
		q.InvokeHook(sim.HookCtx{
			Domain: q,
			Pos:    HookPosQueueTick,
			Item: TickRecord{
				Name:  q.name,
				Tick:  q.ticks,
				Width: q.spec.Width,
				Pre:   pre,
				In:    in,
				Post:  q.cur.Clone(),
				Out:   out,
			},
		})
	}

	return out
}

// evaluate computes the next state from the current one. It never writes
// to q.cur.
func (q *Queue) evaluate(in Signals) {
	cur, next := q.cur, q.next

	if in.Reset {
		next.clear()
		return
	}

	next.copyFrom(*cur)
	next.DataOut = mesh.Invalid

	switch {
	case in.WriteValid(*cur):
		next.Storage[cur.WriteIndex] = q.spec.Width.Truncate(in.DataIn)
		next.WriteIndex = (cur.WriteIndex + 1) % q.spec.Depth
		next.Occupancy = cur.Occupancy + 1
	case in.ReadValid(*cur):
		next.DataOut = mesh.NewScalar(cur.Storage[cur.ReadIndex])
		next.ReadIndex = (cur.ReadIndex + 1) % q.spec.Depth
		next.Occupancy = cur.Occupancy - 1
	default:
		q.traceNonEvent(in)
	}
}

func (q *Queue) traceNonEvent(in Signals) {
	reason := ""
	switch {
	case in.Read && in.Write:
		reason = "ReadWriteConflict"
	case in.Write:
		reason = "Full"
	case in.Read:
		reason = "Empty"
	default:
		return
	}

	mesh.Trace("Queue",
		"Behavior", "Blocked",
		"Name", q.name,
		"Reason", reason,
		"Tick", q.ticks,
		"Occupancy", q.cur.Occupancy,
	)
}

// Write pushes a word in one tick and reports whether it was accepted.
func (q *Queue) Write(word uint64) bool {
	before := q.cur.Occupancy
	q.Tick(Signals{Write: true, DataIn: word})
	return q.cur.Occupancy == before+1
}

// Read pops a word in one tick. It returns the sentinel if the queue was
// empty.
func (q *Queue) Read() mesh.Data {
	return q.Tick(Signals{Read: true}).DataOut
}

// Idle lets one tick pass without any operation.
func (q *Queue) Idle() Outputs {
	return q.Tick(Signals{})
}

func (q *Queue) String() string {
	return fmt.Sprintf("%s[occ=%d/%d w=%d r=%d out=%s]",
		q.name, q.cur.Occupancy, q.spec.Depth,
		q.cur.WriteIndex, q.cur.ReadIndex, q.cur.DataOut)
}
