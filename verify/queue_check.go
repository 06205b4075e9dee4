package verify

import (
	"fmt"

	"github.com/sarchlab/sysarray/fifo"
	"github.com/sarchlab/sysarray/mesh"
)

// CheckQueueState validates the invariants that hold in every reachable
// queue state.
func CheckQueueState(name string, tick uint64, s fifo.State) []Issue {
	var issues []Issue
	report := func(msg string, details map[string]interface{}) {
		issues = append(issues, queueIssue(name, tick, msg, details))
	}

	capacity := s.Capacity()
	if s.Occupancy < 0 || s.Occupancy > capacity {
		report(fmt.Sprintf("occupancy %d outside [0, %d]", s.Occupancy, capacity),
			map[string]interface{}{"occupancy": s.Occupancy})
		return issues
	}

	if s.WriteIndex < 0 || s.WriteIndex >= capacity ||
		s.ReadIndex < 0 || s.ReadIndex >= capacity {
		report("pointer out of range", map[string]interface{}{
			"write": s.WriteIndex,
			"read":  s.ReadIndex,
		})
		return issues
	}

	if !s.Empty() && !s.Full() && s.WriteIndex == s.ReadIndex {
		report("pointers equal while neither empty nor full",
			map[string]interface{}{"index": s.WriteIndex})
	}

	if (s.WriteIndex-s.ReadIndex+capacity)%capacity != s.Occupancy%capacity {
		report("pointer distance disagrees with occupancy", map[string]interface{}{
			"write":     s.WriteIndex,
			"read":      s.ReadIndex,
			"occupancy": s.Occupancy,
		})
	}

	return issues
}

// CheckQueueTick validates one queue tick.
func CheckQueueTick(rec fifo.TickRecord) []Issue {
	issues := CheckQueueState(rec.Name, rec.Tick, rec.Post)
	report := func(msg string, details map[string]interface{}) {
		issues = append(issues, queueIssue(rec.Name, rec.Tick, msg, details))
	}

	pre, post, in := rec.Pre, rec.Post, rec.In
	capacity := pre.Capacity()

	if rec.Out.Empty != (post.Occupancy == 0) {
		report("empty flag disagrees with occupancy", nil)
	}
	if rec.Out.Full != (post.Occupancy == capacity) {
		report("full flag disagrees with occupancy", nil)
	}
	if rec.Out.DataOut != post.DataOut {
		report("output differs from the registered output", nil)
	}

	if in.Reset {
		if !isInitialQueueState(post) {
			report("reset did not restore the initial state", nil)
		}
		return issues
	}

	switch {
	case in.WriteValid(pre):
		expectQueueSlot(report, pre, post, pre.WriteIndex, rec.Width.Truncate(in.DataIn))
		expectQueueMove(report, post, pre.ReadIndex, (pre.WriteIndex+1)%capacity,
			pre.Occupancy+1, mesh.Invalid)
	case in.ReadValid(pre):
		expectQueueSlot(report, pre, post, -1, 0)
		expectQueueMove(report, post, (pre.ReadIndex+1)%capacity, pre.WriteIndex,
			pre.Occupancy-1, mesh.NewScalar(pre.Storage[pre.ReadIndex]))
	default:
		if in.Read && in.Write && rec.Out.DataOut.Valid {
			report("simultaneous read and write produced data", nil)
		}
		expectQueueSlot(report, pre, post, -1, 0)
		expectQueueMove(report, post, pre.ReadIndex, pre.WriteIndex,
			pre.Occupancy, mesh.Invalid)
	}

	return issues
}

func expectQueueSlot(
	report func(string, map[string]interface{}),
	pre, post fifo.State,
	written int,
	value uint64,
) {
	for i := range pre.Storage {
		want := pre.Storage[i]
		if i == written {
			want = value
		}
		if post.Storage[i] != want {
			report(fmt.Sprintf("slot %d holds %d, want %d", i, post.Storage[i], want),
				map[string]interface{}{"slot": i})
		}
	}
}

func expectQueueMove(
	report func(string, map[string]interface{}),
	post fifo.State,
	read, write, occupancy int,
	out mesh.Data,
) {
	if post.ReadIndex != read || post.WriteIndex != write || post.Occupancy != occupancy {
		report("pointers or occupancy moved incorrectly", map[string]interface{}{
			"read":          post.ReadIndex,
			"wantRead":      read,
			"write":         post.WriteIndex,
			"wantWrite":     write,
			"occupancy":     post.Occupancy,
			"wantOccupancy": occupancy,
		})
	}

	if post.DataOut != out {
		report(fmt.Sprintf("output %s, want %s", post.DataOut, out), nil)
	}
}

func isInitialQueueState(s fifo.State) bool {
	for _, w := range s.Storage {
		if w != 0 {
			return false
		}
	}
	return s.WriteIndex == 0 && s.ReadIndex == 0 && s.Occupancy == 0 &&
		s.DataOut == mesh.Invalid
}

func queueIssue(name string, tick uint64, msg string, details map[string]interface{}) Issue {
	return Issue{
		Type:      IssueQueue,
		Component: name,
		Row:       -1,
		Col:       -1,
		Tick:      tick,
		Message:   msg,
		Details:   details,
	}
}
