package api

import (
	"github.com/sarchlab/sysarray/mesh"
	"github.com/sarchlab/sysarray/systolic"
)

type phase int

const (
	phaseIdle phase = iota
	phaseFlush
	phaseFill
	phaseStream
	phaseDrain
	phaseClear
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "Idle"
	case phaseFlush:
		return "Flush"
	case phaseFill:
		return "Fill"
	case phaseStream:
		return "Stream"
	case phaseDrain:
		return "Drain"
	case phaseClear:
		return "Clear"
	default:
		panic("unknown phase")
	}
}

// step is what the driver drives into the device in one tick.
type step struct {
	phase   phase
	signals mesh.DeviceSignals
	readout int // Drain step whose East outputs are collected, or -1
}

// streamTicks is the length of the stream phase of a chunk of m logical
// ticks. A word read at stream tick s enters the array at s+1, and the last
// pair reaches the far corner cell 2(size-1) ticks after that.
func streamTicks(m, size int) int {
	return m + 2*(size-1) + 1
}

// buildPlan lays out a whole run. The accumulators are flushed, then the
// operands go through the staging queues in chunks of at most depth
// logical ticks. Each chunk is written into the queues while the
// accumulators hold, and read out with the read enable of lane k delayed by
// k ticks, so that row r and column c of the same logical tick meet in cell
// (r, c). Finally the results are walked out through the East and the
// accumulators are cleared.
func buildPlan(size, depth int, activations, weights [][]uint64) []step {
	k := len(activations)
	if len(weights) > k {
		k = len(weights)
	}

	plan := make([]step, 0)

	for t := 0; t < size; t++ {
		plan = append(plan, step{
			phase:   phaseFlush,
			signals: mesh.DeviceSignals{Clear: true},
			readout: -1,
		})
	}

	for t0 := 0; t0 < k; t0 += depth {
		m := min(depth, k-t0)
		plan = append(plan, fillSteps(size, t0, m, activations, weights)...)
		plan = append(plan, streamSteps(size, m)...)
	}

	for s := 0; s < size; s++ {
		plan = append(plan, step{
			phase: phaseDrain,
			signals: mesh.DeviceSignals{
				Load:        true,
				CarryEnable: systolic.CarryWalk(size, s),
			},
			readout: s,
		})
	}

	plan = append(plan, step{
		phase:   phaseClear,
		signals: mesh.DeviceSignals{Clear: true},
		readout: -1,
	})

	return plan
}

func fillSteps(size, t0, m int, activations, weights [][]uint64) []step {
	steps := make([]step, m)

	for j := 0; j < m; j++ {
		west := make([]mesh.LaneSignals, size)
		north := make([]mesh.LaneSignals, size)

		for lane := 0; lane < size; lane++ {
			west[lane] = mesh.LaneSignals{
				Write: true,
				Data:  valueAt(activations, t0+j, lane),
			}
			north[lane] = mesh.LaneSignals{
				Write: true,
				Data:  valueAt(weights, t0+j, lane),
			}
		}

		steps[j] = step{
			phase: phaseFill,
			signals: mesh.DeviceSignals{
				Load:  true,
				West:  west,
				North: north,
			},
			readout: -1,
		}
	}

	return steps
}

func streamSteps(size, m int) []step {
	steps := make([]step, streamTicks(m, size))

	for s := range steps {
		west := make([]mesh.LaneSignals, size)
		north := make([]mesh.LaneSignals, size)

		for lane := 0; lane < size; lane++ {
			read := s-lane >= 0 && s-lane < m
			west[lane].Read = read
			north[lane].Read = read
		}

		steps[s] = step{
			phase: phaseStream,
			signals: mesh.DeviceSignals{
				West:  west,
				North: north,
			},
			readout: -1,
		}
	}

	return steps
}

func valueAt(vectors [][]uint64, t, lane int) uint64 {
	if t >= len(vectors) {
		return 0
	}
	return vectors[t][lane]
}
