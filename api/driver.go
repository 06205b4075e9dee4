// Package api defines the driver API for the systolic array device.
package api

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

// Driver provides the interface to control an accelerator.
type Driver interface {
	sim.Component

	// RegisterDevice registers a device to the driver. Every later call
	// operates on this device.
	RegisterDevice(device mesh.Device)

	// FeedIn provides the operands of the next run. Activations are fed
	// from the West, one lane per row, and weights from the North, one
	// lane per column. The stride is the difference between the indices of
	// the data that is sent to adjacent lanes in the same logical tick.
	// The data must end after the last lane of a round; the padding after
	// the last round may be left out.
	FeedIn(data []uint64, side mesh.Side, portRange [2]int, stride int)

	// Collect collects the results of the next run from the East. Each
	// round holds one readout step of the rows in the port range, so row r
	// delivers its last column first. The stride is the difference between
	// the indices of the data that is collected from adjacent rows in the
	// same round. The data must end on a round boundary, as with FeedIn.
	Collect(data []uint64, side mesh.Side, portRange [2]int, stride int)

	// Run will run all the tasks that have been added to the driver.
	Run()
}

type driverImpl struct {
	*sim.TickingComponent

	device mesh.Device

	feedInTasks  []*feedInTask
	collectTasks []*collectTask

	plan  []step
	pc    int
	phase phase
}

// Tick runs the driver for one cycle.
func (d *driverImpl) Tick() (madeProgress bool) {
	if d.pc >= len(d.plan) && !d.startRun() {
		return false
	}

	s := d.plan[d.pc]
	if s.phase != d.phase {
		d.phase = s.phase
		d.tracePhase()
	}

	out := d.device.Tick(s.signals)
	if s.readout >= 0 {
		d.doCollect(s.readout, out.East)
	}

	d.pc++
	if d.pc == len(d.plan) {
		d.finishRun()
	}

	return true
}

func (d *driverImpl) startRun() bool {
	if len(d.feedInTasks) == 0 && len(d.collectTasks) == 0 {
		return false
	}

	activations := d.operands(mesh.West)
	weights := d.operands(mesh.North)

	d.plan = buildPlan(d.device.Size(), d.device.QueueDepth(),
		activations, weights)
	d.pc = 0
	d.feedInTasks = nil

	return true
}

func (d *driverImpl) finishRun() {
	d.collectTasks = nil
	d.plan = nil
	d.pc = 0
	d.phase = phaseIdle
	d.tracePhase()
}

// operands lays out the fed-in data of one side as logical ticks, indexed
// [tick][lane]. Lanes without data carry zeros.
func (d *driverImpl) operands(side mesh.Side) [][]uint64 {
	n := d.device.Size()
	ticks := 0

	for _, task := range d.feedInTasks {
		if task.side == side && task.rounds() > ticks {
			ticks = task.rounds()
		}
	}

	vectors := make([][]uint64, ticks)
	for t := range vectors {
		vectors[t] = make([]uint64, n)
	}

	for _, task := range d.feedInTasks {
		if task.side != side {
			continue
		}

		for round := 0; round < task.rounds(); round++ {
			for i := 0; i < task.numLanes(); i++ {
				vectors[round][task.portRange[0]+i] =
					task.data[round*task.stride+i]
			}
		}
	}

	return vectors
}

func (d *driverImpl) doCollect(round int, east []uint64) {
	for _, task := range d.collectTasks {
		if round >= task.rounds() {
			continue
		}

		for i := 0; i < task.numLanes(); i++ {
			task.data[round*task.stride+i] = east[task.portRange[0]+i]
		}
	}
}

// RegisterDevice registers a device to the driver.
func (d *driverImpl) RegisterDevice(device mesh.Device) {
	d.device = device
}

type feedInTask struct {
	data      []uint64
	side      mesh.Side
	portRange [2]int
	stride    int
}

func (t *feedInTask) numLanes() int {
	return t.portRange[1] - t.portRange[0]
}

func (t *feedInTask) rounds() int {
	return countRounds(len(t.data), t.numLanes(), t.stride)
}

// FeedIn adds operands to the next run.
func (d *driverImpl) FeedIn(
	data []uint64,
	side mesh.Side,
	portRange [2]int,
	stride int,
) {
	if side != mesh.West && side != mesh.North {
		panic("invalid side")
	}
	d.mustCheckRange(portRange, stride)
	mustHoldWholeRounds(len(data), portRange, stride)

	task := &feedInTask{
		data:      data,
		side:      side,
		portRange: portRange,
		stride:    stride,
	}

	d.feedInTasks = append(d.feedInTasks, task)
}

type collectTask struct {
	data      []uint64
	portRange [2]int
	stride    int
}

func (t *collectTask) numLanes() int {
	return t.portRange[1] - t.portRange[0]
}

func (t *collectTask) rounds() int {
	return countRounds(len(t.data), t.numLanes(), t.stride)
}

// Collect registers a buffer for the readout of the next run.
func (d *driverImpl) Collect(
	data []uint64,
	side mesh.Side,
	portRange [2]int,
	stride int,
) {
	if side != mesh.East {
		panic("invalid side")
	}
	d.mustCheckRange(portRange, stride)
	mustHoldWholeRounds(len(data), portRange, stride)

	task := &collectTask{
		data:      data,
		portRange: portRange,
		stride:    stride,
	}

	d.collectTasks = append(d.collectTasks, task)
}

func (d *driverImpl) mustCheckRange(portRange [2]int, stride int) {
	if d.device == nil {
		panic("no device registered")
	}

	size := d.device.Size()
	if portRange[0] < 0 || portRange[0] >= portRange[1] || portRange[1] > size {
		panic(fmt.Sprintf("port range [%d, %d) is outside [0, %d)",
			portRange[0], portRange[1], size))
	}

	if stride < portRange[1]-portRange[0] {
		panic(fmt.Sprintf("stride %d is smaller than the %d ports",
			stride, portRange[1]-portRange[0]))
	}
}

// countRounds returns how many rounds of lanes words a buffer of length n
// holds when round r starts at r*stride. The last round may omit the
// padding after its lanes.
func countRounds(n, lanes, stride int) int {
	if n < lanes {
		return 0
	}
	return (n-lanes)/stride + 1
}

func mustHoldWholeRounds(n int, portRange [2]int, stride int) {
	lanes := portRange[1] - portRange[0]
	rounds := countRounds(n, lanes, stride)

	if n > rounds*stride {
		panic(fmt.Sprintf("buffer of %d words ends inside round %d of %d ports",
			n, rounds, lanes))
	}
}

// Run runs all the tasks in the driver.
func (d *driverImpl) Run() {
	// An earlier run may already have ticked at the current time.
	d.TickLater()
	d.Engine.Run()
}

func (d *driverImpl) tracePhase() {
	mesh.Trace("Driver",
		"Behavior", "Phase",
		"Name", d.Name(),
		"Device", d.device.Name(),
		"Phase", d.phase.String(),
		"Step", d.pc,
	)
}
