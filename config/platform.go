package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/fifo"
	"github.com/sarchlab/sysarray/mesh"
	"github.com/sarchlab/sysarray/systolic"
)

// HookPosDeviceTick marks the end of a device tick. The hook item is a
// DeviceTickRecord.
var HookPosDeviceTick = &sim.HookPos{Name: "Device Tick"}

// DeviceTickRecord is what a device reports to its hooks after each tick.
type DeviceTickRecord struct {
	Name string
	Tick uint64
	In   mesh.DeviceSignals
	Out  mesh.DeviceOutputs
}

// Device is a systolic engine fed by one staging queue per boundary lane.
// The engine samples the registered outputs the queues held before the
// tick, so a word read from a queue enters the array one tick later. A
// queue that did not produce a word injects a zero.
type Device struct {
	*sim.HookableBase

	name   string
	engine *systolic.Engine
	west   []*fifo.Queue
	north  []*fifo.Queue
	ticks  uint64
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// Size returns the number of rows and columns.
func (d *Device) Size() int {
	return d.engine.Size()
}

// QueueDepth returns the depth of the staging queues.
func (d *Device) QueueDepth() int {
	return d.west[0].Spec().Depth
}

// Width returns the number of bits per word.
func (d *Device) Width() mesh.Width {
	return d.engine.Spec().Width
}

// Engine returns the systolic engine inside the device.
func (d *Device) Engine() *systolic.Engine {
	return d.engine
}

// Queue returns the staging queue of a lane on the West or North side.
func (d *Device) Queue(side mesh.Side, lane int) *fifo.Queue {
	switch side {
	case mesh.West:
		return d.west[lane]
	case mesh.North:
		return d.north[lane]
	default:
		panic("invalid side")
	}
}

// AcceptHook registers the hook with the device and with every component
// inside it.
func (d *Device) AcceptHook(hook sim.Hook) {
	d.HookableBase.AcceptHook(hook)
	d.engine.AcceptHook(hook)
	for k := range d.west {
		d.west[k].AcceptHook(hook)
		d.north[k].AcceptHook(hook)
	}
}

// Reset forces the engine and every queue to their initial state.
func (d *Device) Reset() {
	d.engine.Reset()
	for k := range d.west {
		d.west[k].Reset()
		d.north[k].Reset()
	}
}

// Tick advances the device by one clock cycle.
func (d *Device) Tick(in mesh.DeviceSignals) mesh.DeviceOutputs {
	n := d.Size()
	west := d.laneSignals(in.West, "West")
	north := d.laneSignals(in.North, "North")

	engineIn := systolic.Inputs{
		Reset:        in.Reset,
		Load:         in.Load,
		Clear:        in.Clear,
		CarryEnable:  in.CarryEnable,
		ActivationIn: make([]uint64, n),
		WeightIn:     make([]uint64, n),
	}

	out := mesh.DeviceOutputs{
		WestFull:   make([]bool, n),
		WestEmpty:  make([]bool, n),
		NorthFull:  make([]bool, n),
		NorthEmpty: make([]bool, n),
	}

	for k := 0; k < n; k++ {
		engineIn.ActivationIn[k] = d.west[k].Output().OrZero()
		engineIn.WeightIn[k] = d.north[k].Output().OrZero()
	}

	for k := 0; k < n; k++ {
		w := d.west[k].Tick(queueSignals(in.Reset, west[k]))
		out.WestFull[k], out.WestEmpty[k] = w.Full, w.Empty

		c := d.north[k].Tick(queueSignals(in.Reset, north[k]))
		out.NorthFull[k], out.NorthEmpty[k] = c.Full, c.Empty
	}

	out.East = d.engine.Tick(engineIn).DataOut
	d.ticks++

	if d.NumHooks() > 0 {
		d.InvokeHook(sim.HookCtx{
			Domain: d,
			Pos:    HookPosDeviceTick,
			Item: DeviceTickRecord{
				Name: d.name,
				Tick: d.ticks,
				In:   in,
				Out:  out,
			},
		})
	}

	return out
}

func (d *Device) laneSignals(lanes []mesh.LaneSignals, side string) []mesh.LaneSignals {
	n := d.Size()

	switch len(lanes) {
	case 0:
		return make([]mesh.LaneSignals, n)
	case n:
		return lanes
	default:
		panic(fmt.Sprintf("%s lane signals have %d entries, want %d",
			side, len(lanes), n))
	}
}

func queueSignals(reset bool, lane mesh.LaneSignals) fifo.Signals {
	return fifo.Signals{
		Reset:  reset,
		Read:   lane.Read,
		Write:  lane.Write,
		DataIn: lane.Data,
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("%s[%dx%d depth=%d tick=%d]",
		d.name, d.Size(), d.Size(), d.QueueDepth(), d.ticks)
}
