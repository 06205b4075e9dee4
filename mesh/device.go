package mesh

// LaneSignals drive one boundary staging queue for one tick.
type LaneSignals struct {
	Write bool
	Read  bool
	Data  uint64
}

// DeviceSignals are everything a device samples at one tick. A nil lane
// slice leaves every queue on that side idle; a nil CarryEnable disables
// the whole chain.
type DeviceSignals struct {
	Reset       bool
	Load        bool
	Clear       bool
	CarryEnable []bool
	West        []LaneSignals // Activation queues, one per row
	North       []LaneSignals // Weight queues, one per column
}

// DeviceOutputs are the values a device drives after a tick.
type DeviceOutputs struct {
	East       []uint64 // One result word per row
	WestFull   []bool
	WestEmpty  []bool
	NorthFull  []bool
	NorthEmpty []bool
}

// A Device is a systolic array together with its boundary staging queues.
type Device interface {
	Name() string
	Size() int
	QueueDepth() int
	Width() Width
	Tick(in DeviceSignals) DeviceOutputs
	Reset()
}
