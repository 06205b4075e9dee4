package api

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

// DriverBuilder creates a new instance of Driver. A zero frequency means
// 1 GHz.
type DriverBuilder struct {
	engine sim.Engine
	freq   sim.Freq
	device mesh.Device
}

// WithEngine sets the akita engine that schedules the driver's ticks.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency at which the driver ticks the device.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithDevice registers a device at build time.
func (b DriverBuilder) WithDevice(device mesh.Device) DriverBuilder {
	b.device = device
	return b
}

// Build creates a driver. It panics without an engine.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		panic("driver needs an engine")
	}

	freq := b.freq
	if freq == 0 {
		freq = 1 * sim.GHz
	}

	d := &driverImpl{device: b.device}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, freq, d)

	return d
}
