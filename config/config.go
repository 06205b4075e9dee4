// Package config provides a default configuration for the systolic array
// device and the run configuration of the sample programs.
package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/fifo"
	"github.com/sarchlab/sysarray/mesh"
	"github.com/sarchlab/sysarray/systolic"
)

// DeviceBuilder can build systolic array devices. The zero value builds a
// 4x4 device of 32-bit words with 8-deep staging queues.
type DeviceBuilder struct {
	size       int
	width      mesh.Width
	queueDepth int
}

// WithSize sets the number of rows and columns of the array.
func (d DeviceBuilder) WithSize(size int) DeviceBuilder {
	d.size = size
	return d
}

// WithWidth sets the number of bits per word.
func (d DeviceBuilder) WithWidth(width mesh.Width) DeviceBuilder {
	d.width = width
	return d
}

// WithQueueDepth sets the depth of every staging queue.
func (d DeviceBuilder) WithQueueDepth(depth int) DeviceBuilder {
	d.queueDepth = depth
	return d
}

func (d DeviceBuilder) withDefaults() DeviceBuilder {
	if d.size == 0 {
		d.size = systolic.DefaultSpec().Size
	}
	if d.width == 0 {
		d.width = systolic.DefaultSpec().Width
	}
	if d.queueDepth == 0 {
		d.queueDepth = fifo.DefaultSpec().Depth
	}
	return d
}

// Build creates a device. It panics if the parameters are invalid.
func (d DeviceBuilder) Build(name string) *Device {
	d = d.withDefaults()

	dev := &Device{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		engine: systolic.MakeBuilder().
			WithSize(d.size).
			WithWidth(d.width).
			Build(name + ".Engine"),
		west:  make([]*fifo.Queue, d.size),
		north: make([]*fifo.Queue, d.size),
	}

	queueBuilder := fifo.MakeBuilder().
		WithDepth(d.queueDepth).
		WithWidth(d.width)

	for k := 0; k < d.size; k++ {
		dev.west[k] = queueBuilder.Build(
			fmt.Sprintf("%s.%s[%d]", name, mesh.West.Name(), k))
		dev.north[k] = queueBuilder.Build(
			fmt.Sprintf("%s.%s[%d]", name, mesh.North.Name(), k))
	}

	return dev
}
