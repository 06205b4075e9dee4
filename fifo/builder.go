package fifo

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

// Builder can create queues.
type Builder struct {
	spec Spec
}

// MakeBuilder returns a builder with the default spec.
func MakeBuilder() Builder {
	return Builder{spec: DefaultSpec()}
}

// WithDepth sets the number of slots.
func (b Builder) WithDepth(depth int) Builder {
	b.spec.Depth = depth
	return b
}

// WithWidth sets the word width.
func (b Builder) WithWidth(width mesh.Width) Builder {
	b.spec.Width = width
	return b
}

// WithSpec replaces every parameter at once.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// Build creates a queue in its reset state.
func (b Builder) Build(name string) *Queue {
	if err := b.spec.Validate(); err != nil {
		panic(err)
	}

	cur := initialState(b.spec.Depth)
	next := initialState(b.spec.Depth)

	return &Queue{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		spec:         b.spec,
		cur:          &cur,
		next:         &next,
	}
}
