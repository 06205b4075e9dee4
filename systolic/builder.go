package systolic

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

// MakeBuilder returns a builder with the default spec.
func MakeBuilder() Builder {
	return Builder{spec: DefaultSpec()}
}

// Builder can create engines.
type Builder struct {
	spec Spec
}

// WithSize sets the grid dimension.
func (b Builder) WithSize(size int) Builder {
	b.spec.Size = size
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

// Build creates an engine in its reset state.
func (b Builder) Build(name string) *Engine {
	if err := b.spec.Validate(); err != nil {
		panic(err)
	}

	cur := newState(b.spec)
	next := newState(b.spec)

	return &Engine{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		spec:         b.spec,
		cur:          &cur,
		next:         &next,
	}
}
