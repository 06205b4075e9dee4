package fifo

import "github.com/sarchlab/sysarray/mesh"

// State is the registered state of a queue. It only changes at a tick
// boundary or on reset.
type State struct {
	Storage    []uint64
	WriteIndex int
	ReadIndex  int
	Occupancy  int
	DataOut    mesh.Data
}

func initialState(depth int) State {
	return State{Storage: make([]uint64, depth)}
}

// Capacity returns the number of slots.
func (s State) Capacity() int {
	return len(s.Storage)
}

// Empty reports whether no word is stored.
func (s State) Empty() bool {
	return s.Occupancy == 0
}

// Full reports whether every slot holds an unread word.
func (s State) Full() bool {
	return s.Occupancy == len(s.Storage)
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Storage = make([]uint64, len(s.Storage))
	copy(c.Storage, s.Storage)
	return c
}

func (s *State) copyFrom(o State) {
	copy(s.Storage, o.Storage)
	s.WriteIndex = o.WriteIndex
	s.ReadIndex = o.ReadIndex
	s.Occupancy = o.Occupancy
	s.DataOut = o.DataOut
}

func (s *State) clear() {
	for i := range s.Storage {
		s.Storage[i] = 0
	}
	s.WriteIndex = 0
	s.ReadIndex = 0
	s.Occupancy = 0
	s.DataOut = mesh.Invalid
}

// Signals are the control and data inputs sampled at one tick.
type Signals struct {
	Reset  bool
	Read   bool
	Write  bool
	DataIn uint64
}

// WriteValid reports whether a write executes under these signals.
func (in Signals) WriteValid(s State) bool {
	return in.Write && !in.Read && !s.Full()
}

// ReadValid reports whether a read executes under these signals.
func (in Signals) ReadValid(s State) bool {
	return in.Read && !in.Write && !s.Empty()
}

// Outputs are the values a queue drives after a tick.
type Outputs struct {
	DataOut mesh.Data
	Empty   bool
	Full    bool
}

func outputsOf(s State) Outputs {
	return Outputs{
		DataOut: s.DataOut,
		Empty:   s.Empty(),
		Full:    s.Full(),
	}
}

// TickRecord captures one tick of a queue for monitors.
type TickRecord struct {
	Name  string
	Tick  uint64
	Width mesh.Width
	Pre   State
	In    Signals
	Post  State
	Out   Outputs
}
