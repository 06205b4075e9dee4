package systolic_test

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
	"github.com/sarchlab/sysarray/systolic"
)

type tickCollector struct {
	records []systolic.TickRecord
}

func (h *tickCollector) Func(ctx sim.HookCtx) {
	if ctx.Pos == systolic.HookPosEngineTick {
		h.records = append(h.records, ctx.Item.(systolic.TickRecord))
	}
}

func randomVectors(rng *rand.Rand, k, size int) [][]uint64 {
	v := make([][]uint64, k)
	for t := range v {
		v[t] = make([]uint64, size)
		for i := range v[t] {
			v[t][i] = uint64(rng.Intn(100))
		}
	}
	return v
}

func expectedProducts(act, wt [][]uint64, size int, width mesh.Width) [][]uint64 {
	exp := make([][]uint64, size)
	for r := range exp {
		exp[r] = make([]uint64, size)
		for c := range exp[r] {
			for t := range act {
				exp[r][c] = width.Add(exp[r][c], width.Multiply(act[t][r], wt[t][c]))
			}
		}
	}
	return exp
}

var _ = Describe("Engine", func() {
	var e *systolic.Engine

	BeforeEach(func() {
		e = systolic.MakeBuilder().
			WithSize(2).
			WithWidth(32).
			Build("Engine")
	})

	It("should panic on an invalid spec", func() {
		Expect(func() { systolic.MakeBuilder().WithSize(0).Build("Bad") }).To(Panic())
	})

	It("should describe an invalid size", func() {
		err := systolic.Spec{Size: -2, Width: 32}.Validate()

		Expect(err).To(MatchError(ContainSubstring("got -2")))
		Expect(fmt.Sprintf("%+v", err)).To(ContainSubstring("spec.go"))
	})

	It("should start with zeroed cells and edges", func() {
		s := e.State()
		Expect(s.Accumulators()).To(Equal([][]uint64{{0, 0}, {0, 0}}))
		Expect(s.Weight).To(HaveLen(3))
		Expect(s.Activation[0]).To(HaveLen(3))
		Expect(s.Result[1]).To(HaveLen(3))
	})

	Context("with the two-by-two example", func() {
		act := [][]uint64{{1, 2}, {5, 6}}
		wt := [][]uint64{{3, 4}, {7, 8}}

		It("should accumulate every dot product", func() {
			e.Load(act, wt)
			Expect(e.Accumulators()).To(Equal([][]uint64{{38, 44}, {48, 56}}))
		})

		It("should read each row out last column first", func() {
			readout := e.Multiply(act, wt)
			Expect(readout[0]).To(Equal([]uint64{44, 38}))
			Expect(readout[1]).To(Equal([]uint64{56, 48}))
			Expect(systolic.ReadoutToMatrix(readout)).
				To(Equal([][]uint64{{38, 44}, {48, 56}}))
		})

		It("should leave the engine cleared after a run", func() {
			e.Multiply(act, wt)
			Expect(e.Accumulators()).To(Equal([][]uint64{{0, 0}, {0, 0}}))
		})

		It("should give the same result for back-to-back runs", func() {
			first := e.Multiply(act, wt)
			second := e.Multiply(act, wt)
			Expect(second).To(Equal(first))
		})
	})

	It("should freeze accumulators while load is asserted", func() {
		e.Tick(systolic.Inputs{ActivationIn: []uint64{2, 2}, WeightIn: []uint64{3, 3}})
		before := e.Accumulators()

		e.Tick(systolic.Inputs{
			Load:         true,
			ActivationIn: []uint64{9, 9},
			WeightIn:     []uint64{9, 9},
		})
		Expect(e.Accumulators()).To(Equal(before))
	})

	It("should clear every accumulator in one tick", func() {
		e.Load([][]uint64{{1, 1}}, [][]uint64{{1, 1}})
		e.Clear()
		Expect(e.Accumulators()).To(Equal([][]uint64{{0, 0}, {0, 0}}))
	})

	It("should move operands one hop per tick", func() {
		e.Tick(systolic.Inputs{ActivationIn: []uint64{5, 6}, WeightIn: []uint64{7, 8}})
		s := e.State()
		Expect(s.Weight[1]).To(Equal([]uint64{7, 8}))
		Expect(s.Activation[0][1]).To(Equal(uint64(5)))
		Expect(s.Activation[1][1]).To(Equal(uint64(6)))
		Expect(s.Weight[2]).To(Equal([]uint64{0, 0}))

		e.Tick(systolic.Inputs{})
		s = e.State()
		Expect(s.Weight[2]).To(Equal([]uint64{7, 8}))
		Expect(s.Activation[0][2]).To(Equal(uint64(5)))
		Expect(e.EdgeVector(mesh.South)).To(Equal([]uint64{7, 8}))
	})

	It("should expose its boundaries", func() {
		e.Tick(systolic.Inputs{ActivationIn: []uint64{1, 2}, WeightIn: []uint64{3, 4}})
		Expect(e.EdgeVector(mesh.North)).To(Equal([]uint64{3, 4}))
		Expect(e.EdgeVector(mesh.West)).To(Equal([]uint64{1, 2}))

		e.Reset()
		e.Load([][]uint64{{1, 2}}, [][]uint64{{3, 4}})
		Expect(e.EdgeVector(mesh.North)).To(Equal([]uint64{0, 0}))

		e.Tick(systolic.Inputs{Load: true})
		Expect(e.EdgeVector(mesh.East)).To(Equal([]uint64{4, 8}))
		Expect(func() { e.EdgeVector(mesh.Side(7)) }).To(Panic())
	})

	It("should drive outputs from the accumulators before the tick", func() {
		out := e.Tick(systolic.Inputs{ActivationIn: []uint64{1, 1}, WeightIn: []uint64{1, 1}})
		Expect(out.DataOut).To(Equal([]uint64{0, 0}))
		Expect(e.Accumulators()[0][0]).To(Equal(uint64(1)))
	})

	It("should reset from any history to the initial state", func() {
		initial := e.State()
		rng := rand.New(rand.NewSource(3))

		for trial := 0; trial < 10; trial++ {
			for t := 0; t < rng.Intn(20); t++ {
				e.Tick(systolic.Inputs{
					Load:         rng.Intn(3) == 0,
					Clear:        rng.Intn(5) == 0,
					ActivationIn: []uint64{uint64(rng.Intn(100)), uint64(rng.Intn(100))},
					WeightIn:     []uint64{uint64(rng.Intn(100)), uint64(rng.Intn(100))},
					CarryEnable:  []bool{rng.Intn(2) == 0, rng.Intn(2) == 0},
				})
			}
			e.Reset()
			Expect(e.State()).To(Equal(initial))
		}
	})

	It("should give the reset signal priority", func() {
		e.Load([][]uint64{{1, 2}}, [][]uint64{{3, 4}})
		out := e.Tick(systolic.Inputs{Reset: true, ActivationIn: []uint64{1, 1}})
		Expect(out.DataOut).To(Equal([]uint64{0, 0}))
		Expect(e.State()).To(Equal(systolic.MakeBuilder().WithSize(2).Build("Fresh").State()))
	})

	It("should panic on mismatched vectors", func() {
		Expect(func() { e.Tick(systolic.Inputs{WeightIn: []uint64{1}}) }).To(Panic())
		Expect(func() { e.Tick(systolic.Inputs{CarryEnable: []bool{true}}) }).To(Panic())
		Expect(func() { e.Load([][]uint64{{1, 2}}, nil) }).To(Panic())
	})

	It("should report every tick to hooks", func() {
		hook := &tickCollector{}
		e.AcceptHook(hook)

		e.Tick(systolic.Inputs{ActivationIn: []uint64{1, 2}, WeightIn: []uint64{3, 4}})

		Expect(hook.records).To(HaveLen(1))
		rec := hook.records[0]
		Expect(rec.Tick).To(Equal(uint64(1)))
		Expect(rec.Pre.Accumulators()).To(Equal([][]uint64{{0, 0}, {0, 0}}))
		Expect(rec.Post.Accumulators()[0][0]).To(Equal(uint64(3)))
		Expect(rec.In.CarryEnable).To(Equal([]bool{false, false}))
	})

	It("should render its state", func() {
		e.Load([][]uint64{{1, 2}}, [][]uint64{{3, 4}})
		text := systolic.RenderState("Engine", e.State())
		Expect(text).To(ContainSubstring("Engine Accumulators"))
		Expect(text).To(ContainSubstring("North"))
	})

	DescribeTable("should multiply random operands",
		func(size, k int, width mesh.Width, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			eng := systolic.MakeBuilder().WithSize(size).WithWidth(width).Build("Random")
			act := randomVectors(rng, k, size)
			wt := randomVectors(rng, k, size)

			readout := eng.Multiply(act, wt)

			exp := expectedProducts(act, wt, size, width)
			for r := 0; r < size; r++ {
				for step := 0; step < size; step++ {
					Expect(readout[r][step]).To(Equal(exp[r][size-1-step]),
						"row %d step %d", r, step)
				}
			}
		},
		Entry("1x1", 1, 1, mesh.Width(32), int64(1)),
		Entry("3x3 square", 3, 3, mesh.Width(32), int64(2)),
		Entry("4x4 square", 4, 4, mesh.Width(32), int64(3)),
		Entry("5x5 long contraction", 5, 17, mesh.Width(32), int64(4)),
		Entry("8x8 square", 8, 8, mesh.Width(32), int64(5)),
		Entry("4x4 narrow words", 4, 6, mesh.Width(8), int64(6)),
		Entry("3x3 wide words", 3, 9, mesh.Width(64), int64(7)),
	)
})

var _ = Describe("Schedules", func() {
	It("should skew lanes by their index", func() {
		act, wt := systolic.Skew(
			[][]uint64{{1, 2}, {5, 6}},
			[][]uint64{{3, 4}, {7, 8}},
			2)

		Expect(act).To(Equal([][]uint64{{1, 0}, {5, 2}, {0, 6}, {0, 0}}))
		Expect(wt).To(Equal([][]uint64{{3, 0}, {7, 4}, {0, 8}, {0, 0}}))
	})

	It("should count load ticks", func() {
		Expect(systolic.LoadTicks(0, 4)).To(Equal(0))
		Expect(systolic.LoadTicks(4, 4)).To(Equal(10))
		Expect(systolic.LoadTicks(3, 1)).To(Equal(3))
	})

	It("should walk the carry chain from the last column", func() {
		Expect(systolic.CarryWalk(3, 0)).To(Equal([]bool{false, false, false}))
		Expect(systolic.CarryWalk(3, 1)).To(Equal([]bool{false, false, true}))
		Expect(systolic.CarryWalk(3, 2)).To(Equal([]bool{false, true, true}))
	})
})
