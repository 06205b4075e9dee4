package api

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/mesh"
)

var _ = Describe("Driver", func() {
	var (
		mockCtrl   *gomock.Controller
		mockDevice *MockDevice
		driver     *driverImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		mockDevice = NewMockDevice(mockCtrl)
		mockDevice.EXPECT().Name().Return("Device").AnyTimes()
		mockDevice.EXPECT().Size().Return(2).AnyTimes()
		mockDevice.EXPECT().QueueDepth().Return(2).AnyTimes()

		driver = &driverImpl{}
		driver.TickingComponent =
			sim.NewTickingComponent("Driver", sim.NewSerialEngine(), 1*sim.GHz, driver)
		driver.RegisterDevice(mockDevice)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should handle FeedIn API", func() {
		data := []uint64{1, 2, 3, 4, 5, 6}

		driver.FeedIn(data, mesh.West, [2]int{0, 2}, 2)

		Expect(driver.feedInTasks).To(HaveLen(1))
		Expect(driver.feedInTasks[0].data).To(Equal(data))
		Expect(driver.feedInTasks[0].side).To(Equal(mesh.West))
		Expect(driver.feedInTasks[0].rounds()).To(Equal(3))
	})

	It("should reject misuse", func() {
		Expect(func() {
			driver.FeedIn([]uint64{1}, mesh.East, [2]int{0, 1}, 1)
		}).To(Panic())
		Expect(func() {
			driver.FeedIn([]uint64{1}, mesh.West, [2]int{1, 3}, 2)
		}).To(Panic())
		Expect(func() {
			driver.FeedIn([]uint64{1, 2}, mesh.North, [2]int{0, 2}, 1)
		}).To(Panic())
		Expect(func() {
			driver.Collect(make([]uint64, 2), mesh.South, [2]int{0, 2}, 2)
		}).To(Panic())
	})

	It("should panic without a device", func() {
		d := &driverImpl{}
		Expect(func() {
			d.FeedIn([]uint64{1}, mesh.West, [2]int{0, 1}, 1)
		}).To(Panic())
	})

	It("should lay out operands as logical ticks", func() {
		driver.FeedIn([]uint64{1, 2, 3, 4, 5, 6}, mesh.West, [2]int{0, 2}, 2)
		driver.FeedIn([]uint64{7, 8}, mesh.North, [2]int{1, 2}, 1)

		Expect(driver.operands(mesh.West)).
			To(Equal([][]uint64{{1, 2}, {3, 4}, {5, 6}}))
		Expect(driver.operands(mesh.North)).
			To(Equal([][]uint64{{0, 7}, {0, 8}}))
	})

	It("should count a last round without its padding", func() {
		driver.FeedIn([]uint64{1, 2, 0, 3, 4}, mesh.West, [2]int{0, 2}, 3)

		Expect(driver.feedInTasks[0].rounds()).To(Equal(2))
		Expect(driver.operands(mesh.West)).
			To(Equal([][]uint64{{1, 2}, {3, 4}}))
	})

	It("should reject a buffer that ends inside a round", func() {
		Expect(func() {
			driver.FeedIn([]uint64{1, 2, 3}, mesh.West, [2]int{0, 2}, 2)
		}).To(Panic())
		Expect(func() {
			driver.FeedIn([]uint64{1, 2, 0, 3, 4, 0, 5}, mesh.North, [2]int{0, 2}, 3)
		}).To(Panic())
		Expect(func() {
			driver.Collect(make([]uint64, 5), mesh.East, [2]int{0, 2}, 2)
		}).To(Panic())
		Expect(driver.feedInTasks).To(BeEmpty())
		Expect(driver.collectTasks).To(BeEmpty())
	})

	It("should plan the phases of a run", func() {
		act := [][]uint64{{1, 2}, {3, 4}, {5, 6}}
		wt := [][]uint64{{7, 8}, {9, 10}, {11, 12}}

		plan := buildPlan(2, 2, act, wt)

		phases := make([]phase, len(plan))
		for i, s := range plan {
			phases[i] = s.phase
		}
		Expect(phases).To(Equal([]phase{
			phaseFlush, phaseFlush,
			phaseFill, phaseFill,
			phaseStream, phaseStream, phaseStream, phaseStream, phaseStream,
			phaseFill,
			phaseStream, phaseStream, phaseStream, phaseStream,
			phaseDrain, phaseDrain,
			phaseClear,
		}))

		Expect(plan[2].signals.Load).To(BeTrue())
		Expect(plan[3].signals.West[1]).
			To(Equal(mesh.LaneSignals{Write: true, Data: 4}))
		Expect(plan[9].signals.North[0]).
			To(Equal(mesh.LaneSignals{Write: true, Data: 11}))
		Expect(plan[14].readout).To(Equal(0))
		Expect(plan[15].signals.CarryEnable).To(Equal([]bool{false, true}))
	})

	It("should stagger the read enables by lane", func() {
		steps := streamSteps(3, 2)

		reads := make([][]bool, len(steps))
		for s := range steps {
			reads[s] = make([]bool, 3)
			for lane := 0; lane < 3; lane++ {
				Expect(steps[s].signals.North[lane].Read).
					To(Equal(steps[s].signals.West[lane].Read))
				reads[s][lane] = steps[s].signals.West[lane].Read
			}
		}

		Expect(reads).To(Equal([][]bool{
			{true, false, false},
			{true, true, false},
			{false, true, true},
			{false, false, true},
			{false, false, false},
			{false, false, false},
			{false, false, false},
		}))
	})

	It("should drive the device and collect the readout", func() {
		driver.FeedIn([]uint64{1, 2}, mesh.West, [2]int{0, 2}, 2)
		driver.FeedIn([]uint64{3, 4}, mesh.North, [2]int{0, 2}, 2)
		result := make([]uint64, 4)
		driver.Collect(result, mesh.East, [2]int{0, 2}, 2)

		tick := uint64(0)
		mockDevice.EXPECT().
			Tick(gomock.Any()).
			DoAndReturn(func(in mesh.DeviceSignals) mesh.DeviceOutputs {
				tick++
				return mesh.DeviceOutputs{East: []uint64{tick, tick + 100}}
			}).
			Times(10)

		for i := 0; i < 10; i++ {
			Expect(driver.Tick()).To(BeTrue())
		}
		Expect(driver.Tick()).To(BeFalse())

		Expect(result).To(Equal([]uint64{8, 108, 9, 109}))
		Expect(driver.feedInTasks).To(BeEmpty())
		Expect(driver.collectTasks).To(BeEmpty())
	})

	It("should not tick without tasks", func() {
		Expect(driver.Tick()).To(BeFalse())
	})
})
