package api

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/config"
	"github.com/sarchlab/sysarray/mesh"
	valgen "github.com/sarchlab/sysarray/util"
	"github.com/sarchlab/sysarray/verify"
)

func runOnDevice(
	driver Driver,
	size int,
	activations, weights [][]uint64,
) [][]uint64 {
	driver.FeedIn(valgen.Flatten(activations), mesh.West, [2]int{0, size}, size)
	driver.FeedIn(valgen.Flatten(weights), mesh.North, [2]int{0, size}, size)

	data := make([]uint64, size*size)
	driver.Collect(data, mesh.East, [2]int{0, size}, size)
	driver.Run()

	readout := make([][]uint64, size)
	for row := range readout {
		readout[row] = make([]uint64, size)
		for step := 0; step < size; step++ {
			readout[row][step] = data[step*size+row]
		}
	}

	return readout
}

var _ = Describe("Driver on a device", func() {
	var (
		engine  sim.Engine
		driver  Driver
		monitor *verify.Monitor
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		driver = DriverBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Driver")
		monitor = verify.NewMonitor()
	})

	DescribeTable("should compute every dot product",
		func(size, depth, k int, width mesh.Width, seed int64) {
			device := config.DeviceBuilder{}.
				WithSize(size).
				WithQueueDepth(depth).
				WithWidth(width).
				Build("Device")
			device.AcceptHook(monitor)
			driver.RegisterDevice(device)

			stimulus := valgen.DefaultStimulus(size, seed)
			if width > 8 {
				stimulus.Hi = 1 << (width - 1)
			}
			act, wt := stimulus.Generate(k)

			scoreboard := verify.NewScoreboard("Scoreboard", size, width)
			scoreboard.AddPairs(act, wt)
			scoreboard.ObserveReadout(runOnDevice(driver, size, act, wt))

			Expect(scoreboard.Issues()).To(BeEmpty())
			Expect(scoreboard.Pending()).To(Equal(0))
			Expect(monitor.Issues()).To(BeEmpty())
			Expect(monitor.EngineTicks()).To(BeNumerically(">", 0))
		},
		Entry("one cell", 1, 4, 3, mesh.Width(32), int64(1)),
		Entry("2x2 in one chunk", 2, 8, 2, mesh.Width(32), int64(2)),
		Entry("3x3 in several chunks", 3, 2, 7, mesh.Width(32), int64(3)),
		Entry("4x4 with an exact chunk", 4, 4, 8, mesh.Width(32), int64(4)),
		Entry("3x3 with 8-bit words", 3, 3, 5, mesh.Width(8), int64(5)),
		Entry("2x2 with 64-bit words", 2, 1, 3, mesh.Width(64), int64(6)),
		Entry("empty contraction", 3, 4, 0, mesh.Width(32), int64(7)),
	)

	It("should panic without an engine", func() {
		Expect(func() { DriverBuilder{}.Build("Driver") }).To(Panic())
	})

	It("should keep runs independent", func() {
		device := config.DeviceBuilder{}.WithSize(2).WithQueueDepth(2).Build("Device")
		device.AcceptHook(monitor)
		driver = DriverBuilder{}.
			WithEngine(engine).
			WithDevice(device).
			Build("Driver")

		act := [][]uint64{{1, 2}, {3, 4}, {5, 6}}
		wt := [][]uint64{{7, 8}, {9, 10}, {11, 12}}

		first := runOnDevice(driver, 2, act, wt)
		second := runOnDevice(driver, 2, act, wt)

		Expect(second).To(Equal(first))
		Expect(first).To(Equal([][]uint64{
			{1*8 + 3*10 + 5*12, 1*7 + 3*9 + 5*11},
			{2*8 + 4*10 + 6*12, 2*7 + 4*9 + 6*11},
		}))
		Expect(monitor.Issues()).To(BeEmpty())
	})
})
