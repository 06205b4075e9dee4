package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/sysarray/api"
	"github.com/sarchlab/sysarray/config"
	"github.com/sarchlab/sysarray/mesh"
	"github.com/sarchlab/sysarray/systolic"
	valgen "github.com/sarchlab/sysarray/util"
	"github.com/sarchlab/sysarray/verify"
	"github.com/tebeka/atexit"
)

var (
	configFile = flag.String("config", "", "YAML run configuration")
	trace      = flag.Bool("trace", false, "write trace events as JSON to stdout")
)

func matmul(
	driver api.Driver,
	device *config.Device,
	activations, weights [][]uint64,
) [][]uint64 {
	n := device.Size()

	driver.FeedIn(valgen.Flatten(activations), mesh.West, [2]int{0, n}, n)
	driver.FeedIn(valgen.Flatten(weights), mesh.North, [2]int{0, n}, n)

	dst := make([]uint64, n*n)
	driver.Collect(dst, mesh.East, [2]int{0, n}, n)

	driver.Run()

	readout := make([][]uint64, n)
	for row := range readout {
		readout[row] = make([]uint64, n)
		for step := 0; step < n; step++ {
			readout[row][step] = dst[step*n+row]
		}
	}

	return readout
}

func run(cfg config.RunConfig) *verify.VerificationReport {
	engine := sim.NewSerialEngine()

	device := cfg.DeviceBuilder().Build("Device")

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.FreqGHz) * sim.GHz).
		WithDevice(device).
		Build("Driver")

	if cfg.Monitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.RegisterComponent(driver)
		monitor.StartServer()
	}

	checker := verify.NewMonitor()
	device.AcceptHook(checker)

	scoreboard := verify.NewScoreboard("Scoreboard", cfg.Size, device.Width())

	var observed [][]uint64
	for i := 0; i < cfg.Runs; i++ {
		act, wt := cfg.Stimulus(i).Generate(cfg.Contraction)

		scoreboard.Reset()
		scoreboard.AddPairs(act, wt)

		readout := matmul(driver, device, act, wt)
		scoreboard.ObserveReadout(readout)
		observed = systolic.ReadoutToMatrix(readout)

		if scoreboard.Mismatches() > 0 {
			break
		}
	}

	return verify.GenerateReport(cfg.Name, checker, scoreboard, observed)
}

func main() {
	flag.Parse()

	if *trace {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: mesh.LevelTrace,
		})
		slog.SetDefault(slog.New(handler))
	}

	cfg := config.DefaultRunConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadRunConfigFromYAML(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	report := run(cfg)
	report.WriteReport(os.Stdout)

	if cfg.Report != "" {
		if err := report.SaveReportToFile(cfg.Report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			atexit.Exit(1)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
