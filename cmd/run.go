package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	sim "github.com/kernsim/kernsim/sim"
	_ "github.com/kernsim/kernsim/sim/demo" // register demo component types
	"github.com/kernsim/kernsim/sim/trace"
)

var (
	configPath string   // Path to the YAML hierarchy description
	traceCats  []string // Trace categories to enable
	traceAll   bool     // Enable every trace category
)

// runCmd builds the described hierarchy and runs it to completion. The
// simulation's exit code becomes the process exit code, routed through
// atexit so registered handlers (teardown) always run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a hierarchy description and run the simulation",
	Run: func(cmd *cobra.Command, args []string) {
		for _, cat := range traceCats {
			trace.Enable(cat)
		}
		if traceAll {
			trace.EnableAll()
		}

		desc, err := sim.LoadDescription(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load description: %v", err)
		}
		h, err := sim.Build(desc)
		if err != nil {
			logrus.Fatalf("Build failed: %v", err)
		}
		atexit.Register(func() {
			if err := h.Teardown(); err != nil {
				logrus.Errorf("Teardown: %v", err)
			}
		})

		startTime := time.Now()
		report := h.Run()
		elapsed := time.Since(startTime)

		switch report.Status {
		case sim.StatusFault:
			logrus.Errorf("Run faulted at tick %d: %v", report.FinalTime, report.Err)
			atexit.Exit(1)
		case sim.StatusExited:
			logrus.Infof("Run exited at tick %d: cause=%q code=%d (wall %s)",
				report.FinalTime, report.Cause, report.Code, elapsed)
			atexit.Exit(report.Code)
		default:
			logrus.Infof("Run exhausted the event queue at tick %d (wall %s)",
				report.FinalTime, elapsed)
			atexit.Exit(0)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML hierarchy description")
	runCmd.Flags().StringArrayVar(&traceCats, "trace", nil, "Trace category to enable (can be repeated)")
	runCmd.Flags().BoolVar(&traceAll, "trace-all", false, "Enable all trace categories")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}
