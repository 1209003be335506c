package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/acuaponia/feedsim/sim"
	"github.com/acuaponia/feedsim/sim/trace"
	"github.com/acuaponia/feedsim/sim/units"
)

var (
	// CLI flags for the run command
	scenarioPath string    // YAML scenario file (empty = built-in tilapia scenario)
	logLevel     string    // Log verbosity level
	dtsub        string    // Sub-step duration override, e.g. "15 min"
	horizon      string    // Simulation horizon override, e.g. "11 day"
	feedRatio    float64   // Fraction of ideal body mass fed per day
	schedule     []float64 // Feeding times of day (hours)
	scheduleCron string    // Feeding times as a cron expression
	traceLevel   string    // Decision trace level
	printDaily   bool      // Print the per-day feed table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "feedsim",
	Short: "Discrete-time fish feeder simulator for aquaponics tanks",
}

// runCmd executes the simulation using the scenario and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the feeder simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario := DefaultScenario()
		if scenarioPath != "" {
			scenario, err = LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Failed to load scenario %s: %v", scenarioPath, err)
			}
		}
		if err := applyOverrides(cmd, scenario); err != nil {
			logrus.Fatalf("Invalid flag: %v", err)
		}

		cfg, err := scenario.SimConfig()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}
		if err := runSimulation(cfg, os.Stdout, printDaily); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// applyOverrides copies the flags the user set onto the scenario.
func applyOverrides(cmd *cobra.Command, s *Scenario) error {
	flags := cmd.Flags()
	if flags.Changed("dtsub") {
		q, err := units.Parse(dtsub)
		if err != nil {
			return fmt.Errorf("--dtsub: %w", err)
		}
		s.Time.Dtsub = q
	}
	if flags.Changed("horizon") {
		q, err := units.Parse(horizon)
		if err != nil {
			return fmt.Errorf("--horizon: %w", err)
		}
		s.Time.Horizon = q
	}
	if flags.Changed("feed-ratio") {
		s.Feeder.Ratio = feedRatio
	}
	if flags.Changed("schedule") && flags.Changed("schedule-cron") {
		return fmt.Errorf("--schedule and --schedule-cron are mutually exclusive")
	}
	if flags.Changed("schedule") {
		s.Feeder.Schedule = schedule
		s.Feeder.ScheduleCron = ""
	}
	if flags.Changed("schedule-cron") {
		s.Feeder.ScheduleCron = scheduleCron
		s.Feeder.Schedule = nil
	}
	if flags.Changed("trace-level") {
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("--trace-level: unknown level %q; valid: none, windows", traceLevel)
		}
		s.Trace = traceLevel
	}
	return nil
}

// runSimulation builds and runs the simulator and writes the report to w.
func runSimulation(cfg sim.SimConfig, w io.Writer, daily bool) error {
	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	s.Metrics.Print(w)
	if daily {
		s.Metrics.PrintDaily(w)
	}
	if s.Trace.Config.Enabled() {
		printTraceSummary(w, trace.Summarize(s.Trace))
	}
	return nil
}

func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Windows              : %d\n", summary.TotalWindows)
	fmt.Fprintf(w, "Feeding Windows      : %d\n", summary.FeedingWindows)
	fmt.Fprintf(w, "Restarts             : %d\n", summary.Restarts)
	for _, status := range []sim.Status{sim.StatusGrowth, sim.StatusRestart, sim.StatusStarve, sim.StatusHarvest, sim.StatusStop} {
		if n := summary.StatusDistribution[string(status)]; n > 0 {
			fmt.Fprintf(w, "  %-19s: %d\n", status, n)
		}
	}
	fmt.Fprintf(w, "Max Window Feed      : %.3f g\n", summary.MaxWindowFed)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags defines the run command flags on c
func registerRunFlags(c *cobra.Command) {
	c.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (default: built-in tilapia scenario)")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Timeline overrides
	c.Flags().StringVar(&dtsub, "dtsub", "15 min", "Sub-step duration with unit")
	c.Flags().StringVar(&horizon, "horizon", "11 day", "Simulation horizon with unit")

	// Feeder overrides
	c.Flags().Float64Var(&feedRatio, "feed-ratio", 0.02, "Fraction of ideal body mass fed per day")
	c.Flags().Float64SliceVar(&schedule, "schedule", []float64{8, 12, 17}, "Comma-separated feeding times of day (hours)")
	c.Flags().StringVar(&scheduleCron, "schedule-cron", "", "Feeding times as a 5-field cron expression, e.g. \"0 8,12,17 * * *\"")

	// Reporting
	c.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, windows)")
	c.Flags().BoolVar(&printDaily, "daily", false, "Print the per-day feed table")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
