package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceForge/internal/config"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/app"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/core"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/regmap"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/shim"
)

var (
	runScenario   string
	runTickPeriod time.Duration
	runRegmapPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the instrument core in the simulator",
	Long: `Run the pulse instrument core at a fixed tick rate, driven by a
scripted host scenario.

Examples:
  forge run                                  # single-pulse scenario, defaults
  forge run --scenario abort --tick 500us    # exercise the abort path
  forge run --regmap custom.regmap           # use a layout from a .regmap file
  forge run -v --scenario recommit           # log state transitions`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runScenario, "scenario", "s", "",
		"scripted scenario name (single-pulse, abort, recommit)")
	runCmd.Flags().DurationVar(&runTickPeriod, "tick", 0,
		"tick period (overrides config)")
	runCmd.Flags().StringVar(&runRegmapPath, "regmap", "",
		"path to a .regmap layout file (default: built-in pulse map)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runTickPeriod == 0 {
		runTickPeriod = cfg.Run.TickPeriod
	}
	if runScenario == "" {
		runScenario = cfg.Run.Scenario
	}
	if runRegmapPath == "" {
		runRegmapPath = cfg.Run.Regmap
	}

	layout := shim.PulseLayout()
	if runRegmapPath != "" {
		layout, err = regmap.LoadLayout(runRegmapPath)
		if err != nil {
			return err
		}
	}

	c, err := core.New(layout, app.NewPulseProgram())
	if err != nil {
		return err
	}

	scenario, ok := core.Scenarios()[runScenario]
	if !ok {
		names := make([]string, 0)
		for name := range core.Scenarios() {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown scenario %q, have %v", runScenario, names)
	}

	runner, err := core.NewRunner(c, runTickPeriod, scenario.Source(c))
	if err != nil {
		return err
	}
	if verbose {
		runner.Log = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("run %s: layout %s v%d, scenario %s, tick %v\n",
		runner.ID, layout.Name, layout.Version, scenario.Name, runTickPeriod)

	runErr := runner.Run(ctx)

	fmt.Printf("final: tick %d, fsm %s, handshake %s, config %+v\n",
		c.Tick(), c.State(), c.HandshakeState(), c.LiveConfig())
	return runErr
}
