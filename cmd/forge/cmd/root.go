package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Forge instrument controller core",
	Long: `Register shim and application FSM for forge instruments: decode raw
control registers into typed configuration, gate the application behind the
enable predicate, and apply configuration updates through the race-free
handshake.

Examples:
  forge run --scenario single-pulse          # Run a scripted pulse in the simulator
  forge regmap pulse.regmap                  # Parse and describe a register map
  forge discover                             # List host link adapters`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
