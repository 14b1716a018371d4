package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/hostlink"
)

var discoverTimeout time.Duration

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List host link adapters",
	Long: `Enumerate connected USB register bridges that can carry the host
link, plus the always-available simulator.

Examples:
  forge discover
  forge discover --timeout 2s`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 5*time.Second,
		"USB enumeration timeout")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
	defer cancel()

	adapters, err := hostlink.DiscoverAdapters(ctx)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	for _, a := range adapters {
		if verbose {
			fmt.Printf("%-40s kind=%s vid:pid=%04X:%04X\n", a.Label(), a.Kind, a.VendorID, a.ProductID)
		} else {
			fmt.Println(a.Label())
		}
	}
	return nil
}
