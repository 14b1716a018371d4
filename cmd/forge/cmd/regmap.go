package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/regmap"
)

var regmapCmd = &cobra.Command{
	Use:   "regmap <file.regmap>",
	Short: "Parse and describe a register map file",
	Long: `Parse a .regmap file, validate the layout, and print the register
and field assignments.

Examples:
  forge regmap pkg/regmap/testdata/pulse.regmap`,
	Args: cobra.ExactArgs(1),
	RunE: runRegmap,
}

func init() {
	rootCmd.AddCommand(regmapCmd)
}

func runRegmap(cmd *cobra.Command, args []string) error {
	layout, err := regmap.LoadLayout(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("regmap %s version %d (%d registers)\n", layout.Name, layout.Version, len(layout.Registers))
	for _, reg := range layout.Registers {
		fmt.Printf("  [%2d] %-12s %s\n", reg.Index, reg.Name, reg.Dir)
		for _, f := range reg.Fields {
			if f.Hi == f.Lo {
				fmt.Printf("        %-12s bit %d\n", f.Name, f.Lo)
			} else {
				fmt.Printf("        %-12s bits [%d:%d]\n", f.Name, f.Hi, f.Lo)
			}
		}
	}
	return nil
}
