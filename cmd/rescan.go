package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/climisc"
	"github.com/alexwhin/deptox-core/internal/scancontroller"
)

var rescanCmd = &cobra.Command{
	Use:   "rescan PATH",
	Short: "recompute the size of a single directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, exists := scancontroller.Rescan(args[0])
		if !exists {
			return fmt.Errorf("%s is not a recognized dependency directory", args[0])
		}

		if flagJSON {
			encodeJSON(os.Stdout, entry)
			return nil
		}

		fmt.Printf("%s  %s  [%s]\n", entry.Path, climisc.FormatSize(entry.SizeBytes), entry.Category.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rescanCmd)
}
