package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/climisc"
	"github.com/alexwhin/deptox-core/internal/largestfiles"
)

var largestFilesCmd = &cobra.Command{
	Use:   "largest-files PATH",
	Short: "list the largest files inside a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := largestfiles.Find(args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			encodeJSON(os.Stdout, result)
			return nil
		}

		if len(result.Files) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		cyan := color.New(color.FgCyan)
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		for _, f := range result.Files {
			fmt.Fprintf(tw, "  %s\t  %s\t\n", f.Path, cyan.Sprint(climisc.FormatSize(f.SizeBytes)))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(largestFilesCmd)
}
