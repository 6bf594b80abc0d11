package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/climisc"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/scancontroller"
	"github.com/alexwhin/deptox-core/internal/settingsstore"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run a one-shot scan and print a report",
	Long: `Runs a single scan over the root directory and prints a size-sorted report,
without entering the interactive walkthrough. Intended for scripting; combine
with --json for a machine-readable report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := settingsstore.Load()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		root := settings.RootDirectory
		if flagRoot != "" {
			root = flagRoot
		}
		enabled := resolveEnabledCategories(settings.EnabledCategorySet())

		sp := climisc.NewSpinner("Scanning "+root+"...", !flagJSON)
		sp.Start()

		controller := scancontroller.New()
		resultCh := controller.Start(scancontroller.Request{
			RootDirectory:     root,
			EnabledCategories: enabled,
			ExcludePatterns:   pathutil.ParseExcludePatterns(settings.ExcludePaths),
		}, nil, nil)
		result := <-resultCh
		sp.Stop()

		if result == nil {
			fmt.Println("Scan cancelled.")
			return nil
		}

		if flagJSON {
			encodeJSON(os.Stdout, result)
			return nil
		}

		if len(result.Entries) == 0 {
			fmt.Println("Nothing found.")
			return nil
		}

		printEntriesTable(os.Stdout, result.Entries, result.TotalSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
