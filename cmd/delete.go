package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/climisc"
	"github.com/alexwhin/deptox-core/internal/deleter"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/scancontroller"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

var deleteCmd = &cobra.Command{
	Use:   "delete PATH...",
	Short: "delete one or more dependency directories",
	Long: `Deletes the given directories, moving each to the trash unless --permanent
is set. Every path must resolve to a recognized dependency directory
(node_modules, vendor, Pods, .venv, deps, .dart_tool, pkg) or the delete is
rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make([]scancontroller.DirectoryEntry, 0, len(args))
		for _, path := range args {
			// A path that doesn't resolve (already gone, or not a
			// recognized dependency directory) is skipped here rather than
			// aborting the whole batch; deleter.DeleteAll below
			// re-validates every path independently and reports it as a
			// failed entry, matching the partial-success semantics the IPC
			// deleteAll method already implements.
			entry, exists := scancontroller.Rescan(path)
			if !exists {
				fmt.Fprintf(os.Stderr, "%s is not a recognized dependency directory, skipping size estimate\n", path)
				continue
			}
			entries = append(entries, entry)
		}

		if !flagForce {
			reader := bufio.NewReader(os.Stdin)
			if !climisc.PromptConfirmation(reader, os.Stdout, entries) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		results := deleter.DeleteAll(args, flagPermanent)

		sizeByPath := make(map[string]int64, len(entries))
		for _, e := range entries {
			sizeByPath[e.Path] = e.SizeBytes
		}

		var freed int64
		var failed int
		for _, r := range results {
			if r.Success {
				freed += sizeByPath[r.Path]
			} else {
				failed++
			}
		}

		if flagJSON {
			encodeJSON(os.Stdout, results)
			return nil
		}

		greenBold := color.New(color.FgGreen, color.Bold)
		_, _ = greenBold.Printf("Removed %d of %d, %s freed\n", len(results)-failed, len(results), climisc.FormatSize(freed))
		if failed > 0 {
			yellow := color.New(color.FgYellow)
			_, _ = yellow.Printf("%d item(s) failed to delete\n", failed)
		}
		return nil
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "scan and delete every matching directory without per-item review",
	Long: `Runs a scan over the root directory and deletes every discovered entry.
Equivalent to "deptox scan" followed by "deptox delete" on every result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsForRoot()
		if err != nil {
			return err
		}

		enabled := resolveEnabledCategories(settings.enabled)
		sp := climisc.NewSpinner("Scanning "+settings.root+"...", !flagJSON)
		sp.Start()

		controller := scancontroller.New()
		resultCh := controller.Start(scancontroller.Request{
			RootDirectory:     settings.root,
			EnabledCategories: enabled,
			ExcludePatterns:   settings.excludePatterns,
		}, nil, nil)
		result := <-resultCh
		sp.Stop()

		if result == nil || len(result.Entries) == 0 {
			fmt.Println("Nothing to clean.")
			return nil
		}

		if !flagForce {
			reader := bufio.NewReader(os.Stdin)
			if !climisc.PromptConfirmation(reader, os.Stdout, result.Entries) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		runDelete(result.Entries, settings.permanent || flagPermanent)
		return nil
	},
}

// settingsForRoot bundles the fields the delete-all path needs from
// persisted settings, resolved against --root.
type settingsForRoot struct {
	root            string
	enabled         map[taxonomy.Category]bool
	excludePatterns []string
	permanent       bool
}

func loadSettingsForRoot() (settingsForRoot, error) {
	s, err := loadSettings()
	if err != nil {
		return settingsForRoot{}, err
	}
	root := s.RootDirectory
	if flagRoot != "" {
		root = flagRoot
	}
	return settingsForRoot{
		root:            root,
		enabled:         s.EnabledCategorySet(),
		excludePatterns: pathutil.ParseExcludePatterns(s.ExcludePaths),
		permanent:       s.PermanentDelete,
	}, nil
}

func init() {
	deleteCmd.Flags().BoolVar(&flagForce, "force", flagForce, "bypass confirmation prompt (for automation)")
	deleteCmd.Flags().BoolVar(&flagPermanent, "permanent", flagPermanent, "delete permanently instead of moving to the trash")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteAllCmd)
}
