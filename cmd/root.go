package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/climisc"
	"github.com/alexwhin/deptox-core/internal/deleter"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/scancontroller"
	"github.com/alexwhin/deptox-core/internal/settingsstore"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

// version is set via ldflags at build time:
//
//	go build -ldflags "-X github.com/alexwhin/deptox-core/cmd.version=0.1.0"
var version = "dev"

var (
	flagRoot     string
	flagJSON     bool
	flagVerbose  bool
	flagForce    bool
	flagPermanent bool
	flagHelpJSON bool
)

// Category toggle flags, one per taxonomy.Category. categoryFlags maps each
// flag to the category it enables.
var (
	flagNodeModules bool
	flagComposer    bool
	flagBundler     bool
	flagPods        bool
	flagPythonVenv  bool
	flagElixirDeps  bool
	flagDartTool    bool
	flagGoMod       bool
)

type categoryFlag struct {
	flag     *bool
	category taxonomy.Category
}

func categoryFlags() []categoryFlag {
	return []categoryFlag{
		{&flagNodeModules, taxonomy.NodeModules},
		{&flagComposer, taxonomy.Composer},
		{&flagBundler, taxonomy.Bundler},
		{&flagPods, taxonomy.Pods},
		{&flagPythonVenv, taxonomy.PythonVenv},
		{&flagElixirDeps, taxonomy.ElixirDeps},
		{&flagDartTool, taxonomy.DartTool},
		{&flagGoMod, taxonomy.GoMod},
	}
}

// anyCategoryFlagSet reports whether the caller requested specific
// categories, as opposed to leaving every category at its settings default.
func anyCategoryFlagSet() bool {
	for _, c := range categoryFlags() {
		if *c.flag {
			return true
		}
	}
	return false
}

// resolveEnabledCategories returns the category set to scan: the flags the
// caller set, or the persisted settings default when none were set.
func resolveEnabledCategories(defaults map[taxonomy.Category]bool) map[taxonomy.Category]bool {
	if !anyCategoryFlagSet() {
		return defaults
	}
	enabled := make(map[taxonomy.Category]bool, len(taxonomy.All()))
	for _, c := range categoryFlags() {
		if *c.flag {
			enabled[c.category] = true
		}
	}
	return enabled
}

var rootCmd = &cobra.Command{
	Use:   "deptox",
	Short: "find and remove dependency directories reclaiming disk space",
	Long: `Scan a directory tree for dependency directories (node_modules, vendor,
Pods, .venv, deps, .dart_tool, pkg/mod) and remove the ones you no longer need.

Without flags, enters interactive walkthrough mode over the persisted root
directory. Use category flags (--node-modules, --pods, etc.) to scope a scan
to specific package managers, or the "scan" subcommand for a one-shot,
script-friendly report.

Examples:
  deptox                                interactive walkthrough
  deptox --root ~/code --node-modules   scan only node_modules under ~/code
  deptox scan --json                    structured report for scripting
  deptox --help-json                    structured help for AI agents`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagHelpJSON {
			printHelpJSON(os.Stdout)
			return nil
		}

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

		req := scancontroller.Request{
			RootDirectory:     root,
			EnabledCategories: enabled,
			ExcludePatterns:   pathutil.ParseExcludePatterns(settings.ExcludePaths),
		}
		controller := scancontroller.New()
		resultCh := controller.Start(req, nil, nil)
		result := <-resultCh
		sp.Stop()

		if result == nil {
			fmt.Println("Scan cancelled.")
			return nil
		}

		if flagJSON {
			printScanJSON(*result)
			return nil
		}

		if len(result.Entries) == 0 {
			fmt.Println("Nothing to clean.")
			return nil
		}

		reader := bufio.NewReader(os.Stdin)
		marked := climisc.RunWalkthrough(reader, os.Stdout, result.Entries)
		if len(marked) == 0 {
			return nil
		}

		if !flagForce {
			if !climisc.PromptConfirmation(reader, os.Stdout, marked) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		runDelete(marked, settings.PermanentDelete || flagPermanent)
		return nil
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "directory to scan (defaults to the saved settings root)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "show detailed per-directory output")
	rootCmd.Flags().BoolVar(&flagForce, "force", false, "bypass confirmation prompt (for automation)")
	rootCmd.Flags().BoolVar(&flagPermanent, "permanent", false, "delete permanently instead of moving to the trash")
	rootCmd.Flags().BoolVar(&flagHelpJSON, "help-json", false, "output structured help as JSON for AI agents")

	rootCmd.Flags().BoolVar(&flagNodeModules, "node-modules", false, "scan Node.js node_modules directories")
	rootCmd.Flags().BoolVar(&flagComposer, "composer", false, "scan PHP Composer vendor directories")
	rootCmd.Flags().BoolVar(&flagBundler, "bundler", false, "scan Ruby Bundler vendor directories")
	rootCmd.Flags().BoolVar(&flagPods, "pods", false, "scan iOS CocoaPods Pods directories")
	rootCmd.Flags().BoolVar(&flagPythonVenv, "python-venv", false, "scan Python virtual environments")
	rootCmd.Flags().BoolVar(&flagElixirDeps, "elixir-deps", false, "scan Elixir deps directories")
	rootCmd.Flags().BoolVar(&flagDartTool, "dart-tool", false, "scan Dart .dart_tool directories")
	rootCmd.Flags().BoolVar(&flagGoMod, "go-mod", false, "scan Go module cache (pkg/mod) directories")

	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if flagJSON {
			color.NoColor = true
		}
	}
}

// Execute runs the root command. Errors are printed to stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDelete deletes the marked entries with a progress bar, then prints a
// summary. Shared by the interactive walkthrough and the delete-all subcommand.
func runDelete(entries []scancontroller.DirectoryEntry, permanent bool) {
	bar := climisc.NewProgressBar(!flagJSON, len(entries))
	var freed int64
	var failed int

	for _, e := range entries {
		label := shortenHome(e.Path, homeDir())
		bar.Describe(label)
		if flagVerbose {
			fmt.Printf("  removing %s (%s)\n", label, climisc.FormatSize(e.SizeBytes))
		}
		result := deleter.DeleteOne(e.Path, permanent)
		if result.Success {
			freed += e.SizeBytes
		} else {
			failed++
		}
		bar.Add(1)
	}
	bar.Finish(climisc.FormatSize(freed) + " freed")

	greenBold := color.New(color.FgGreen, color.Bold)
	fmt.Println()
	_, _ = greenBold.Printf("Cleanup complete: %d removed, %s freed\n", len(entries)-failed, climisc.FormatSize(freed))
	if failed > 0 {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Printf("%d item(s) failed to delete\n", failed)
	}
}

// printScanJSON outputs a scan result as formatted JSON to stdout.
func printScanJSON(result scancontroller.Result) {
	encodeJSON(os.Stdout, result)
}

// homeDir returns the user's home directory, or "" if it cannot be
// determined.
func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// shortenHome replaces the home directory prefix with ~ for display.
func shortenHome(path, home string) string {
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// printEntriesTable renders scan entries as an aligned table, largest first.
func printEntriesTable(w *os.File, entries []scancontroller.DirectoryEntry, total int64) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].SizeBytes > entries[j].SizeBytes })

	home := homeDir()
	cyan := color.New(color.FgCyan)
	faint := color.New(color.Faint)
	greenBold := color.New(color.FgGreen, color.Bold)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, e := range entries {
		path := shortenHome(e.Path, home)
		fmt.Fprintf(tw, "  %s\t  %s\t  %s\t\n", path, cyan.Sprint(climisc.FormatSize(e.SizeBytes)), faint.Sprint("["+e.Category.Label()+"]"))
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	_, _ = greenBold.Fprintf(w, "  Total: %s reclaimable across %d directories\n", climisc.FormatSize(total), len(entries))
	fmt.Fprintln(w)
}
