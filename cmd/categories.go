package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

type categoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Flag  string `json:"flag"`
	Names []string `json:"directoryNames"`
}

func categoryInfos() []categoryInfo {
	flagNames := map[taxonomy.Category]string{
		taxonomy.NodeModules: "node-modules",
		taxonomy.Composer:    "composer",
		taxonomy.Bundler:     "bundler",
		taxonomy.Pods:        "pods",
		taxonomy.PythonVenv:  "python-venv",
		taxonomy.ElixirDeps:  "elixir-deps",
		taxonomy.DartTool:    "dart-tool",
		taxonomy.GoMod:       "go-mod",
	}
	infos := make([]categoryInfo, 0, len(taxonomy.All()))
	for _, c := range taxonomy.All() {
		infos = append(infos, categoryInfo{
			ID:    string(c),
			Label: c.Label(),
			Flag:  "--" + flagNames[c],
			Names: c.DirectoryNames(),
		})
	}
	return infos
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "list recognized dependency directory categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := categoryInfos()
		if flagJSON {
			encodeJSON(os.Stdout, infos)
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		_, _ = bold.Println("Recognized categories")
		fmt.Println()

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, info := range infos {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", info.Flag, info.Label, faint.Sprint(info.Names))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
