package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/reveal"
)

var revealCmd = &cobra.Command{
	Use:   "reveal PATH",
	Short: "reveal a path in Finder (macOS only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reveal.Open(args[0])
	},
}

func init() {
	rootCmd.AddCommand(revealCmd)
}
