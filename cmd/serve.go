package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/aggregator"
	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/server"
	"github.com/alexwhin/deptox-core/internal/settingsstore"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

var flagSocket string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the IPC server for desktop app integration",
	Long:  "starts a Unix domain socket server that accepts NDJSON requests for scanning, deletion, and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle SIGINT/SIGTERM for graceful shutdown.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		srv := server.New(flagSocket, version)

		agg := aggregator.Start(backgroundSettingsSnapshot, publishThresholdResult)

		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr, "\nShutting down...")
			agg.Stop()
			srv.Shutdown()
			cancel()
		}()

		fmt.Fprintf(os.Stderr, "Listening on %s\n", flagSocket)
		return srv.Serve(ctx)
	},
}

// backgroundSettingsSnapshot reads the current settings for one background
// aggregator tick. If settings can't be loaded, it falls back to the
// defaults for root/categories and to config.DefaultBackgroundThresholdBytes
// for the threshold, rather than the user-visible default threshold, since
// there's no saved user preference to honor yet.
func backgroundSettingsSnapshot() (string, map[taxonomy.Category]bool, int64) {
	settings, err := settingsstore.Load()
	if err != nil {
		defaults := settingsstore.Default()
		return defaults.RootDirectory, defaults.EnabledCategorySet(), config.DefaultBackgroundThresholdBytes
	}
	return settings.RootDirectory, settings.EnabledCategorySet(), settings.ThresholdBytes
}

// publishThresholdResult is the ambient indicator's publish step: logging
// stands in for the tray icon update the desktop shell (an external
// collaborator, out of scope here) would otherwise perform.
func publishThresholdResult(result aggregator.Result) {
	log.Info().
		Int64("totalSizeBytes", result.TotalSize).
		Int64("thresholdBytes", result.ThresholdBytes).
		Bool("exceedsThreshold", result.ExceedsThreshold).
		Msg("background scan threshold check")
}

func init() {
	serveCmd.Flags().StringVar(&flagSocket, "socket", "/tmp/deptox.sock", "Unix domain socket path")
	rootCmd.AddCommand(serveCmd)
}
