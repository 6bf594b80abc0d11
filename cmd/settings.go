package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexwhin/deptox-core/internal/settingsstore"
)

// loadSettings loads the persisted settings, returning sensible defaults if
// no settings file exists yet.
func loadSettings() (settingsstore.Settings, error) {
	return settingsstore.Load()
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "view or change persisted scan settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		if flagJSON {
			encodeJSON(os.Stdout, s)
			return nil
		}
		fmt.Printf("rootDirectory:            %s\n", s.RootDirectory)
		fmt.Printf("thresholdBytes:           %d\n", s.ThresholdBytes)
		fmt.Printf("minSizeBytes:             %d\n", s.MinSizeBytes)
		fmt.Printf("permanentDelete:          %t\n", s.PermanentDelete)
		fmt.Printf("excludePaths:             %s\n", s.ExcludePaths)
		fmt.Printf("rescanInterval:           %s\n", s.RescanInterval)
		fmt.Printf("confirmBeforeDelete:      %t\n", s.ConfirmBeforeDelete)
		fmt.Printf("notifyOnThresholdExceeded: %t\n", s.NotifyOnThresholdExceeded)
		fmt.Printf("fontSize:                 %s\n", s.FontSize)
		fmt.Printf("enabledCategories:        %v\n", s.EnabledCategories)
		return nil
	},
}

var (
	flagSetRoot            string
	flagSetThreshold       string
	flagSetMinSize         string
	flagSetPermanent       string
	flagSetExcludePaths    string
	flagSetRescanInterval  string
	flagSetConfirmDelete   string
	flagSetNotifyThreshold string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "update one or more settings fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		if flagSetRoot != "" {
			s.RootDirectory = flagSetRoot
		}
		if flagSetThreshold != "" {
			v, err := strconv.ParseInt(flagSetThreshold, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --threshold-bytes: %w", err)
			}
			s.ThresholdBytes = v
		}
		if flagSetMinSize != "" {
			v, err := strconv.ParseInt(flagSetMinSize, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --min-size-bytes: %w", err)
			}
			s.MinSizeBytes = v
		}
		if flagSetPermanent != "" {
			v, err := strconv.ParseBool(flagSetPermanent)
			if err != nil {
				return fmt.Errorf("invalid --permanent-delete: %w", err)
			}
			s.PermanentDelete = v
		}
		if flagSetExcludePaths != "" {
			s.ExcludePaths = flagSetExcludePaths
		}
		if flagSetRescanInterval != "" {
			s.RescanInterval = settingsstore.RescanInterval(flagSetRescanInterval)
		}
		if flagSetConfirmDelete != "" {
			v, err := strconv.ParseBool(flagSetConfirmDelete)
			if err != nil {
				return fmt.Errorf("invalid --confirm-before-delete: %w", err)
			}
			s.ConfirmBeforeDelete = v
		}
		if flagSetNotifyThreshold != "" {
			v, err := strconv.ParseBool(flagSetNotifyThreshold)
			if err != nil {
				return fmt.Errorf("invalid --notify-on-threshold: %w", err)
			}
			s.NotifyOnThresholdExceeded = v
		}

		if err := settingsstore.Save(s); err != nil {
			return err
		}
		fmt.Println("Settings updated.")
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "delete the persisted settings file, reverting to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := settingsstore.Reset(); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults.")
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&flagSetRoot, "root", "", "root directory to scan")
	settingsSetCmd.Flags().StringVar(&flagSetThreshold, "threshold-bytes", "", "notification threshold in bytes")
	settingsSetCmd.Flags().StringVar(&flagSetMinSize, "min-size-bytes", "", "minimum directory size to report")
	settingsSetCmd.Flags().StringVar(&flagSetPermanent, "permanent-delete", "", "delete permanently instead of using the trash (true/false)")
	settingsSetCmd.Flags().StringVar(&flagSetExcludePaths, "exclude-paths", "", "comma-separated wildcard exclude patterns")
	settingsSetCmd.Flags().StringVar(&flagSetRescanInterval, "rescan-interval", "", "ONE_HOUR, ONE_DAY, ONE_WEEK, ONE_MONTH, or NEVER")
	settingsSetCmd.Flags().StringVar(&flagSetConfirmDelete, "confirm-before-delete", "", "prompt before deleting (true/false)")
	settingsSetCmd.Flags().StringVar(&flagSetNotifyThreshold, "notify-on-threshold", "", "notify when the threshold is exceeded (true/false)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
