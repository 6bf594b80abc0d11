// Package settingsstore persists the user's scan configuration as JSON in
// the platform config directory, with field-level defaults applied when a
// key is missing and whole-file defaults applied when the file is absent
// or fails to parse.
package settingsstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

// FontSize is the UI text scale, persisted SCREAMING_SNAKE_CASE to match
// the rest of the settings schema.
type FontSize string

// Recognized font sizes.
const (
	FontSizeDefault    FontSize = "DEFAULT"
	FontSizeLarge      FontSize = "LARGE"
	FontSizeExtraLarge FontSize = "EXTRA_LARGE"
)

// RescanInterval controls how often the background aggregator recomputes
// the dependency total.
type RescanInterval string

// Recognized rescan intervals.
const (
	RescanOneHour  RescanInterval = "ONE_HOUR"
	RescanOneDay   RescanInterval = "ONE_DAY"
	RescanOneWeek  RescanInterval = "ONE_WEEK"
	RescanOneMonth RescanInterval = "ONE_MONTH"
	RescanNever    RescanInterval = "NEVER"
)

// Settings is the full persisted configuration.
type Settings struct {
	ThresholdBytes            int64               `json:"thresholdBytes"`
	RootDirectory             string              `json:"rootDirectory"`
	EnabledCategories         []taxonomy.Category `json:"enabledCategories"`
	MinSizeBytes              int64               `json:"minSizeBytes"`
	PermanentDelete           bool                `json:"permanentDelete"`
	ExcludePaths              string              `json:"excludePaths"`
	RescanInterval            RescanInterval      `json:"rescanInterval"`
	ConfirmBeforeDelete       bool                `json:"confirmBeforeDelete"`
	NotifyOnThresholdExceeded bool                `json:"notifyOnThresholdExceeded"`
	FontSize                  FontSize            `json:"fontSize"`
}

// Default returns the settings applied when no settings file exists yet.
func Default() Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return Settings{
		ThresholdBytes:            config.DefaultThresholdBytes,
		RootDirectory:             home,
		EnabledCategories:         taxonomy.All(),
		MinSizeBytes:              0,
		PermanentDelete:           false,
		ExcludePaths:              "",
		RescanInterval:            RescanOneDay,
		ConfirmBeforeDelete:       true,
		NotifyOnThresholdExceeded: true,
		FontSize:                  FontSizeDefault,
	}
}

// EnabledCategorySet returns s.EnabledCategories as a lookup set.
func (s Settings) EnabledCategorySet() map[taxonomy.Category]bool {
	set := make(map[taxonomy.Category]bool, len(s.EnabledCategories))
	for _, c := range s.EnabledCategories {
		set[c] = true
	}
	return set
}

// ValidationError reports an exclude-pattern configuration that exceeds
// one of the fixed limits.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// validateExcludePatterns enforces the same limits the settings UI does:
// a cap on total characters, pattern count, per-pattern length, and
// wildcards per pattern.
func validateExcludePatterns(excludePaths string) error {
	if len(excludePaths) > config.MaxTotalPatternsLength {
		return &ValidationError{Message: fmt.Sprintf(
			"total exclude patterns length exceeds %d characters", config.MaxTotalPatternsLength)}
	}

	patterns := pathutil.ParseExcludePatterns(excludePaths)
	if len(patterns) > config.MaxPatternCount {
		return &ValidationError{Message: fmt.Sprintf(
			"too many exclude patterns (max %d)", config.MaxPatternCount)}
	}

	for _, pattern := range patterns {
		if len(pattern) > config.MaxPatternLength {
			return &ValidationError{Message: fmt.Sprintf(
				"pattern exceeds %d characters: %s...", config.MaxPatternLength, truncate(pattern, 50))}
		}
		if wildcards := strings.Count(pattern, "*"); wildcards > config.MaxWildcardsPerPattern {
			return &ValidationError{Message: fmt.Sprintf(
				"pattern has too many wildcards (max %d): %s...", config.MaxWildcardsPerPattern, truncate(pattern, 50))}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Path returns the absolute path to settings.json, creating its parent
// directory if necessary.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config directory: %w", err)
	}
	dir := filepath.Join(configDir, config.AppConfigDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return filepath.Join(dir, config.SettingsFileName), nil
}

// Load reads settings.json, returning Default() if the file does not
// exist or fails to parse. A partially specified file (missing a newer
// field) is filled in with that field's default rather than rejected.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Settings{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := Default()
	if err := json.Unmarshal(content, &settings); err != nil {
		return Default(), nil
	}
	return settings, nil
}

// Save validates and writes settings to settings.json, pretty-printed.
func Save(settings Settings) error {
	if err := validateExcludePatterns(settings.ExcludePaths); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Reset deletes settings.json, so the next Load returns Default().
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
