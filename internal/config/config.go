// Package config centralizes the tunable constants used across the
// scanner, size pool, delete executor, and settings layers.
package config

import (
	"runtime"
	"time"
)

// App identifies where settings and other persisted state live on disk.
const (
	AppConfigDirName   = "deptox"
	SettingsFileName   = "settings.json"
)

// DefaultThresholdBytes seeds a freshly created settings file;
// DefaultBackgroundThresholdBytes is the threshold the background aggregator
// falls back to when settings cannot be loaded.
const (
	DefaultThresholdBytes           int64 = 5_368_709_120
	DefaultBackgroundThresholdBytes int64 = 1_073_741_824
)

// Scanner tunes the discovery walk and the size worker pool.
const (
	MaxScanDepth       = 15
	SizePoolThreads    = 8
	EmitThrottle       = 50 * time.Millisecond
	WalkerBusyTimeout  = 100 * time.Millisecond
	PreviousScanWait   = 2 * time.Second
	MaxTimeoutRetries  = 3
	ResultWaitTimeout  = 30 * time.Second
)

// SizePoolThreadCount returns the number of workers the size pool should
// use for one scan: the host's CPU count, capped at SizePoolThreads, so a
// small machine doesn't oversubscribe and a large one doesn't exceed the
// cap the sizing phase was tuned for.
func SizePoolThreadCount() int {
	if n := runtime.NumCPU(); n < SizePoolThreads {
		return n
	}
	return SizePoolThreads
}

// Background tunes the periodic aggregator.
const (
	BackgroundScanInterval = 30 * time.Minute
)

// Delete tunes the batch delete executor.
const (
	MaxConcurrentDeletes = 4
)

// LargestFiles tunes the top-N largest-file helper.
const (
	MaxLargestFiles = 8
)

// Bytes holds binary unit sizes. CLI size formatting goes through
// go-humanize (climisc.FormatSize), not these constants.
const (
	KB = 1024.0
	MB = KB * 1024.0
	GB = MB * 1024.0
	TB = GB * 1024.0
)

// ExcludePatterns bounds the exclude-pattern list accepted by settings.
const (
	MaxPatternLength       = 500
	MaxPatternCount        = 50
	MaxTotalPatternsLength = 10_000
	MaxWildcardsPerPattern = 10
)
