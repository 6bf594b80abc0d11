// Package climisc provides shared CLI presentation helpers for deptox: size
// formatting, a themed spinner, progress bars, and the interactive
// confirm/walkthrough prompts used by cmd/deptox.
package climisc

import "github.com/dustin/go-humanize"

// FormatSize formats a byte count as a human-readable string using IEC
// binary units, matching how Finder-adjacent tools report directory sizes.
func FormatSize(b int64) string {
	return humanize.IBytes(uint64(b))
}
