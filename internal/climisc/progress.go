package climisc

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

const progressThrottle = 50 * time.Millisecond

// ProgressBar wraps schollz/progressbar with enabled/disabled handling. All
// methods are no-ops when disabled, so batch delete output stays quiet in
// --json mode.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a determinate progress bar tracking total items.
// When enabled is false, all methods are no-ops.
func NewProgressBar(enabled bool, total int) *ProgressBar {
	if !enabled {
		return &ProgressBar{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressBar{bar: bar}
}

// Add advances the bar by n completed items.
func (p *ProgressBar) Add(n int) {
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

// Describe updates the progress bar's label, e.g. the path currently being
// deleted.
func (p *ProgressBar) Describe(label string) {
	if p.bar != nil {
		p.bar.Describe(label)
	}
}

// Finish completes the bar and prints a summary line.
func (p *ProgressBar) Finish(summary string) {
	if p.bar != nil {
		_ = p.bar.Finish()
		fmt.Fprintln(os.Stderr, "done: "+summary)
	}
}
