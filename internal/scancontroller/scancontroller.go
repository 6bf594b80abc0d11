// Package scancontroller orchestrates a full scan: it runs discovery,
// submits discovered directories to a size pool, collects their results,
// and arbitrates so that only one scan is ever in flight, cancelling and
// waiting briefly for any previous scan before starting a new one.
package scancontroller

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/discovery"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/sizepool"
	"github.com/alexwhin/deptox-core/internal/sizer"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

// DirectoryEntry is one sized dependency directory in a finished scan.
type DirectoryEntry struct {
	Path            string
	SizeBytes       int64
	FileCount       int64
	LastModifiedMs  int64
	Category        taxonomy.Category
	HasOnlySymlinks bool
}

// Result is the outcome of a completed (uncancelled) scan.
type Result struct {
	Entries      []DirectoryEntry
	TotalSize    int64
	ScanTimeMs   int64
	SkippedCount int
}

// Stats is a progress snapshot, throttled to at most once every 50ms.
type Stats struct {
	TotalSize      int64
	DirectoryCount int
	CurrentPath    string
}

// Request describes what a scan should cover.
type Request struct {
	RootDirectory     string
	EnabledCategories map[taxonomy.Category]bool
	ExcludePatterns   []string
}

// Controller arbitrates scans so exactly one is active at a time.
type Controller struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	completed chan struct{}
}

// New returns a ready Controller with no scan in flight.
func New() *Controller {
	return &Controller{}
}

// Start cancels any previous scan (waiting up to config.PreviousScanWait for
// it to finish), then begins a new scan in a background goroutine. The
// supplied onProgress and onEntry callbacks are invoked from that goroutine
// as the scan proceeds; onEntry is called once per sized directory, in the
// order the size pool finishes them (neither discovery order nor sorted).
// The returned channel receives exactly one
// Result when the scan finishes, or is closed without a value if the scan
// is cancelled before completion.
func (c *Controller) Start(req Request, onProgress func(Stats), onEntry func(DirectoryEntry)) <-chan *Result {
	c.cancelPreviousAndWait()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.completed = done
	c.mu.Unlock()

	out := make(chan *Result, 1)

	go func() {
		defer close(done)
		defer close(out)

		result := c.run(ctx, req, onProgress, onEntry)
		if result != nil {
			out <- result
		}
	}()

	return out
}

// Cancel requests that the in-flight scan, if any, stop as soon as
// possible. It is a no-op if no scan is running.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) cancelPreviousAndWait() {
	c.mu.Lock()
	cancel := c.cancel
	completed := c.completed
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if completed != nil {
		select {
		case <-completed:
		case <-time.After(config.PreviousScanWait):
		}
	}
}

func (c *Controller) run(ctx context.Context, req Request, onProgress func(Stats), onEntry func(DirectoryEntry)) *Result {
	start := time.Now()

	targetNames := taxonomy.TargetDirectoryNames(req.EnabledCategories)
	discoveryResult := discovery.Run(ctx, discovery.Config{
		RootDirectory:      pathutil.ExpandTilde(req.RootDirectory),
		TargetNames:        targetNames,
		EnabledCategories:  req.EnabledCategories,
		AllDependencyNames: taxonomy.AllDependencyDirectoryNames(),
		ExcludePatterns:    req.ExcludePatterns,
	}, func(s discovery.Stats) {
		if onProgress != nil {
			onProgress(Stats{DirectoryCount: s.DirectoryCount, CurrentPath: s.CurrentPath})
		}
	})
	if discoveryResult == nil {
		return nil
	}

	pool := sizepool.New(config.SizePoolThreadCount())
	for _, d := range discoveryResult.Discovered {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(d.Path, d.Category)
	}

	entries := make([]DirectoryEntry, 0, len(discoveryResult.Discovered))
	var totalSize int64
	expected := len(discoveryResult.Discovered)
	collected := 0
	timeouts := 0

collectLoop:
	for collected < expected {
		if ctx.Err() != nil {
			pool.Shutdown()
			return nil
		}

		select {
		case sized, ok := <-pool.Results():
			if !ok {
				break collectLoop
			}
			collected++
			timeouts = 0

			entry := DirectoryEntry{
				Path:            sized.Path,
				SizeBytes:       sized.TotalSize,
				FileCount:       sized.FileCount,
				LastModifiedMs:  sized.LastModifiedMs,
				Category:        sized.Category,
				HasOnlySymlinks: sized.HasOnlySymlinks,
			}
			totalSize += entry.SizeBytes
			entries = append(entries, entry)
			if onEntry != nil {
				onEntry(entry)
			}
		case <-time.After(config.ResultWaitTimeout):
			timeouts++
			if timeouts >= config.MaxTimeoutRetries {
				break collectLoop
			}
		case <-ctx.Done():
			pool.Shutdown()
			return nil
		}
	}

	pool.Shutdown()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SizeBytes > entries[j].SizeBytes
	})

	return &Result{
		Entries:      entries,
		TotalSize:    totalSize,
		ScanTimeMs:   time.Since(start).Milliseconds(),
		SkippedCount: discoveryResult.SkippedCount,
	}
}

// Rescan recomputes the size of a single directory, used to refresh one
// entry without running a whole new scan. exists is false when path is no
// longer a directory or when its name does not resolve to a dependency
// category; entry is only valid when exists is true.
func Rescan(path string) (entry DirectoryEntry, exists bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return DirectoryEntry{}, false
	}

	name := filepath.Base(path)
	category, ok := taxonomy.Resolve(name, path, allCategoriesEnabled())
	if !ok {
		return DirectoryEntry{}, false
	}

	measured := sizer.Measure(path)
	return DirectoryEntry{
		Path:            path,
		SizeBytes:       measured.TotalSize,
		FileCount:       measured.FileCount,
		LastModifiedMs:  measured.LastModifiedMs,
		Category:        category,
		HasOnlySymlinks: measured.HasOnlySymlinks,
	}, true
}

func allCategoriesEnabled() map[taxonomy.Category]bool {
	enabled := make(map[taxonomy.Category]bool, len(taxonomy.All()))
	for _, c := range taxonomy.All() {
		enabled[c] = true
	}
	return enabled
}
