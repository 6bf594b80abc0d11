// Package aggregator runs a periodic background size calculation over the
// configured root directory, independent of any foreground scan, so a
// caller (e.g. a menu-bar summary) can show an approximate total without
// paying for a full discovery+sizing pass.
package aggregator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/sizer"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
	"github.com/alexwhin/deptox-core/internal/walker"
)

// CalculateTotalDependencySize walks rootDirectory once, measuring every
// enabled dependency directory it finds, and returns the sum of their
// sizes. Unlike a foreground scan it does not stream per-entry events and
// is not cancellable mid-walk: it is meant to run quickly enough on a
// timer that cancellation isn't needed.
func CalculateTotalDependencySize(rootDirectory string, enabledCategories map[taxonomy.Category]bool) int64 {
	targetNames := taxonomy.TargetDirectoryNames(enabledCategories)
	allNames := taxonomy.AllDependencyDirectoryNames()

	var totalSize int64

	// The walker fans its visit callback out across goroutines bounded by
	// Concurrency, so the running total is accumulated atomically.
	walker.Walk(context.Background(), pathutil.ExpandTilde(rootDirectory), walker.Options{
		MaxDepth:    config.MaxScanDepth,
		Concurrency: config.SizePoolThreadCount(),
		Prune:       pathutil.ShouldSkipDirectory,
	}, func(entry walker.Entry) bool {
		if !targetNames[entry.Name] {
			return true
		}
		if pathutil.IsInsideDependencyDirectory(entry.Path, entry.Name, allNames) {
			return true
		}
		if _, ok := taxonomy.Resolve(entry.Name, entry.Path, enabledCategories); !ok {
			return true
		}

		atomic.AddInt64(&totalSize, sizer.Measure(entry.Path).TotalSize)
		return false
	})

	return atomic.LoadInt64(&totalSize)
}

// Result is the outcome of one background aggregator tick: the total
// reclaimable size found across enabled categories, the threshold it was
// compared against, and whether it exceeded that threshold. This is what
// gets published to the ambient indicator.
type Result struct {
	TotalSize        int64
	ThresholdBytes   int64
	ExceedsThreshold bool
}

// Scheduler runs CalculateTotalDependencySize on config.BackgroundScanInterval
// and reports each result through onResult, until Stop is called.
type Scheduler struct {
	stop chan struct{}
	done chan struct{}
}

// Start launches a Scheduler that periodically recomputes the dependency
// total for rootDirectory/enabledCategories/thresholdBytes (read fresh
// from settings via the settings func on every tick, so a live settings
// change takes effect on the next run), compares the total against the
// threshold, and publishes the comparison through onResult for the ambient
// indicator to consume.
func Start(settings func() (rootDirectory string, enabledCategories map[taxonomy.Category]bool, thresholdBytes int64), onResult func(Result)) *Scheduler {
	return startWithInterval(config.BackgroundScanInterval, settings, onResult)
}

func startWithInterval(interval time.Duration, settings func() (rootDirectory string, enabledCategories map[taxonomy.Category]bool, thresholdBytes int64), onResult func(Result)) *Scheduler {
	s := &Scheduler{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				root, categories, threshold := settings()
				total := CalculateTotalDependencySize(root, categories)
				if onResult != nil {
					onResult(Result{
						TotalSize:        total,
						ThresholdBytes:   threshold,
						ExceedsThreshold: total > threshold,
					})
				}
			}
		}
	}()

	return s
}

// Stop halts the scheduler's goroutine and waits for it to exit. Safe to
// call once; a second call would panic on the already-closed stop channel,
// matching the single-owner lifecycle of the rest of this package's types.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
