// Package discovery runs the walker over a root directory and turns the
// directories it visits into DiscoveredDirectory values: candidates whose
// basename matches a known dependency directory name, disambiguated by
// taxonomy.Resolve, filtered for nesting inside another dependency
// directory, and filtered against the caller's exclude patterns.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
	"github.com/alexwhin/deptox-core/internal/walker"
)

// Directory is a dependency directory found during discovery, not yet sized.
type Directory struct {
	Path     string
	Category taxonomy.Category
}

// Config parameterizes a discovery run.
type Config struct {
	RootDirectory      string
	TargetNames        map[string]bool
	EnabledCategories  map[taxonomy.Category]bool
	AllDependencyNames map[string]bool
	ExcludePatterns    []string
}

// Stats is reported via OnProgress no more than once every
// config.EmitThrottle while the walk is running.
type Stats struct {
	DirectoryCount int
	CurrentPath    string
}

// Result is the outcome of a complete (uncancelled) discovery run.
type Result struct {
	Discovered   []Directory
	SkippedCount int
}

// Run walks cfg.RootDirectory, pruning the fixed skip set and any directory
// already known to be a dependency root, and returns every dependency
// directory found. onProgress, if non-nil, is invoked at most once every
// 50ms with a running snapshot; it must not block. Run returns nil if ctx
// is cancelled before the walk completes.
func Run(ctx context.Context, cfg Config, onProgress func(Stats)) *Result {
	result := &Result{}

	var mu sync.Mutex
	var lastEmit time.Time

	maybeEmit := func(path string, discoveredSoFar int) {
		if onProgress == nil {
			return
		}
		now := time.Now()
		if !lastEmit.IsZero() && now.Sub(lastEmit) < config.EmitThrottle {
			return
		}
		lastEmit = now
		onProgress(Stats{DirectoryCount: discoveredSoFar, CurrentPath: path})
	}

	enabledCategories := cfg.EnabledCategories

	opts := walker.Options{
		MaxDepth:    config.MaxScanDepth,
		Concurrency: config.SizePoolThreads,
		Prune:       pathutil.ShouldSkipDirectory,
	}

	// The walker fans directories out across goroutines bounded by
	// Concurrency, so this callback runs concurrently; mu guards the
	// shared result and throttle state.
	walker.Walk(ctx, cfg.RootDirectory, opts, func(entry walker.Entry) bool {
		if !cfg.TargetNames[entry.Name] {
			mu.Lock()
			maybeEmit(entry.Path, len(result.Discovered))
			mu.Unlock()
			return true
		}

		category, ok := taxonomy.Resolve(entry.Name, entry.Path, enabledCategories)
		if !ok {
			mu.Lock()
			maybeEmit(entry.Path, len(result.Discovered))
			mu.Unlock()
			return true
		}

		if pathutil.IsInsideDependencyDirectory(entry.Path, entry.Name, cfg.AllDependencyNames) ||
			pathutil.ShouldExcludePath(entry.Path, cfg.ExcludePatterns) {
			mu.Lock()
			maybeEmit(entry.Path, len(result.Discovered))
			mu.Unlock()
			return true
		}

		mu.Lock()
		result.Discovered = append(result.Discovered, Directory{Path: entry.Path, Category: category})
		maybeEmit(entry.Path, len(result.Discovered))
		mu.Unlock()
		// A matched dependency directory is never descended into: its
		// internal structure (node_modules/.bin, vendor/composer, ...) is
		// never itself a scan target.
		return false
	})

	if ctx.Err() != nil {
		return nil
	}
	return result
}
