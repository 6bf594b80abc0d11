// Package walker performs the bounded-depth, concurrency-bounded directory
// walk used by the discovery phase of a scan. It is the Go analogue of the
// parallel jwalk traversal in the original implementation: children of a
// directory are pruned against a skip predicate before being queued, so
// system and cache directories are never even opened.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one directory encountered during the walk.
type Entry struct {
	Path  string
	Name  string
	Depth int
}

// VisitFunc is called for every directory the walker reaches (every
// non-pruned child of a directory it descends into), including root itself
// at depth 0. Returning false prevents the walker
// from descending into that directory's children; returning true continues
// the walk normally.
type VisitFunc func(entry Entry) (descend bool)

// Options configures a walk.
type Options struct {
	// MaxDepth bounds how many levels below root are visited. Root is
	// depth 0; MaxDepth <= 0 means unbounded.
	MaxDepth int
	// Concurrency bounds how many extra goroutines read directories at
	// once; the calling goroutine also reads directories inline when they
	// are all busy. A value below 1 is treated as 1.
	Concurrency int
	// Prune is consulted for every child directory name before it is
	// queued; a true result skips the directory entirely (neither
	// visited nor descended into).
	Prune func(name string) bool
}

// Walk traverses root breadth-first-ish (directories are fanned out to a
// bounded worker pool as they're discovered), calling visit for every
// directory found. The walk stops early, without error, if ctx is
// cancelled; callers should treat that as "results so far are partial."
func Walk(ctx context.Context, root string, opts Options, visit VisitFunc) {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	var walkDir func(path string, depth int)
	walkDir = func(path string, depth int) {
		defer wg.Done()

		if ctx.Err() != nil {
			return
		}

		name := filepath.Base(path)
		descend := visit(Entry{Path: path, Name: name, Depth: depth})
		if !descend {
			return
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if !entry.IsDir() {
				continue
			}
			childName := entry.Name()
			if opts.Prune != nil && opts.Prune(childName) {
				continue
			}

			childPath := filepath.Join(path, childName)
			wg.Add(1)

			select {
			case sem <- struct{}{}:
				go func(p string, d int) {
					defer func() { <-sem }()
					walkDir(p, d)
				}(childPath, depth+1)
			default:
				// Pool saturated: process inline on the current goroutine
				// rather than blocking on an unbounded number of pending
				// sends, which would otherwise defeat the concurrency cap.
				walkDir(childPath, depth+1)
			}
		}
	}

	wg.Add(1)
	walkDir(root, 0)
	wg.Wait()
}
