// Package sizer computes the size, file count, latest modification time, and
// symlink-only status of a single dependency directory.
package sizer

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Result holds the measurements for one directory.
type Result struct {
	TotalSize       int64
	FileCount       int64
	LastModifiedMs  int64
	HasOnlySymlinks bool
}

// Measure walks root following symbolic links (required to give meaningful
// sizes for pnpm-style hoisted-symlink layouts) and returns its aggregate
// size, file count, and latest modification time. If no regular file is
// encountered, it performs a secondary unresolved walk to determine whether
// the tree contains only symlinks. The walk is single-threaded by design:
// parallelism across directories is provided by the caller's worker pool,
// not within a single directory's measurement.
func Measure(root string) Result {
	var result Result
	hasRealContent := false

	walkFollowingLinks(root, func(path string, info fs.FileInfo) {
		if info.Mode().IsRegular() {
			result.TotalSize += info.Size()
			result.FileCount++
			hasRealContent = true
			if ms := info.ModTime().UnixMilli(); ms > result.LastModifiedMs {
				result.LastModifiedMs = ms
			}
		}
	})

	if !hasRealContent {
		result.HasOnlySymlinks = directoryHasSymlinks(root)
	}

	if result.LastModifiedMs == 0 {
		if info, err := os.Stat(root); err == nil {
			result.LastModifiedMs = info.ModTime().UnixMilli()
		}
	}

	return result
}

// walkFollowingLinks walks root, resolving symlinks so hoisted package
// managers (pnpm) are sized through their hoisted namespace as well as their
// content-addressed store. Broken links and unreadable entries are skipped
// rather than aborting the walk.
func walkFollowingLinks(root string, visit func(path string, info fs.FileInfo)) {
	// ancestors holds the resolved real path of every directory currently on
	// the recursion stack, so a symlink pointing back at one of its own
	// ancestors is detected as a cycle and skipped. Separate branches of the
	// tree (e.g. a hoisted symlink forest alongside its content-addressed
	// store) are NOT deduplicated against each other: a top-level directory
	// reached twice through different paths is measured twice, which is the
	// intended semantic for pnpm-style layouts (spec scenario: hoisted
	// node_modules symlinks plus the .pnpm store they point into).
	var walk func(dir string, ancestors map[string]bool)
	walk = func(dir string, ancestors map[string]bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := os.Stat(path) // follows symlinks
			if err != nil {
				continue // broken link or permission error: contributes nothing
			}
			if info.IsDir() {
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					resolved = path
				}
				if ancestors[resolved] {
					continue // circular symlink: terminate without descending further
				}
				next := make(map[string]bool, len(ancestors)+1)
				for k := range ancestors {
					next[k] = true
				}
				next[resolved] = true
				walk(path, next)
				continue
			}
			visit(path, info)
		}
	}
	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		rootResolved = root
	}
	walk(root, map[string]bool{rootResolved: true})
}

// directoryHasSymlinks recursively inspects symlink_metadata-equivalent
// (Lstat, which does not resolve the link) for every entry under root,
// returning true as soon as a symbolic link is found.
func directoryHasSymlinks(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if found {
			return filepath.SkipAll
		}
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
