// Package deleter validates and performs deletion of dependency
// directories, either by moving them to the trash or removing them
// permanently, with a bounded-concurrency batch mode for deleting many
// directories at once.
package deleter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alexwhin/deptox-core/internal/config"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

// Validation errors returned by validatePath.
var (
	ErrDoesNotExist           = errors.New("directory does not exist")
	ErrNotADirectory          = errors.New("path is not a directory")
	ErrNotDependencyDirectory = errors.New("can only delete dependency directories")
)

// InvalidPathError wraps a failure to resolve a path (e.g. a broken
// symlink or a path that escapes via ".." through a symlinked ancestor).
type InvalidPathError struct {
	Path string
	Err  error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %v", e.Path, e.Err)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// Result is the outcome of deleting one directory.
type Result struct {
	Success   bool
	Path      string
	SizeFreed int64
}

// validatePath canonicalizes path (resolving symlinks, so a symlinked
// ancestor cannot be used to point the delete somewhere outside what the
// caller intended) and confirms it still exists, is a directory, and has a
// basename recognized as a dependency directory.
func validatePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", &InvalidPathError{Path: path, Err: err}
	}
	canonical := filepath.Clean(resolved)

	info, err := os.Stat(canonical)
	if err != nil {
		return "", ErrDoesNotExist
	}
	if !info.IsDir() {
		return "", ErrNotADirectory
	}

	name := filepath.Base(canonical)
	if !taxonomy.IsDependencyDirectoryName(name) {
		return "", ErrNotDependencyDirectory
	}

	return canonical, nil
}

// iCloudPlaceholderMarkers are substrings seen in errors raised when an
// operation touches a file that iCloud Drive has evicted to the cloud and
// not yet downloaded locally. This substring match is fragile across OS
// versions and locales; a more robust implementation would also check
// platform-specific error codes where available.
var iCloudPlaceholderMarkers = []string{
	"needs to be downloaded",
}

func looksLikeICloudEviction(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range iCloudPlaceholderMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// DeleteOne validates path and removes it, either by moving it to the
// trash (permanent=false) or by deleting it outright (permanent=true). A
// trash move that fails because the directory is an un-downloaded iCloud
// placeholder falls back to a permanent removal, matching how Finder
// itself behaves for such paths.
func DeleteOne(path string, permanent bool) Result {
	canonical, err := validatePath(path)
	if err != nil {
		return Result{Success: false, Path: path}
	}

	if permanent {
		if err := os.RemoveAll(canonical); err != nil {
			return Result{Success: false, Path: canonical}
		}
		return Result{Success: true, Path: canonical}
	}

	if err := moveToTrash(canonical); err != nil {
		if looksLikeICloudEviction(err) {
			if err := os.RemoveAll(canonical); err != nil {
				return Result{Success: false, Path: canonical}
			}
			return Result{Success: true, Path: canonical}
		}
		return Result{Success: false, Path: canonical}
	}
	return Result{Success: true, Path: canonical}
}

// moveToTrash relocates path into the user's trash directory, the
// filesystem-level equivalent of Finder's "Move to Trash", done as a single
// rename. When an item of the same name is already in the trash, a numbered
// name ("node_modules 1", ...) is used instead. There is no fallback to
// copying or permanent removal: a failed rename is returned as the error.
func moveToTrash(path string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	trashDir := filepath.Join(home, ".Trash")
	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return err
	}

	dest := filepath.Join(trashDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		dest = uniqueTrashDestination(trashDir, filepath.Base(path))
	}

	return os.Rename(path, dest)
}

func uniqueTrashDestination(trashDir, name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(trashDir, fmt.Sprintf("%s %d%s", base, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// DeleteAll deletes every path in paths, running up to
// config.MaxConcurrentDeletes deletions concurrently. Results are returned
// in the same order as paths, regardless of completion order. An
// individual failure does not stop the others.
func DeleteAll(paths []string, permanent bool) []Result {
	results := make([]Result, len(paths))
	sem := make(chan struct{}, config.MaxConcurrentDeletes)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[index] = DeleteOne(p, permanent)
		}(i, path)
	}

	wg.Wait()
	return results
}
