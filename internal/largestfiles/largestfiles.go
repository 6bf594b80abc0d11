// Package largestfiles finds the N largest regular files under a
// directory using a streaming top-N insertion so the full file list never
// needs to be held in memory at once.
package largestfiles

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/alexwhin/deptox-core/internal/config"
)

// Errors returned by Find.
var (
	ErrDoesNotExist  = errors.New("directory does not exist")
	ErrNotADirectory = errors.New("path is not a directory")
)

// File is one file found in the scan, with its absolute path and size.
type File struct {
	Path      string
	SizeBytes int64
}

// Result is the outcome of a Find call.
type Result struct {
	Files         []File
	DirectoryPath string
}

// Find walks root (not following symlinks) and returns the
// config.MaxLargestFiles largest regular files found, largest first.
func Find(root string) (Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Result{}, ErrDoesNotExist
	}
	if !info.IsDir() {
		return Result{}, ErrNotADirectory
	}

	var top []File

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil || !fi.Mode().IsRegular() {
			return nil
		}

		size := fi.Size()
		if len(top) < config.MaxLargestFiles {
			top = append(top, File{Path: path, SizeBytes: size})
			sort.Slice(top, func(i, j int) bool { return top[i].SizeBytes > top[j].SizeBytes })
			return nil
		}

		if size > top[len(top)-1].SizeBytes {
			top[len(top)-1] = File{Path: path, SizeBytes: size}
			sort.Slice(top, func(i, j int) bool { return top[i].SizeBytes > top[j].SizeBytes })
		}
		return nil
	})

	return Result{Files: top, DirectoryPath: root}, nil
}
