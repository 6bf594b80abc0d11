//go:build darwin

// Package reveal opens a path in the platform file manager.
package reveal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrOutsideHome is returned when path resolves to somewhere outside the
// user's home directory.
var ErrOutsideHome = errors.New("path must be within home directory")

// Open reveals path in Finder. path must exist and resolve to somewhere
// inside the user's home directory.
func Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if err := validatePathWithinHome(path); err != nil {
		return err
	}
	if err := exec.Command("open", path).Start(); err != nil {
		return fmt.Errorf("failed to open Finder: %w", err)
	}
	return nil
}

// validatePathWithinHome canonicalizes both path and the home directory
// (resolving symlinks and "."/".." components) and confirms the former
// lies inside the latter, mirroring the original implementation's
// validate_path_within_home.
func validatePathWithinHome(path string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("could not determine home directory: %w", err)
	}

	canonicalPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	canonicalHome, err := filepath.EvalSymlinks(home)
	if err != nil {
		return fmt.Errorf("could not verify home directory: %w", err)
	}

	if canonicalPath != canonicalHome &&
		!strings.HasPrefix(canonicalPath, canonicalHome+string(filepath.Separator)) {
		return ErrOutsideHome
	}
	return nil
}
