//go:build !darwin

package reveal

import "errors"

// ErrUnsupportedPlatform is returned by Open on platforms with no file
// manager integration.
var ErrUnsupportedPlatform = errors.New("reveal is only supported on macOS")

// Open is unsupported outside macOS.
func Open(path string) error {
	return ErrUnsupportedPlatform
}
