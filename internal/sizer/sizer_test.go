package sizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMeasureSimple(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello") // 5 bytes
	writeFile(t, filepath.Join(root, "b.txt"), "xyz")   // 3 bytes

	result := Measure(root)
	if result.TotalSize != 8 {
		t.Errorf("TotalSize = %d, want 8", result.TotalSize)
	}
	if result.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", result.FileCount)
	}
	if result.HasOnlySymlinks {
		t.Error("HasOnlySymlinks should be false")
	}
}

func TestMeasurePnpmHoistedStore(t *testing.T) {
	root := t.TempDir()
	storeDir := filepath.Join(root, ".pnpm", "lodash@4.17.21", "node_modules", "lodash")
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(storeDir, "index.js"), make([]byte, 20), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(storeDir, "package.json"), make([]byte, 17), 0o644); err != nil {
		t.Fatal(err)
	}

	hoistedSymlink := filepath.Join(root, "lodash")
	if err := os.Symlink(storeDir, hoistedSymlink); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result := Measure(root)
	if result.TotalSize != 74 {
		t.Errorf("TotalSize = %d, want 74 (files counted once via store, once via hoisted symlink)", result.TotalSize)
	}
	if result.FileCount != 4 {
		t.Errorf("FileCount = %d, want 4", result.FileCount)
	}
}

func TestMeasureOnlyBrokenSymlinks(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "does-not-exist"), filepath.Join(root, "broken")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	result := Measure(root)
	if !result.HasOnlySymlinks {
		t.Error("HasOnlySymlinks should be true for a directory containing only broken symlinks")
	}
	if result.TotalSize != 0 || result.FileCount != 0 {
		t.Errorf("expected zero size/count for broken-symlinks-only dir, got %+v", result)
	}
}

func TestMeasureOnlyEmptyFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.txt"), "")

	result := Measure(root)
	if result.TotalSize != 0 {
		t.Errorf("TotalSize = %d, want 0", result.TotalSize)
	}
	if result.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", result.FileCount)
	}
	if result.HasOnlySymlinks {
		t.Error("HasOnlySymlinks should be false: real (empty) file present")
	}
}

func TestMeasureCircularSymlinkTerminates(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	loop := filepath.Join(sub, "loop")
	if err := os.Symlink(root, loop); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	done := make(chan Result, 1)
	go func() { done <- Measure(root) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Measure did not terminate on circular symlink")
	}
}

func TestMeasureSymlinkFlagInvariant(t *testing.T) {
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	result := Measure(root)
	if result.HasOnlySymlinks && (result.FileCount != 0 || result.TotalSize != 0) {
		t.Error("HasOnlySymlinks implies zero file count and size")
	}
}

func TestMeasureEmptyRootFallsBackToRootMtime(t *testing.T) {
	root := t.TempDir()
	result := Measure(root)
	if result.LastModifiedMs == 0 {
		t.Error("expected fallback to root directory's own mtime")
	}
}
