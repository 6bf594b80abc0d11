package scancontroller

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

func allEnabled() map[taxonomy.Category]bool {
	enabled := make(map[taxonomy.Category]bool)
	for _, c := range taxonomy.All() {
		enabled[c] = true
	}
	return enabled
}

func waitForResult(t *testing.T, ch <-chan *Result) *Result {
	t.Helper()
	select {
	case result := <-ch:
		return result
	case <-time.After(10 * time.Second):
		t.Fatal("scan did not complete in time")
		return nil
	}
}

func TestControllerStartProducesResult(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "index.js"), []byte("1234567890"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctrl := New()
	var entries []DirectoryEntry
	ch := ctrl.Start(Request{RootDirectory: root, EnabledCategories: allEnabled()}, nil, func(e DirectoryEntry) {
		entries = append(entries, e)
	})

	result := waitForResult(t, ch)
	if result == nil {
		t.Fatal("expected a non-nil result")
	}
	if len(result.Entries) != 1 {
		t.Fatalf("Entries = %v, want 1", result.Entries)
	}
	if result.Entries[0].SizeBytes != 10 {
		t.Errorf("SizeBytes = %d, want 10", result.Entries[0].SizeBytes)
	}
	if len(entries) != 1 {
		t.Errorf("onEntry callback fired %d times, want 1", len(entries))
	}
}

func TestControllerCancelStopsScan(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		dir := filepath.Join(root, "p", "node_modules")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	ctrl := New()
	ch := ctrl.Start(Request{RootDirectory: root, EnabledCategories: allEnabled()}, nil, nil)
	ctrl.Cancel()

	select {
	case result := <-ch:
		if result != nil {
			t.Log("scan completed before cancellation took effect; not a failure, just a race")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("cancelled scan never produced a (possibly nil) result")
	}
}

func TestControllerSecondStartCancelsFirst(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}

	ctrl := New()
	_ = ctrl.Start(Request{RootDirectory: root, EnabledCategories: allEnabled()}, nil, nil)
	second := ctrl.Start(Request{RootDirectory: root, EnabledCategories: allEnabled()}, nil, nil)

	waitForResult(t, second)
}

func TestRescanExistingDirectory(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "a.js"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	entry, exists := Rescan(nm)
	if !exists {
		t.Fatal("expected directory to exist")
	}
	if entry.Category != taxonomy.NodeModules {
		t.Errorf("Category = %v, want NodeModules", entry.Category)
	}
	if entry.SizeBytes != 5 {
		t.Errorf("SizeBytes = %d, want 5", entry.SizeBytes)
	}
}

func TestRescanMissingDirectory(t *testing.T) {
	_, exists := Rescan(filepath.Join(t.TempDir(), "does-not-exist", "node_modules"))
	if exists {
		t.Error("expected exists=false for a missing directory")
	}
}

func TestRescanUnknownDirectoryName(t *testing.T) {
	root := t.TempDir()
	weird := filepath.Join(root, "not_a_dependency_dir")
	if err := os.MkdirAll(weird, 0o755); err != nil {
		t.Fatal(err)
	}
	_, exists := Rescan(weird)
	if exists {
		t.Error("expected exists=false for a directory with an unrecognized name")
	}
}
