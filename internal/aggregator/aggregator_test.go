package aggregator

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

func TestCalculateTotalDependencySize(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "a.js"), []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}
	venv := filepath.Join(root, "other", ".venv")
	if err := os.MkdirAll(venv, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(venv, "b.py"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	total := CalculateTotalDependencySize(root, allEnabled())
	if total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
}

func TestCalculateTotalDependencySizeRespectsDisabledCategories(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "a.js"), []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	onlyPython := map[taxonomy.Category]bool{taxonomy.PythonVenv: true}
	total := CalculateTotalDependencySize(root, onlyPython)
	if total != 0 {
		t.Errorf("total = %d, want 0 with node_modules category disabled", total)
	}
}

func TestSchedulerTicksAndStops(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "a.js"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan Result, 4)
	scheduler := startWithInterval(20*time.Millisecond, func() (string, map[taxonomy.Category]bool, int64) {
		return root, allEnabled(), 1
	}, func(result Result) {
		select {
		case results <- result:
		default:
		}
	})

	select {
	case result := <-results:
		if result.TotalSize != 5 {
			t.Errorf("total = %d, want 5", result.TotalSize)
		}
		if result.ThresholdBytes != 1 {
			t.Errorf("threshold = %d, want 1", result.ThresholdBytes)
		}
		if !result.ExceedsThreshold {
			t.Error("expected ExceedsThreshold to be true for total 5 > threshold 1")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler never ticked")
	}

	scheduler.Stop()
}

func TestSchedulerReportsWithinThreshold(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "project", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "a.js"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan Result, 4)
	scheduler := startWithInterval(20*time.Millisecond, func() (string, map[taxonomy.Category]bool, int64) {
		return root, allEnabled(), 1_000_000
	}, func(result Result) {
		select {
		case results <- result:
		default:
		}
	})

	select {
	case result := <-results:
		if result.ExceedsThreshold {
			t.Error("expected ExceedsThreshold to be false for total 5 <= threshold 1,000,000")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler never ticked")
	}

	scheduler.Stop()
}
