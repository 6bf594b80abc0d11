package deleter

import (
	"os"
	"path/filepath"
	"testing"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDeleteOneMovesToTrash(t *testing.T) {
	home := withHome(t)
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}

	result := DeleteOne(nm, false)
	if !result.Success {
		t.Fatal("expected successful delete")
	}
	if _, err := os.Stat(nm); !os.IsNotExist(err) {
		t.Error("original directory should no longer exist")
	}
	if _, err := os.Stat(filepath.Join(home, ".Trash", "node_modules")); err != nil {
		t.Error("expected directory to be present in ~/.Trash")
	}
}

func TestDeleteOnePermanentRemoves(t *testing.T) {
	withHome(t)
	root := t.TempDir()
	vendor := filepath.Join(root, "vendor")
	if err := os.MkdirAll(vendor, 0o755); err != nil {
		t.Fatal(err)
	}

	result := DeleteOne(vendor, true)
	if !result.Success {
		t.Fatal("expected successful delete")
	}
	if _, err := os.Stat(vendor); !os.IsNotExist(err) {
		t.Error("directory should be permanently removed")
	}
}

func TestDeleteOneRejectsNonDependencyDirectory(t *testing.T) {
	withHome(t)
	root := t.TempDir()
	other := filepath.Join(root, "my-documents")
	if err := os.MkdirAll(other, 0o755); err != nil {
		t.Fatal(err)
	}

	result := DeleteOne(other, false)
	if result.Success {
		t.Error("expected rejection of a non-dependency directory")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("directory should be untouched")
	}
}

func TestDeleteOneRejectsMissingPath(t *testing.T) {
	withHome(t)
	result := DeleteOne(filepath.Join(t.TempDir(), "node_modules"), false)
	if result.Success {
		t.Error("expected failure for a nonexistent path")
	}
}

func TestDeleteOneRejectsFile(t *testing.T) {
	withHome(t)
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	if err := os.WriteFile(nm, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := DeleteOne(nm, false)
	if result.Success {
		t.Error("expected failure for a non-directory path")
	}
}

func TestDeleteOneTrashNameCollisionIsUnique(t *testing.T) {
	home := withHome(t)
	if err := os.MkdirAll(filepath.Join(home, ".Trash", "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}

	result := DeleteOne(nm, false)
	if !result.Success {
		t.Fatal("expected successful delete despite a name collision in trash")
	}
	if _, err := os.Stat(filepath.Join(home, ".Trash", "node_modules 1")); err != nil {
		t.Error("expected a disambiguated trash destination")
	}
}

func TestDeleteAllBatchContinuesOnError(t *testing.T) {
	withHome(t)
	root := t.TempDir()

	goodDir := filepath.Join(root, "proj", "node_modules")
	if err := os.MkdirAll(goodDir, 0o755); err != nil {
		t.Fatal(err)
	}

	paths := []string{
		goodDir,
		filepath.Join(root, "does-not-exist", "vendor"),
	}

	results := DeleteAll(paths, false)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success {
		t.Error("expected the first (valid) delete to succeed")
	}
	if results[1].Success {
		t.Error("expected the second (missing) delete to fail")
	}
}

func TestDeleteAllPreservesOrder(t *testing.T) {
	withHome(t)
	root := t.TempDir()

	var paths []string
	for i := 0; i < 6; i++ {
		dir := filepath.Join(root, string(rune('a'+i)), "node_modules")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, dir)
	}

	results := DeleteAll(paths, true)
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q (order must match input)", i, r.Path, paths[i])
		}
	}
}
