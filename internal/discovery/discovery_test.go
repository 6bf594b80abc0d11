package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func allNamesConfig(root string, excludes []string) Config {
	enabled := map[taxonomy.Category]bool{}
	for _, c := range taxonomy.All() {
		enabled[c] = true
	}
	return categoryConfig(root, enabled, excludes)
}

func categoryConfig(root string, enabled map[taxonomy.Category]bool, excludes []string) Config {
	return Config{
		RootDirectory:      root,
		TargetNames:        taxonomy.TargetDirectoryNames(enabled),
		EnabledCategories:  enabled,
		AllDependencyNames: taxonomy.AllDependencyDirectoryNames(),
		ExcludePatterns:    excludes,
	}
}

func TestRunFindsNodeModules(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "project-a", "node_modules"))
	mustMkdir(t, filepath.Join(root, "project-b", "src"))

	result := Run(context.Background(), allNamesConfig(root, nil), nil)
	if result == nil {
		t.Fatal("expected a result")
	}
	if len(result.Discovered) != 1 {
		t.Fatalf("Discovered = %v, want 1 entry", result.Discovered)
	}
	if result.Discovered[0].Category != taxonomy.NodeModules {
		t.Errorf("Category = %v, want NodeModules", result.Discovered[0].Category)
	}
}

func TestRunDoesNotDescendIntoMatchedDirectory(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "project", "node_modules", ".pnpm", "lodash", "node_modules"))

	result := Run(context.Background(), allNamesConfig(root, nil), nil)
	if len(result.Discovered) != 1 {
		t.Fatalf("expected only the outer node_modules, got %v", result.Discovered)
	}
}

func TestRunSkipsFixedSkipSet(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, ".git", "node_modules"))
	mustMkdir(t, filepath.Join(root, "app", "node_modules"))

	result := Run(context.Background(), allNamesConfig(root, nil), nil)
	if len(result.Discovered) != 1 {
		t.Fatalf("expected the .git-nested one to be skipped, got %v", result.Discovered)
	}
	if result.Discovered[0].Path != filepath.Join(root, "app", "node_modules") {
		t.Errorf("got %q", result.Discovered[0].Path)
	}
}

func TestRunExcludePatterns(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "skip-me", "node_modules"))
	mustMkdir(t, filepath.Join(root, "keep-me", "node_modules"))

	result := Run(context.Background(), allNamesConfig(root, []string{"*skip-me*"}), nil)
	if len(result.Discovered) != 1 {
		t.Fatalf("expected one survivor after exclude pattern, got %v", result.Discovered)
	}
	if result.Discovered[0].Path != filepath.Join(root, "keep-me", "node_modules") {
		t.Errorf("got %q", result.Discovered[0].Path)
	}
}

func TestRunAmbiguousVendorDefaultsToComposer(t *testing.T) {
	root := t.TempDir()
	vendor := filepath.Join(root, "project", "vendor")
	mustMkdir(t, vendor)

	result := Run(context.Background(), allNamesConfig(root, nil), nil)
	if len(result.Discovered) != 1 {
		t.Fatalf("expected one vendor match, got %v", result.Discovered)
	}
	if result.Discovered[0].Category != taxonomy.Composer {
		t.Errorf("Category = %v, want Composer default", result.Discovered[0].Category)
	}
}

func TestRunHonorsPartialEnabledCategories(t *testing.T) {
	root := t.TempDir()
	vendor := filepath.Join(root, "project", "vendor")
	mustMkdir(t, vendor)
	if err := os.WriteFile(filepath.Join(root, "project", "Gemfile"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	enabled := map[taxonomy.Category]bool{taxonomy.Composer: true}
	cfg := categoryConfig(root, enabled, nil)

	result := Run(context.Background(), cfg, nil)
	if len(result.Discovered) != 0 {
		t.Fatalf("vendor/ disambiguates to Bundler here, which is not enabled; expected no matches, got %v", result.Discovered)
	}
}

func TestRunCancellationReturnsNil(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "project", "node_modules"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Run(ctx, allNamesConfig(root, nil), nil)
	if result != nil {
		t.Errorf("expected nil result on a pre-cancelled context, got %v", result)
	}
}
