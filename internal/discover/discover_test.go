package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/anhnh2002/Universal-Parser/internal/lang"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []FileInfo) map[string]lang.Language {
	m := make(map[string]lang.Language, len(files))
	for _, f := range files {
		m[f.RelPath] = f.Language
	}
	return m
}

func TestDiscoverFindsSupportedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "x = 1\n")
	writeFile(t, root, "web/app.ts", "const a = 1;\n")
	writeFile(t, root, "pkg/util.go", "package util\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {};\n")
	writeFile(t, root, "cache.pyc", "binary\n")

	files, err := Discover(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(got), got)
	}
	if got["main.py"] != lang.Python {
		t.Errorf("main.py language = %s", got["main.py"])
	}
	if got["web/app.ts"] != lang.TypeScript {
		t.Errorf("web/app.ts language = %s", got["web/app.ts"])
	}
	if got["pkg/util.go"] != lang.Go {
		t.Errorf("pkg/util.go language = %s", got["pkg/util.go"])
	}
}

func TestDiscoverHonorsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".upignore", "generated/\n*.gen.py\n")
	writeFile(t, root, "main.py", "x = 1\n")
	writeFile(t, root, "schema.gen.py", "x = 1\n")
	writeFile(t, root, "generated/out.py", "x = 1\n")

	files, err := Discover(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 {
		t.Fatalf("expected only main.py, got %v", got)
	}
	if _, ok := got["main.py"]; !ok {
		t.Errorf("main.py missing: %v", got)
	}
}

func TestDiscoverIncludeExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.py", "x = 1\n")
	writeFile(t, root, "src/b_test.py", "x = 1\n")
	writeFile(t, root, "scripts/tool.py", "x = 1\n")

	files, err := Discover(context.Background(), root, &Options{
		IncludePatterns: []string{"src/**"},
		ExcludePatterns: []string{"*_test.py"},
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	got := relPaths(files)
	if len(got) != 1 {
		t.Fatalf("expected only src/a.py, got %v", got)
	}
	if _, ok := got["src/a.py"]; !ok {
		t.Errorf("src/a.py missing: %v", got)
	}
}

func TestDiscoverContextCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "x = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Discover(ctx, root, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}
