package validator

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func contains(paths []string, suffix string) bool {
	for _, p := range paths {
		if filepath.ToSlash(p) == suffix || filepath.Base(p) == suffix {
			return true
		}
		if len(p) >= len(suffix) && filepath.ToSlash(p[len(p)-len(suffix):]) == suffix {
			return true
		}
	}
	return false
}

func TestDiscover_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "main.go", "package main")

	files, err := NewDiscoveryEngine(nil).Discover(path)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("Discover() = %v, want [%s]", files, path)
	}
}

func TestDiscover_MissingTarget(t *testing.T) {
	_, err := NewDiscoveryEngine(nil).Discover(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing target")
	}
	if _, ok := err.(*DiscoveryError); !ok {
		t.Errorf("error type = %T, want *DiscoveryError", err)
	}
}

func TestDiscover_GitignoreDirectoryPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\n")
	writeFile(t, root, "src/main.go", "package main")
	writeFile(t, root, "build/out.txt", "artifact")

	files, err := NewDiscoveryEngine(nil).Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if !contains(files, "src/main.go") {
		t.Error("src/main.go should be discovered")
	}
	if contains(files, "build/out.txt") {
		t.Error("build/out.txt should be excluded by the build/ pattern")
	}
	// The ignore file itself is still part of the result set.
	if !contains(files, ".gitignore") {
		t.Error(".gitignore should be included as a dotfile")
	}
}

func TestDiscover_GitignoreSuffixAndExactPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# generated\n*.log\nsecret.txt\n\n")
	writeFile(t, root, "app.log", "log")
	writeFile(t, root, "secret.txt", "s")
	writeFile(t, root, "notes.txt", "n")
	writeFile(t, root, "nested/secret.txt", "s")

	files, err := NewDiscoveryEngine(nil).Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if contains(files, "app.log") {
		t.Error("app.log should be excluded by *.log")
	}
	if contains(files, "secret.txt") && !contains(files, "nested/secret.txt") {
		t.Error("top-level secret.txt should be excluded")
	}
	if !contains(files, "notes.txt") {
		t.Error("notes.txt should survive")
	}
	// Exact match applies to the relative path, so the nested copy stays.
	if !contains(files, "nested/secret.txt") {
		t.Error("nested/secret.txt should survive an exact top-level pattern")
	}
}

func TestDiscover_BinaryDenylist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logo.png", "\x89PNG")
	writeFile(t, root, "archive.ZIP", "PK")
	writeFile(t, root, "readme.md", "# hi")

	files, err := NewDiscoveryEngine(nil).Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if contains(files, "logo.png") || contains(files, "archive.ZIP") {
		t.Errorf("binary files should be excluded, got %v", files)
	}
	if !contains(files, "readme.md") {
		t.Error("readme.md should be discovered")
	}
}

func TestDiscover_NestedDotfilesSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env", "A=1")
	writeFile(t, root, "sub/.hidden", "x")
	writeFile(t, root, "sub/visible.go", "package sub")
	writeFile(t, root, ".git/config", "noise")

	files, err := NewDiscoveryEngine(nil).Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	// Dotfile listing is non-recursive; nested dotfiles and dot
	// directories never appear.
	if !contains(files, ".env") {
		t.Error(".env should be discovered")
	}
	if contains(files, ".hidden") || contains(files, ".git/config") {
		t.Errorf("nested dot entries should be skipped, got %v", files)
	}
	if !contains(files, "sub/visible.go") {
		t.Error("sub/visible.go should be discovered")
	}
}

func TestMatchesIgnorePattern(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		pattern string
		want    bool
	}{
		{"dir prefix hit", "build/a/b.txt", "build/", true},
		{"dir prefix miss", "src/build.txt", "build/", false},
		{"suffix hit", "deep/app.log", "*.log", true},
		{"suffix miss", "app.logx", "*.log", false},
		{"exact hit", "secret.txt", "secret.txt", true},
		{"exact miss on nested path", "nested/secret.txt", "secret.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesIgnorePattern(tt.rel, tt.pattern); got != tt.want {
				t.Errorf("matchesIgnorePattern(%q, %q) = %v, want %v", tt.rel, tt.pattern, got, tt.want)
			}
		})
	}
}
