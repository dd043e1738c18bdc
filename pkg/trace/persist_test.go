package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDirectory_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.PersistTraces = true
	cfg.OutputDirectory = dir
	tr := NewTracer(cfg, nil)

	tr.StartCollection("/project", "session-1")
	tr.TraceViolation(newViolation("r-naming", "main.go", "structure", "warning"))
	tr.TraceViolation(newViolation("r-header", "util.go", "interface", "error"))
	tr.EndCollection()

	loaded, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d traces, want 2 (collection file must be skipped)", len(loaded))
	}
	for _, got := range loaded {
		if got.TraceID == "" || got.RuleID == "" {
			t.Errorf("incomplete trace loaded: %+v", got)
		}
	}
}

func TestLoadDirectory_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d traces from junk files", len(loaded))
	}
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteTraces_Slice(t *testing.T) {
	traces := []*ViolationTrace{
		{TraceID: "trace:b", RuleID: "r2", FilePath: "b.go", ViolationSeverity: "warning"},
		{TraceID: "trace:a", RuleID: "r1", FilePath: "a.go", ViolationSeverity: "error"},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteTraces(path, "csv", traces); err != nil {
		t.Fatalf("WriteTraces() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "trace:a") || !strings.Contains(lines[2], "trace:b") {
		t.Errorf("rows not ordered by trace id: %v", lines[1:])
	}
}
