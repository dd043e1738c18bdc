package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"akao-hq/akao/pkg/validator"
)

func newViolation(ruleID, file, category, severity string) *validator.Violation {
	return &validator.Violation{
		ID:           "v-" + ruleID,
		RuleID:       ruleID,
		RuleCategory: category,
		FilePath:     file,
		Line:         12,
		Severity:     severity,
		Message:      "check failed",
		DetectedAt:   time.Now(),
	}
}

func TestTraceViolation_DisabledIsNoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	tr := NewTracer(cfg, nil)

	if id := tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning")); id != "" {
		t.Errorf("TraceViolation() = %q, want empty id when disabled", id)
	}
	if tr.Stats().TotalTraces != 0 {
		t.Error("disabled tracer must not store traces")
	}
}

func TestCollection_CriticalCount(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	tr.StartCollection("/project", "s1")
	id := tr.TraceViolation(newViolation("r1", "a.go", "structure", "critical"))
	c := tr.EndCollection()

	if id == "" {
		t.Fatal("TraceViolation() returned empty id")
	}
	if c == nil {
		t.Fatal("EndCollection() = nil")
	}
	if c.TotalViolations != 1 || c.CriticalViolations != 1 {
		t.Errorf("collection = total %d critical %d, want 1/1", c.TotalViolations, c.CriticalViolations)
	}
	if c.WarningViolations != 0 || c.InfoViolations != 0 {
		t.Errorf("unexpected non-critical counts: %+v", c)
	}
	if c.SessionID != "s1" {
		t.Errorf("SessionID = %q", c.SessionID)
	}
}

func TestCollection_SeverityBuckets(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)
	tr.StartCollection("/project", "")

	tr.TraceViolation(newViolation("r1", "a.go", "structure", "error"))
	tr.TraceViolation(newViolation("r2", "b.go", "structure", "warning"))
	tr.TraceViolation(newViolation("r3", "c.go", "structure", "info"))

	c := tr.EndCollection()
	if c.CriticalViolations != 1 || c.WarningViolations != 1 || c.InfoViolations != 1 {
		t.Errorf("buckets = %d/%d/%d, want 1/1/1",
			c.CriticalViolations, c.WarningViolations, c.InfoViolations)
	}
	if c.ByRule["r1"] != 1 || c.ByFile["b.go"] != 1 {
		t.Errorf("categorization maps wrong: %+v", c)
	}
	if c.SessionID == "" {
		t.Error("empty session id should be generated")
	}
}

func TestCollection_ReusedSessionAccumulates(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	tr.StartCollection("/project", "s1")
	tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning"))
	tr.EndCollection()

	tr.StartCollection("/project", "s1")
	tr.TraceViolation(newViolation("r2", "b.go", "structure", "warning"))
	tr.EndCollection()

	stats := tr.Stats()
	if stats.TotalCollections != 2 {
		t.Errorf("TotalCollections = %d, want 2", stats.TotalCollections)
	}
	if stats.TracesBySession["s1"] != 2 {
		t.Errorf("TracesBySession[s1] = %d, want 2 across both collections", stats.TracesBySession["s1"])
	}
}

func TestTraceID_Shape(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	id := tr.TraceViolation(newViolation("r-naming", "/src/deep/main.go", "structure", "warning"))
	if !strings.HasPrefix(id, "trace:r-naming:main.go:12:") {
		t.Errorf("trace id = %q, want trace:<rule>:<base>:<line>:<suffix>", id)
	}

	stored, ok := tr.Trace(id)
	if !ok {
		t.Fatal("trace not stored")
	}
	if stored.ViolationCategory != "structural" {
		t.Errorf("category = %q, want structural", stored.ViolationCategory)
	}
	if stored.RootCause != rootCauses["structural"] {
		t.Errorf("RootCause = %q", stored.RootCause)
	}
}

func TestRootCause_UnknownCategory(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	id := tr.TraceViolation(newViolation("r1", "a.go", "documentation", "info"))
	stored, _ := tr.Trace(id)
	if stored.ViolationCategory != "general" {
		t.Errorf("category = %q, want general", stored.ViolationCategory)
	}
	if stored.RootCause != unknownRootCause {
		t.Errorf("RootCause = %q", stored.RootCause)
	}
}

func TestFindRelatedViolations_SameFileMutual(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	// Different rules and categories, same file.
	id1 := tr.TraceViolation(newViolation("r1", "shared.go", "interface", "warning"))
	id2 := tr.TraceViolation(newViolation("r2", "shared.go", "language", "warning"))
	id3 := tr.TraceViolation(newViolation("r3", "other.go", "testing", "warning"))

	rel1 := tr.FindRelatedViolations(id1)
	rel2 := tr.FindRelatedViolations(id2)

	if len(rel1) != 1 || rel1[0] != id2 {
		t.Errorf("related(id1) = %v, want [%s]", rel1, id2)
	}
	if len(rel2) != 1 || rel2[0] != id1 {
		t.Errorf("related(id2) = %v, want [%s]", rel2, id1)
	}

	// id3 shares nothing: different file, rule, philosophy, root cause.
	if rel3 := tr.FindRelatedViolations(id3); len(rel3) != 0 {
		t.Errorf("related(id3) = %v, want none", rel3)
	}
}

func TestFindRelatedViolations_SameRule(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	id1 := tr.TraceViolation(newViolation("r-shared", "a.go", "interface", "warning"))
	v := newViolation("r-shared", "b.go", "language", "warning")
	id2 := tr.TraceViolation(v)

	rel := tr.FindRelatedViolations(id1)
	if len(rel) != 1 || rel[0] != id2 {
		t.Errorf("related = %v, want [%s]", rel, id2)
	}
}

func TestQueriesByRulePhilosophyFile(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	v := newViolation("r1", "a.go", "structure", "warning")
	v.PhilosophyID = "akao:philosophy::structure:enforcement:v1"
	tr.TraceViolation(v)
	tr.TraceViolation(newViolation("r2", "a.go", "testing", "info"))

	if got := tr.TracesByRule("r1"); len(got) != 1 {
		t.Errorf("TracesByRule(r1) = %d, want 1", len(got))
	}
	if got := tr.TracesByFile("a.go"); len(got) != 2 {
		t.Errorf("TracesByFile(a.go) = %d, want 2", len(got))
	}
	if got := tr.TracesByPhilosophy("akao:philosophy::structure:enforcement:v1"); len(got) != 1 {
		t.Errorf("TracesByPhilosophy = %d, want 1", len(got))
	}
}

func TestSummary(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)

	tr.TraceViolation(newViolation("r1", "a.go", "structure", "critical"))
	tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning"))
	tr.TraceViolation(newViolation("r2", "b.go", "testing", "info"))

	s := tr.Summary()
	if s.TotalTraces != 3 {
		t.Errorf("TotalTraces = %d, want 3", s.TotalTraces)
	}
	if s.ByRule["r1"] != 2 || s.BySeverity["critical"] != 1 {
		t.Errorf("summary maps = %+v", s)
	}
	if len(s.CriticalIssues) != 1 {
		t.Errorf("CriticalIssues = %v, want one entry", s.CriticalIssues)
	}
	if s.AverageViolationsPerFile != 1.5 {
		t.Errorf("AverageViolationsPerFile = %v, want 1.5", s.AverageViolationsPerFile)
	}
	if len(s.MostCommonViolations) == 0 || s.MostCommonViolations[0] != "r1:structural" {
		t.Errorf("MostCommonViolations = %v", s.MostCommonViolations)
	}
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.PersistTraces = true
	cfg.OutputDirectory = dir
	tr := NewTracer(cfg, nil)

	tr.StartCollection("/project", "s1")
	id := tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning"))
	c := tr.EndCollection()

	tracePath := filepath.Join(dir, sanitizeForPath(id)+".yaml")
	if _, err := os.Stat(tracePath); err != nil {
		t.Errorf("trace file not written: %v", err)
	}

	collectionPath := filepath.Join(dir, sanitizeForPath(c.CollectionID)+"_collection.yaml")
	data, err := os.ReadFile(collectionPath)
	if err != nil {
		t.Fatalf("collection file not written: %v", err)
	}
	if !strings.Contains(string(data), "total_violations: 1") {
		t.Errorf("collection content missing counters:\n%s", data)
	}
}

func TestExportTraces(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)
	tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning"))
	tr.TraceViolation(newViolation("r2", "b.go", "testing", "error"))

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "traces.yaml")
		if err := tr.ExportTraces(path, "yaml"); err != nil {
			t.Fatalf("ExportTraces(yaml) error = %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "traces:") || !strings.Contains(string(data), "rule_id: r1") {
			t.Errorf("yaml export content:\n%s", data)
		}
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "traces.csv")
		if err := tr.ExportTraces(path, "csv"); err != nil {
			t.Fatalf("ExportTraces(csv) error = %v", err)
		}
		data, _ := os.ReadFile(path)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Errorf("csv lines = %d, want header + 2 records", len(lines))
		}
		if !strings.HasPrefix(lines[0], "trace_id,violation_id,rule_id") {
			t.Errorf("csv header = %q", lines[0])
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := tr.ExportTraces(filepath.Join(t.TempDir(), "x"), "xml"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestClearTraces(t *testing.T) {
	tr := NewTracer(DefaultConfig(), nil)
	tr.TraceViolation(newViolation("r1", "a.go", "structure", "warning"))

	tr.ClearTraces()
	if s := tr.Summary(); s.TotalTraces != 0 {
		t.Errorf("TotalTraces after clear = %d, want 0", s.TotalTraces)
	}
}
