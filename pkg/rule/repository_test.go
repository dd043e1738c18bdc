package rule

import (
	"os"
	"path/filepath"
	"testing"
)

// newRulesDir builds a rules tree with enabled/ and disabled/ fixtures.
func newRulesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for _, sub := range []string{"enabled", "disabled"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", sub, err)
		}
	}

	writeRule(t, filepath.Join(dir, "enabled"), "structure.yaml", `
id: r-structure
name: Structure Rule
category: structure
severity: warning
`)
	writeRule(t, filepath.Join(dir, "enabled"), "security.a", `# id: r-security
# name: Security Rule
# category: security
# severity: critical
# @phases: ["compliance"]
no_secrets($file_content)
`)
	writeRule(t, filepath.Join(dir, "disabled"), "legacy.yaml", `
id: r-legacy
name: Legacy Rule
category: structure
severity: info
`)

	return dir
}

func TestRepository_ScanPartitions(t *testing.T) {
	repo := NewRepository(nil)

	parseErrs, err := repo.Scan(newRulesDir(t))
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(parseErrs) != 0 {
		t.Fatalf("Scan() parse errors = %v", parseErrs)
	}

	available, enabled := repo.Counts()
	if available != 3 {
		t.Errorf("available = %d, want 3", available)
	}
	if enabled != 2 {
		t.Errorf("enabled = %d, want 2", enabled)
	}

	if repo.IsEnabled("r-legacy") {
		t.Error("r-legacy should not be enabled")
	}
	if !repo.IsEnabled("r-security") {
		t.Error("r-security should be enabled")
	}
}

func TestRepository_ScanSkipsMalformed(t *testing.T) {
	dir := newRulesDir(t)
	writeRule(t, filepath.Join(dir, "enabled"), "broken.yaml", `
name: no id here
`)

	repo := NewRepository(nil)
	parseErrs, err := repo.Scan(dir)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(parseErrs) != 1 {
		t.Fatalf("parse errors = %d, want 1", len(parseErrs))
	}

	// The malformed file is dropped, everything else loads.
	available, _ := repo.Counts()
	if available != 3 {
		t.Errorf("available = %d, want 3", available)
	}
}

func TestRepository_EnableDisable(t *testing.T) {
	repo := NewRepository(nil)
	if _, err := repo.Scan(newRulesDir(t)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if err := repo.Enable("r-legacy"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if !repo.IsEnabled("r-legacy") {
		t.Error("r-legacy should be enabled after Enable")
	}

	// Idempotent.
	if err := repo.Enable("r-legacy"); err != nil {
		t.Fatalf("second Enable() error = %v", err)
	}

	if err := repo.Disable("r-legacy"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if repo.IsEnabled("r-legacy") {
		t.Error("r-legacy should be disabled after Disable")
	}
	if err := repo.Disable("r-legacy"); err != nil {
		t.Fatalf("second Disable() error = %v", err)
	}

	if err := repo.Enable("missing"); err != ErrRuleNotFound {
		t.Errorf("Enable(missing) error = %v, want ErrRuleNotFound", err)
	}
}

func TestRepository_ByCategoryAndPhase(t *testing.T) {
	repo := NewRepository(nil)
	if _, err := repo.Scan(newRulesDir(t)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	structure := repo.ByCategory("structure")
	if len(structure) != 2 {
		t.Errorf("ByCategory(structure) = %d rules, want 2", len(structure))
	}

	// Both enabled rules run in the compliance phase: r-security declares
	// it, r-structure defaults to it.
	compliance := repo.ByPhase(PhaseCompliance)
	if len(compliance) != 2 {
		t.Errorf("ByPhase(compliance) = %d rules, want 2", len(compliance))
	}

	sanitization := repo.ByPhase(PhaseSanitization)
	if len(sanitization) != 0 {
		t.Errorf("ByPhase(sanitization) = %d rules, want 0", len(sanitization))
	}
}

func TestRepository_RescanReplacesWholesale(t *testing.T) {
	dir := newRulesDir(t)
	repo := NewRepository(nil)
	if _, err := repo.Scan(dir); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// Remove one enabled rule from disk and rescan.
	if err := os.Remove(filepath.Join(dir, "enabled", "security.a")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.Scan(dir); err != nil {
		t.Fatalf("rescan error = %v", err)
	}

	if _, err := repo.Get("r-security"); err != ErrRuleNotFound {
		t.Errorf("Get(r-security) after rescan = %v, want ErrRuleNotFound", err)
	}
	available, enabled := repo.Counts()
	if available != 2 || enabled != 1 {
		t.Errorf("counts after rescan = (%d, %d), want (2, 1)", available, enabled)
	}
}
