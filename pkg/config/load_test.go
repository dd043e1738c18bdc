package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	content := `
version: "1.0"
rules_directory: ".akao/rules"
enable_lazy_loading: true
enable_parallel_execution: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Pipeline.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", s.Pipeline.BatchSize, DefaultBatchSize)
	}
	if s.Loader.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", s.Loader.CacheTTL, DefaultCacheTTL)
	}
	if !s.Tracing.Enabled {
		t.Error("Tracing.Enabled = false, want true by default")
	}
	if s.Telemetry.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", s.Telemetry.Logging.Level, "info")
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	content := `
rules_directory: "custom/rules"
enable_parallel_execution: true
pipeline:
  batch_size: 25
  max_workers: 8
loader:
  cache_ttl: 10m
tracing:
  enabled: false
telemetry:
  logging:
    level: "debug"
    format: "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.RulesDirectory != "custom/rules" {
		t.Errorf("RulesDirectory = %q, want %q", s.RulesDirectory, "custom/rules")
	}
	if !s.EnableParallelExecution {
		t.Error("EnableParallelExecution = false, want true")
	}
	if s.Pipeline.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", s.Pipeline.BatchSize)
	}
	if s.Loader.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", s.Loader.CacheTTL)
	}
	if s.Tracing.Enabled {
		t.Error("Tracing.Enabled = true, want false")
	}
	if s.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", s.Telemetry.Logging.Format, "json")
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	content := `
telemetry:
  logging:
    level: "verbose"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected validation error for invalid log level")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoadProject_MissingSettingsFallsBack(t *testing.T) {
	s, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}
	if s.RulesDirectory != DefaultRulesDirectory {
		t.Errorf("RulesDirectory = %q, want default %q", s.RulesDirectory, DefaultRulesDirectory)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	content := `
rules_directory: "file/rules"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	t.Setenv("AKAO_RULES_DIRECTORY", "env/rules")
	t.Setenv("AKAO_ENABLE_PARALLEL_EXECUTION", "true")
	t.Setenv("AKAO_LOADER_CACHE_TTL", "5m")

	s, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadWithEnvOverrides() error = %v", err)
	}

	if s.RulesDirectory != "env/rules" {
		t.Errorf("RulesDirectory = %q, want env override %q", s.RulesDirectory, "env/rules")
	}
	if !s.EnableParallelExecution {
		t.Error("EnableParallelExecution = false, want true from env")
	}
	if s.Loader.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m from env", s.Loader.CacheTTL)
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	s := DefaultSettings()
	s.RulesDirectory = ""
	s.Pipeline.BatchSize = -1
	s.Telemetry.Logging.Level = "bogus"

	err := Validate(s)
	if err == nil {
		t.Fatal("Validate() expected error")
	}

	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want 3: %v", len(verr.Errors), verr.Errors)
	}
}
