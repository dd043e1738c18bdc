package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the settings file location relative to a project root.
const SettingsFileName = ".akao/settings.yaml"

// Load reads settings from a YAML file at the specified path, applies
// defaults and validates the result.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	// Start from defaults so that unset true-by-default flags survive
	// decoding (yaml.v3 leaves absent fields untouched).
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %q: %w", path, err)
	}

	ApplyDefaults(s)

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return s, nil
}

// LoadWithEnvOverrides loads settings from a YAML file and applies
// environment variable overrides. Variables follow the AKAO_SECTION_FIELD
// naming convention and always take precedence over file values.
func LoadWithEnvOverrides(path string) (*Settings, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(s)

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("settings validation failed after environment overrides: %w", err)
	}

	return s, nil
}

// LoadProject loads settings from <projectRoot>/.akao/settings.yaml,
// falling back to defaults when the file does not exist.
func LoadProject(projectRoot string) (*Settings, error) {
	path := projectRoot + "/" + SettingsFileName
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	return LoadWithEnvOverrides(path)
}

// applyEnvOverrides applies AKAO_* environment variable overrides.
func applyEnvOverrides(s *Settings) {
	if val := os.Getenv("AKAO_RULES_DIRECTORY"); val != "" {
		s.RulesDirectory = val
	}
	if val := os.Getenv("AKAO_ENABLE_LAZY_LOADING"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			s.EnableLazyLoading = b
		}
	}
	if val := os.Getenv("AKAO_ENABLE_PARALLEL_EXECUTION"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			s.EnableParallelExecution = b
		}
	}

	if val := os.Getenv("AKAO_PIPELINE_BATCH_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			s.Pipeline.BatchSize = n
		}
	}
	if val := os.Getenv("AKAO_PIPELINE_MAX_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			s.Pipeline.MaxWorkers = n
		}
	}

	if val := os.Getenv("AKAO_LOADER_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			s.Loader.CacheTTL = d
		}
	}
	if val := os.Getenv("AKAO_LOADER_SWEEP_SCHEDULE"); val != "" {
		s.Loader.SweepSchedule = val
	}

	if val := os.Getenv("AKAO_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			s.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("AKAO_TRACING_OUTPUT_DIRECTORY"); val != "" {
		s.Tracing.OutputDirectory = val
	}

	if val := os.Getenv("AKAO_HISTORY_PATH"); val != "" {
		s.History.Path = val
	}

	if val := os.Getenv("AKAO_LOGGING_LEVEL"); val != "" {
		s.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("AKAO_LOGGING_FORMAT"); val != "" {
		s.Telemetry.Logging.Format = val
	}
}
