package config

import (
	"fmt"
	"strings"
)

// ValidationError collects all settings validation failures.
type ValidationError struct {
	Errors []string
}

// Error returns the combined error message.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("settings validation error: %s", e.Errors[0])
	}
	return fmt.Sprintf("%d settings validation errors: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

// Validate checks the settings for invalid values. It accumulates all
// problems instead of stopping at the first.
func Validate(s *Settings) error {
	var errs []string

	if s.RulesDirectory == "" {
		errs = append(errs, "rules_directory must not be empty")
	}
	if s.Pipeline.BatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("pipeline.batch_size must be positive, got %d", s.Pipeline.BatchSize))
	}
	if s.Pipeline.MaxWorkers <= 0 {
		errs = append(errs, fmt.Sprintf("pipeline.max_workers must be positive, got %d", s.Pipeline.MaxWorkers))
	}
	if s.Loader.CacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("loader.cache_ttl must be positive, got %v", s.Loader.CacheTTL))
	}
	if s.Tracing.MaxStackDepth <= 0 {
		errs = append(errs, fmt.Sprintf("tracing.max_stack_depth must be positive, got %d", s.Tracing.MaxStackDepth))
	}

	switch s.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.level must be one of debug/info/warn/error, got %q", s.Telemetry.Logging.Level))
	}

	switch s.Telemetry.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.format must be one of json/text/console, got %q", s.Telemetry.Logging.Format))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
