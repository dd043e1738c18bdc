// Package config provides configuration management for the Akao engine.
//
// Settings live at <project>/.akao/settings.yaml and are loaded with
// sensible defaults, validation, and optional environment variable
// overrides.
//
// # Loading
//
//	s, err := config.Load(".akao/settings.yaml")
//	s, err := config.LoadWithEnvOverrides(".akao/settings.yaml")
//	s, err := config.LoadProject(projectRoot) // missing file -> defaults
//
// # Environment Variable Overrides
//
// Variables follow the naming convention AKAO_SECTION_FIELD:
//
//   - AKAO_RULES_DIRECTORY overrides rules_directory
//   - AKAO_ENABLE_PARALLEL_EXECUTION overrides enable_parallel_execution
//   - AKAO_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file values.
package config
