package config

import "time"

// Default values for configuration fields.
const (
	DefaultVersion                 = "1.0"
	DefaultRulesDirectory          = ".akao/rules"
	DefaultEnableLazyLoading       = true
	DefaultEnableParallelExecution = false

	// Pipeline defaults
	DefaultBatchSize  = 10
	DefaultMaxWorkers = 4
	DefaultExportLogs = true

	// Loader defaults
	DefaultComponentRoot = ".akao"
	DefaultCacheTTL      = 30 * time.Minute

	// Tracing defaults
	DefaultTracingEnabled          = true
	DefaultTraceOutputDirectory    = ".akao_traces"
	DefaultPersistTraces           = true
	DefaultCaptureStackTrace       = true
	DefaultCaptureContextVariables = true
	DefaultMaxStackDepth           = 50
	DefaultMaxContextVariables     = 100

	// History defaults
	DefaultHistoryPath         = ".akao/history.db"
	DefaultHistoryMaxOpenConns = 10
	DefaultHistoryBusyTimeout  = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "akao"
)

// DefaultSettings returns a Settings populated with all default values.
func DefaultSettings() *Settings {
	s := &Settings{}
	ApplyDefaults(s)
	// Zero-value booleans cannot be distinguished from "unset", so the
	// true-by-default flags are set explicitly here.
	s.EnableLazyLoading = DefaultEnableLazyLoading
	s.Pipeline.ExportLogs = DefaultExportLogs
	s.Tracing.Enabled = DefaultTracingEnabled
	s.Tracing.PersistTraces = DefaultPersistTraces
	s.Tracing.CaptureStackTrace = DefaultCaptureStackTrace
	s.Tracing.CaptureContextVariables = DefaultCaptureContextVariables
	s.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	return s
}

// ApplyDefaults fills in zero-valued fields with defaults. Boolean fields
// are left alone: YAML false and "unset" are indistinguishable, so flags
// that default to true are only forced by DefaultSettings, never here.
func ApplyDefaults(s *Settings) {
	if s.Version == "" {
		s.Version = DefaultVersion
	}
	if s.RulesDirectory == "" {
		s.RulesDirectory = DefaultRulesDirectory
	}

	if s.Pipeline.BatchSize <= 0 {
		s.Pipeline.BatchSize = DefaultBatchSize
	}
	if s.Pipeline.MaxWorkers <= 0 {
		s.Pipeline.MaxWorkers = DefaultMaxWorkers
	}

	if s.Loader.ComponentRoot == "" {
		s.Loader.ComponentRoot = DefaultComponentRoot
	}
	if s.Loader.CacheTTL <= 0 {
		s.Loader.CacheTTL = DefaultCacheTTL
	}

	if s.Tracing.OutputDirectory == "" {
		s.Tracing.OutputDirectory = DefaultTraceOutputDirectory
	}
	if s.Tracing.MaxStackDepth <= 0 {
		s.Tracing.MaxStackDepth = DefaultMaxStackDepth
	}
	if s.Tracing.MaxContextVariables <= 0 {
		s.Tracing.MaxContextVariables = DefaultMaxContextVariables
	}

	if s.History.Path == "" {
		s.History.Path = DefaultHistoryPath
	}
	if s.History.MaxOpenConns <= 0 {
		s.History.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if s.History.BusyTimeout <= 0 {
		s.History.BusyTimeout = DefaultHistoryBusyTimeout
	}

	if s.Telemetry.Logging.Level == "" {
		s.Telemetry.Logging.Level = DefaultLogLevel
	}
	if s.Telemetry.Logging.Format == "" {
		s.Telemetry.Logging.Format = DefaultLogFormat
	}
	if s.Telemetry.Metrics.Namespace == "" {
		s.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
