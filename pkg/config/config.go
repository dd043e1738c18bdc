package config

import "time"

// Settings is the root configuration structure for the Akao engine.
// It mirrors the on-disk layout of <project>/.akao/settings.yaml.
type Settings struct {
	// Version is the settings schema version (e.g., "1.0").
	Version string `yaml:"version"`

	// RulesDirectory is the root of the rule tree. It contains the
	// enabled/ and disabled/ subtrees scanned by the rule repository.
	// Default: ".akao/rules"
	RulesDirectory string `yaml:"rules_directory"`

	// EnableLazyLoading controls whether rule/philosophy/ruleset components
	// are loaded on demand through the lazy loader cache.
	// Default: true
	EnableLazyLoading bool `yaml:"enable_lazy_loading"`

	// EnableParallelExecution gates concurrent rule evaluation across the
	// files of a batch. When false the pipeline evaluates strictly
	// sequentially, which is the reference behavior.
	// Default: false
	EnableParallelExecution bool `yaml:"enable_parallel_execution"`

	// Pipeline contains validation pipeline tuning.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Loader contains lazy loader cache settings.
	Loader LoaderConfig `yaml:"loader"`

	// Tracing contains violation tracer settings.
	Tracing TracingConfig `yaml:"tracing"`

	// History contains validation run history storage settings.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PipelineConfig contains validation pipeline tuning.
type PipelineConfig struct {
	// BatchSize is the number of files processed between progress
	// checkpoints in the compliance phase. This is sequential chunking,
	// not parallelism.
	// Default: 10
	BatchSize int `yaml:"batch_size"`

	// MaxWorkers bounds the goroutines used when parallel execution is
	// enabled. Ignored while EnableParallelExecution is false.
	// Default: 4
	MaxWorkers int `yaml:"max_workers"`

	// ExportLogs controls whether each validation pass writes a plain-text
	// log under <target>/.akao/logs/.
	// Default: true
	ExportLogs bool `yaml:"export_logs"`
}

// LoaderConfig contains lazy loader cache settings.
type LoaderConfig struct {
	// ComponentRoot is the directory that the philosophies/, rules/ and
	// rulesets/ component conventions resolve against.
	// Default: ".akao"
	ComponentRoot string `yaml:"component_root"`

	// CacheTTL is the maximum age a cached component may reach before the
	// next ClearExpiredCache sweep evicts it.
	// Default: 30m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// SweepSchedule is an optional cron expression for scheduled cache
	// maintenance (expired-entry eviction plus a hot-reload scan).
	// Empty disables the scheduler.
	SweepSchedule string `yaml:"sweep_schedule"`

	// WatchFilesystem enables the fsnotify-backed change watcher that
	// drives the same eviction path as a manual ScanForChanges call.
	// Default: false
	WatchFilesystem bool `yaml:"watch_filesystem"`
}

// TracingConfig contains violation tracer settings.
type TracingConfig struct {
	// Enabled toggles tracing. When false, TraceViolation is a no-op.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// OutputDirectory is where per-trace and per-collection YAML files are
	// written when persistence is enabled.
	// Default: ".akao_traces"
	OutputDirectory string `yaml:"output_directory"`

	// PersistTraces controls whether traces are written to disk.
	// Default: true
	PersistTraces bool `yaml:"persist_traces"`

	// CaptureStackTrace includes a call-chain snapshot in each trace.
	// Default: true
	CaptureStackTrace bool `yaml:"capture_stack_trace"`

	// CaptureContextVariables includes the tracer's context variable map
	// in each trace.
	// Default: true
	CaptureContextVariables bool `yaml:"capture_context_variables"`

	// MaxStackDepth bounds both the captured call chain and the rule chain.
	// Default: 50
	MaxStackDepth int `yaml:"max_stack_depth"`

	// MaxContextVariables bounds the context variable map.
	// Default: 100
	MaxContextVariables int `yaml:"max_context_variables"`
}

// HistoryConfig contains validation run history storage settings.
type HistoryConfig struct {
	// Enabled toggles run history recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: ".akao/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text", "console").
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled toggles metric collection.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "akao"
	Namespace string `yaml:"namespace"`

	// Subsystem is the secondary metric name prefix.
	Subsystem string `yaml:"subsystem"`
}
