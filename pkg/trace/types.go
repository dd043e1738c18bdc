package trace

import "time"

// Config controls the tracer's behavior.
type Config struct {
	Enabled                 bool
	OutputDirectory         string
	PersistTraces           bool
	CaptureStackTrace       bool
	CaptureContextVariables bool
	MaxStackDepth           int
	MaxContextVariables     int
}

// DefaultConfig returns the tracer defaults: enabled, in-memory only,
// writing under .akao_traces when persistence is turned on.
func DefaultConfig() Config {
	return Config{
		Enabled:                 true,
		OutputDirectory:         ".akao_traces",
		PersistTraces:           false,
		CaptureStackTrace:       true,
		CaptureContextVariables: true,
		MaxStackDepth:           10,
		MaxContextVariables:     20,
	}
}

// ViolationTrace is the one-to-one diagnostic enrichment of a violation.
type ViolationTrace struct {
	TraceID     string `yaml:"trace_id"`
	ViolationID string `yaml:"violation_id"`

	RuleID       string `yaml:"rule_id"`
	PhilosophyID string `yaml:"philosophy_id,omitempty"`

	FilePath string `yaml:"file_path"`
	Line     int    `yaml:"line_number"`

	ViolationCategory string `yaml:"violation_category"`
	ViolationSeverity string `yaml:"violation_severity"`
	Message           string `yaml:"message,omitempty"`

	ProjectPath string `yaml:"project_path,omitempty"`

	CallStack        []string          `yaml:"call_stack,omitempty"`
	RuleChain        []string          `yaml:"rule_chain,omitempty"`
	ContextVariables map[string]string `yaml:"context_variables,omitempty"`

	RootCause         string   `yaml:"root_cause,omitempty"`
	RelatedViolations []string `yaml:"related_violations,omitempty"`

	TracedAt time.Time `yaml:"traced_at"`
}

// Collection groups the traces of one validation session.
type Collection struct {
	CollectionID string `yaml:"collection_id"`
	ProjectPath  string `yaml:"project_path"`
	SessionID    string `yaml:"validation_session_id"`

	Traces []ViolationTrace `yaml:"-"`

	TotalViolations    int `yaml:"total_violations"`
	CriticalViolations int `yaml:"critical_violations"`
	WarningViolations  int `yaml:"warning_violations"`
	InfoViolations     int `yaml:"info_violations"`

	ByRule       map[string]int `yaml:"-"`
	ByPhilosophy map[string]int `yaml:"-"`
	ByFile       map[string]int `yaml:"-"`
	ByCategory   map[string]int `yaml:"-"`

	StartedAt time.Time     `yaml:"-"`
	EndedAt   time.Time     `yaml:"-"`
	Duration  time.Duration `yaml:"-"`

	// DurationSeconds mirrors Duration for the persisted form.
	DurationSeconds float64 `yaml:"collection_duration_seconds"`
}

// Summary is the aggregate view over every stored trace.
type Summary struct {
	TotalTraces int

	BySeverity   map[string]int
	ByRule       map[string]int
	ByPhilosophy map[string]int
	ByFile       map[string]int

	// MostCommonViolations lists up to ten "rule:category" keys by
	// descending frequency.
	MostCommonViolations []string

	// CriticalIssues lists the trace ids with error or critical severity.
	CriticalIssues []string

	AverageViolationsPerFile float64
}

// Stats reports tracer bookkeeping counters.
type Stats struct {
	TotalCollections int
	TotalTraces      int
	TracesExported   int
	TracesBySession  map[string]int
}
