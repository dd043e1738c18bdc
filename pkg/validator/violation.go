package validator

import "time"

// Violation is one rule failure detected against one file. Violations
// are created by the evaluation bridge (or the tracer, for enrichment)
// and are immutable after creation; the ValidationResult that collected
// a violation owns it.
type Violation struct {
	ID string `yaml:"id"`

	RuleID       string `yaml:"rule_id"`
	RuleName     string `yaml:"rule_name"`
	RuleCategory string `yaml:"rule_category"`

	// PhilosophyID is an optional cross-reference to the philosophy the
	// rule enforces.
	PhilosophyID string `yaml:"philosophy_id,omitempty"`

	Message     string `yaml:"message"`
	Description string `yaml:"description,omitempty"`
	Suggestion  string `yaml:"suggestion,omitempty"`

	FilePath string `yaml:"file_path"`
	Line     int    `yaml:"line_number"`
	Column   int    `yaml:"column_number,omitempty"`

	Severity         string    `yaml:"severity"`
	AutoFixAvailable bool      `yaml:"auto_fix_available"`
	DetectedAt       time.Time `yaml:"detected_at"`

	// Provenance, filled in by the tracer when tracing is active.
	TraceID           string            `yaml:"trace_id,omitempty"`
	CallStack         []string          `yaml:"call_stack,omitempty"`
	RuleChain         []string          `yaml:"rule_chain,omitempty"`
	ContextVariables  map[string]string `yaml:"context_variables,omitempty"`
	RootCause         string            `yaml:"root_cause,omitempty"`
	RelatedViolations []string          `yaml:"related_violations,omitempty"`
	FixCommands       []string          `yaml:"fix_commands,omitempty"`
	Metadata          map[string]string `yaml:"metadata,omitempty"`
}
