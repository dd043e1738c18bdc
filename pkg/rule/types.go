package rule

import "time"

// Severity classifies how serious a rule violation is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Phase names the ordered pipeline stages a rule may participate in.
type Phase string

const (
	PhaseSanitization Phase = "sanitization"
	PhaseCompliance   Phase = "compliance"
	PhaseEnforcement  Phase = "enforcement"
	PhaseRemediation  Phase = "remediation"
)

// Phases returns all pipeline phases in execution order.
func Phases() []Phase {
	return []Phase{PhaseSanitization, PhaseCompliance, PhaseEnforcement, PhaseRemediation}
}

// Format identifies the on-disk representation of a rule definition.
type Format string

const (
	// FormatYAML is the structured key:value format (.yaml/.yml).
	FormatYAML Format = "yaml"

	// FormatExpression is the annotated expression-text format (.a) with
	// comment-style metadata headers.
	FormatExpression Format = "a"
)

// Config is a fully parsed rule definition. It is immutable once loaded;
// a repository rescan replaces configs wholesale.
type Config struct {
	// ID is the rule identifier (e.g., "akao:rule::structure:class_separation:v1").
	ID string `yaml:"id"`

	// Name is the human-readable display name.
	Name string `yaml:"name"`

	// Description explains what the rule checks.
	Description string `yaml:"description"`

	// Category groups rules (structure, interface, language, security, testing, ...).
	Category string `yaml:"category"`

	// Format records which on-disk representation the rule came from.
	Format Format `yaml:"-"`

	// Enabled reports whether the rule was found under the enabled/ subtree.
	Enabled bool `yaml:"-"`

	// Severity is the violation severity this rule produces.
	Severity Severity `yaml:"severity"`

	// AppliesTo lists applicability glob patterns matched against a file's
	// name and extension. Empty means the rule applies to every file.
	AppliesTo []string `yaml:"applies_to"`

	// Phases lists the pipeline phases the rule participates in. Rules
	// without an explicit phase list run in the compliance phase.
	Phases []Phase `yaml:"phases"`

	// Params carries free-form rule parameters.
	Params map[string]string `yaml:"params"`

	// Expression is the rule body handed to the external evaluator. For
	// YAML rules it comes from the expression key; for .a rules it is the
	// non-comment remainder of the file.
	Expression string `yaml:"-"`

	// SourcePath is the rule definition file this config was parsed from.
	SourcePath string `yaml:"-"`

	// ModTime is the definition file's last modification time at parse time.
	ModTime time.Time `yaml:"-"`
}

// InPhase reports whether the rule participates in the given phase.
// A rule with no phase list defaults to the compliance phase.
func (c *Config) InPhase(phase Phase) bool {
	if len(c.Phases) == 0 {
		return phase == PhaseCompliance
	}
	for _, p := range c.Phases {
		if p == phase {
			return true
		}
	}
	return false
}
