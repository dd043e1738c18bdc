package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"akao-hq/akao/pkg/validator"
)

// OutputFormat selects how a validation result is rendered.
type OutputFormat string

const (
	// FormatText is the human-readable default.
	FormatText OutputFormat = "text"
	// FormatJSON renders the report as indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders the report as YAML.
	FormatYAML OutputFormat = "yaml"
)

// Report is the externally visible shape of a validation result. It
// pins the field names the json and yaml renderings use, independent of
// the internal result type.
type Report struct {
	Target          string  `json:"target" yaml:"target"`
	ValidationType  string  `json:"validation_type" yaml:"validation_type"`
	Valid           bool    `json:"valid" yaml:"valid"`
	ComplianceScore float64 `json:"compliance_score" yaml:"compliance_score"`

	FilesAnalyzed   int     `json:"files_analyzed" yaml:"files_analyzed"`
	RulesExecuted   int     `json:"rules_executed" yaml:"rules_executed"`
	TotalViolations int     `json:"total_violations" yaml:"total_violations"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`

	ValidatedAt time.Time `json:"validated_at" yaml:"validated_at"`

	Violations []ReportViolation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

// ReportViolation is one violation in report form.
type ReportViolation struct {
	RuleID     string `json:"rule_id" yaml:"rule_id"`
	File       string `json:"file" yaml:"file"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Severity   string `json:"severity" yaml:"severity"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	TraceID    string `json:"trace_id,omitempty" yaml:"trace_id,omitempty"`
}

// NewReport converts a validation result into its report form, with
// violations ordered by file then rule.
func NewReport(result *validator.ValidationResult) *Report {
	report := &Report{
		Target:          result.TargetPath,
		ValidationType:  result.ValidationType,
		Valid:           result.IsValid(),
		ComplianceScore: result.ComplianceScore,
		FilesAnalyzed:   result.TotalFilesAnalyzed,
		RulesExecuted:   result.TotalRulesExecuted,
		TotalViolations: len(result.Violations),
		DurationSeconds: result.Duration.Seconds(),
		ValidatedAt:     result.ValidatedAt,
	}

	for _, v := range result.Violations {
		report.Violations = append(report.Violations, ReportViolation{
			RuleID:     v.RuleID,
			File:       v.FilePath,
			Line:       v.Line,
			Severity:   v.Severity,
			Message:    v.Message,
			Suggestion: v.Suggestion,
			TraceID:    v.TraceID,
		})
	}
	sort.Slice(report.Violations, func(i, j int) bool {
		a, b := report.Violations[i], report.Violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.RuleID < b.RuleID
	})
	return report
}

// Formatter renders a validation report to a writer.
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// TextFormatter renders the report for terminals.
type TextFormatter struct{}

// Format writes the human-readable rendering.
func (f *TextFormatter) Format(w io.Writer, report *Report) error {
	status := "PASSED"
	if !report.Valid {
		status = "FAILED"
	}

	fmt.Fprintf(w, "Validation %s\n", status)
	fmt.Fprintf(w, "  Target:           %s\n", report.Target)
	fmt.Fprintf(w, "  Files analyzed:   %d\n", report.FilesAnalyzed)
	fmt.Fprintf(w, "  Rules executed:   %d\n", report.RulesExecuted)
	fmt.Fprintf(w, "  Violations:       %d\n", report.TotalViolations)
	fmt.Fprintf(w, "  Compliance score: %.1f%%\n", report.ComplianceScore)
	fmt.Fprintf(w, "  Duration:         %.2fs\n", report.DurationSeconds)

	if len(report.Violations) > 0 {
		fmt.Fprintln(w)
		for _, v := range report.Violations {
			location := v.File
			if v.Line > 0 {
				location = fmt.Sprintf("%s:%d", v.File, v.Line)
			}
			fmt.Fprintf(w, "  [%s] %s: %s (%s)\n", v.Severity, location, v.Message, v.RuleID)
			if v.Suggestion != "" {
				fmt.Fprintf(w, "      suggestion: %s\n", v.Suggestion)
			}
		}
	}
	return nil
}

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

// Format writes the JSON rendering.
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// YAMLFormatter renders the report as YAML.
type YAMLFormatter struct{}

// Format writes the YAML rendering.
func (f *YAMLFormatter) Format(w io.Writer, report *Report) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(report)
}

// NewFormatter returns the formatter for format, or an error for an
// unknown format name.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
