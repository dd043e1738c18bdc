package validator

import "time"

// ValidationResult aggregates everything one validation pass produced.
// Results are mergeable; Merge is associative and order-independent over
// totals, violation lists, and indices.
type ValidationResult struct {
	TargetPath     string
	ValidationType string

	TotalRulesExecuted int
	TotalFilesAnalyzed int

	Violations []Violation

	// Derived indices, rebuilt on every mutation.
	ByCategory map[string][]*Violation
	BySeverity map[string][]*Violation
	ByFile     map[string][]*Violation

	ComplianceScore float64
	Duration        time.Duration
	ValidatedAt     time.Time
}

// NewResult creates an empty result for the given target.
func NewResult(target, validationType string) *ValidationResult {
	return &ValidationResult{
		TargetPath:     target,
		ValidationType: validationType,
		ByCategory:     make(map[string][]*Violation),
		BySeverity:     make(map[string][]*Violation),
		ByFile:         make(map[string][]*Violation),
		ValidatedAt:    time.Now(),
	}
}

// IsValid reports whether the pass found no violations.
func (r *ValidationResult) IsValid() bool {
	return len(r.Violations) == 0
}

// AddViolation appends one violation and updates the indices.
func (r *ValidationResult) AddViolation(v Violation) {
	r.Violations = append(r.Violations, v)
	r.reindex()
}

// AddViolations appends a batch of violations.
func (r *ValidationResult) AddViolations(vs []Violation) {
	if len(vs) == 0 {
		return
	}
	r.Violations = append(r.Violations, vs...)
	r.reindex()
}

// Merge folds other into r: totals add, violation lists concatenate,
// indices rebuild. The compliance score is recomputed from the merged
// totals so merge order does not matter.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.TotalRulesExecuted += other.TotalRulesExecuted
	r.TotalFilesAnalyzed += other.TotalFilesAnalyzed
	r.Violations = append(r.Violations, other.Violations...)
	r.Duration += other.Duration
	r.reindex()
	r.ComputeScore()
}

// ComputeScore derives the compliance score from the current totals:
// 100 * (1 - violations/files), floored at zero. A pass that analyzed no
// files scores 100 when clean and 0 otherwise.
func (r *ValidationResult) ComputeScore() {
	if r.TotalFilesAnalyzed == 0 {
		if len(r.Violations) == 0 {
			r.ComplianceScore = 100
		} else {
			r.ComplianceScore = 0
		}
		return
	}

	score := 100 * (1 - float64(len(r.Violations))/float64(r.TotalFilesAnalyzed))
	if score < 0 {
		score = 0
	}
	r.ComplianceScore = score
}

// ViolationsInCategory returns the indexed violations for a category.
func (r *ValidationResult) ViolationsInCategory(category string) []*Violation {
	return r.ByCategory[category]
}

// ViolationsWithSeverity returns the indexed violations for a severity.
func (r *ValidationResult) ViolationsWithSeverity(severity string) []*Violation {
	return r.BySeverity[severity]
}

// ViolationsInFile returns the indexed violations for a file path.
func (r *ValidationResult) ViolationsInFile(path string) []*Violation {
	return r.ByFile[path]
}

// reindex rebuilds the category, severity, and file indices from the
// violation list.
func (r *ValidationResult) reindex() {
	r.ByCategory = make(map[string][]*Violation)
	r.BySeverity = make(map[string][]*Violation)
	r.ByFile = make(map[string][]*Violation)

	for i := range r.Violations {
		v := &r.Violations[i]
		r.ByCategory[v.RuleCategory] = append(r.ByCategory[v.RuleCategory], v)
		r.BySeverity[v.Severity] = append(r.BySeverity[v.Severity], v)
		r.ByFile[v.FilePath] = append(r.ByFile[v.FilePath], v)
	}
}
