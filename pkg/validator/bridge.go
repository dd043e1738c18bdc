package validator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"akao-hq/akao/pkg/evaluator"
	"akao-hq/akao/pkg/rule"
)

const genericSuggestion = "Review the rule definition and bring the file into compliance"

// Bridge applies one rule to one file by invoking the expression
// evaluator and translating its outcome into zero or more violations.
type Bridge struct {
	eval   evaluator.Evaluator
	logger *slog.Logger
}

// NewBridge creates an evaluation bridge backed by eval.
func NewBridge(eval evaluator.Evaluator, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		eval:   eval,
		logger: logger.With("component", "validator.bridge"),
	}
}

// Applies reports whether the rule's applies_to globs match the file. A
// rule with no globs applies to everything. Non-matching rules must not
// reach the evaluator at all.
func (b *Bridge) Applies(cfg *rule.Config, file string) bool {
	if len(cfg.AppliesTo) == 0 {
		return true
	}

	base := filepath.Base(file)
	ext := filepath.Ext(file)
	for _, pattern := range cfg.AppliesTo {
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
		if ext != "" && pattern == "*"+ext {
			return true
		}
	}
	return false
}

// Apply evaluates the rule against the file and returns the resulting
// violations. Outcomes map as:
//
//   - pass: no violations;
//   - simple failure: one violation tagged with the rule's identity and a
//     generic suggestion;
//   - quantified failure: one violation per failing value, each with that
//     value as its file path;
//   - evaluation error: one error-severity violation on the file.
func (b *Bridge) Apply(ctx context.Context, cfg *rule.Config, targetPath, file string) []Violation {
	if !b.Applies(cfg, file) {
		return nil
	}

	bindings := map[string]any{
		"target_path": targetPath,
		"file":        file,
		"rule_id":     cfg.ID,
		"category":    cfg.Category,
	}
	if content, err := os.ReadFile(file); err == nil {
		bindings["file_content"] = string(content)
	}

	ok, err := b.eval.Evaluate(ctx, cfg.Expression, bindings)
	if ok && err == nil {
		return nil
	}

	var forall *evaluator.ForallViolationError
	switch {
	case errors.As(err, &forall):
		violations := make([]Violation, 0, len(forall.FailingValues))
		for _, value := range forall.FailingValues {
			v := b.newViolation(cfg, value)
			v.Message = "Check failed for " + value
			violations = append(violations, v)
		}
		return violations

	case err != nil:
		b.logger.Warn("rule evaluation failed",
			"rule", cfg.ID,
			"file", file,
			"error", err,
		)
		v := b.newViolation(cfg, file)
		v.Message = "Rule evaluation failed: " + err.Error()
		v.Severity = string(rule.SeverityError)
		return []Violation{v}

	default:
		v := b.newViolation(cfg, file)
		v.Message = "Rule " + cfg.Name + " failed"
		return []Violation{v}
	}
}

// newViolation builds the common violation skeleton for the rule and
// file.
func (b *Bridge) newViolation(cfg *rule.Config, file string) Violation {
	severity := string(cfg.Severity)
	if severity == "" {
		severity = string(rule.SeverityWarning)
	}
	return Violation{
		ID:           uuid.NewString(),
		RuleID:       cfg.ID,
		RuleName:     cfg.Name,
		RuleCategory: cfg.Category,
		Suggestion:   genericSuggestion,
		FilePath:     file,
		Severity:     severity,
		DetectedAt:   time.Now(),
	}
}
