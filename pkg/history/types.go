package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"akao-hq/akao/pkg/validator"
)

// ErrRunNotFound is returned when a run id is unknown to the store.
var ErrRunNotFound = errors.New("history: run not found")

// Run is one persisted validation pass.
type Run struct {
	ID             string
	Target         string
	ValidationType string

	StartedAt time.Time
	Duration  time.Duration

	RulesExecuted   int
	FilesAnalyzed   int
	TotalViolations int
	ComplianceScore float64
	IsValid         bool

	Violations []RunViolation
}

// RunViolation is the stored slice of a violation: enough to answer
// "what failed where" without replaying the pass.
type RunViolation struct {
	RuleID   string
	FilePath string
	Severity string
	Message  string
}

// Store persists validation runs.
type Store interface {
	// SaveRun persists a run and its violations.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun returns the run with the given id, violations included.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns the most recent runs, newest first, without
	// violations. limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// DeleteRunsBefore removes runs older than cutoff, returning the
	// number deleted.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}

// RunFromResult converts a pipeline result into a history run.
func RunFromResult(result *validator.ValidationResult) *Run {
	run := &Run{
		ID:              uuid.NewString(),
		Target:          result.TargetPath,
		ValidationType:  result.ValidationType,
		StartedAt:       result.ValidatedAt,
		Duration:        result.Duration,
		RulesExecuted:   result.TotalRulesExecuted,
		FilesAnalyzed:   result.TotalFilesAnalyzed,
		TotalViolations: len(result.Violations),
		ComplianceScore: result.ComplianceScore,
		IsValid:         result.IsValid(),
	}

	for _, v := range result.Violations {
		run.Violations = append(run.Violations, RunViolation{
			RuleID:   v.RuleID,
			FilePath: v.FilePath,
			Severity: v.Severity,
			Message:  v.Message,
		})
	}
	return run
}
