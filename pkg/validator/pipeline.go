package validator

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"akao-hq/akao/pkg/rule"
)

// State is the pipeline's execution state, reported for logging and
// progress checkpoints.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateValidating  State = "validating"
	StateAggregating State = "aggregating"
	StateDone        State = "done"
)

// DefaultBatchSize bounds how many files are processed between progress
// checkpoints. This is sequential chunking, not parallelism.
const DefaultBatchSize = 10

// Tracer receives each collected violation for provenance enrichment.
// The returned trace id is written back onto the violation; an empty id
// means tracing is inactive.
type Tracer interface {
	TraceViolation(v *Violation) string
}

// Recorder observes completed validation passes, typically for metrics.
type Recorder interface {
	RecordValidation(duration time.Duration, files, violations int, valid bool)
}

// Resolver supplies the freshest definition of a rule, typically from a
// component cache with hot reload. A false ok falls back to the scanned
// definition.
type Resolver interface {
	ResolveRule(id string) (*rule.Config, bool)
}

// PipelineConfig tunes the validation pipeline.
type PipelineConfig struct {
	// BatchSize is the compliance-phase chunk size (default 10).
	BatchSize int

	// Parallel evaluates the files inside a batch concurrently. Off by
	// default; sequential order is the reference behavior.
	Parallel bool

	// MaxWorkers caps batch concurrency when Parallel is set.
	MaxWorkers int

	// ExportLogs writes the plain-text validation log after aggregation.
	ExportLogs bool

	// Progress, when set, is called after each compliance batch with the
	// number of files processed so far and the total file count.
	Progress func(done, total int)
}

// Pipeline orchestrates a validation pass: discovery, the ordered
// phases, and aggregation.
type Pipeline struct {
	repo      *rule.Repository
	discovery *DiscoveryEngine
	bridge    *Bridge
	config    PipelineConfig

	tracer   Tracer
	recorder Recorder
	resolver Resolver

	mu     sync.Mutex
	state  State
	logger *slog.Logger
}

// NewPipeline creates a validation pipeline. tracer and recorder may be
// nil.
func NewPipeline(repo *rule.Repository, discovery *DiscoveryEngine, bridge *Bridge, config PipelineConfig, logger *slog.Logger) *Pipeline {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = config.BatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		repo:      repo,
		discovery: discovery,
		bridge:    bridge,
		config:    config,
		state:     StateIdle,
		logger:    logger.With("component", "validator.pipeline"),
	}
}

// SetTracer attaches a violation tracer.
func (p *Pipeline) SetTracer(t Tracer) { p.tracer = t }

// SetRecorder attaches a metrics recorder.
func (p *Pipeline) SetRecorder(r Recorder) { p.recorder = r }

// SetResolver attaches a rule resolver.
func (p *Pipeline) SetResolver(r Resolver) { p.resolver = r }

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	p.logger.Debug("pipeline state", "state", string(s))
}

// Validate runs the full pass against path. Rule failures and unreadable
// files become violations, never errors; only a missing or unusable
// target aborts the pass.
func (p *Pipeline) Validate(ctx context.Context, path string) (*ValidationResult, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		return nil, &InitializationError{Target: path, Cause: err}
	}

	p.setState(StateDiscovering)
	files, err := p.discovery.Discover(path)
	if err != nil {
		p.setState(StateIdle)
		return nil, err
	}

	result := NewResult(path, "phased-validation")

	p.setState(StateValidating)
	for _, phase := range rule.Phases() {
		if err := ctx.Err(); err != nil {
			p.setState(StateIdle)
			return nil, err
		}
		p.runPhase(ctx, phase, path, files, result)
	}

	p.setState(StateAggregating)
	result.TotalFilesAnalyzed = len(files)
	result.TotalRulesExecuted = p.countApplicableRules(files)
	result.Duration = time.Since(start)
	result.ComputeScore()

	if p.tracer != nil {
		for i := range result.Violations {
			result.Violations[i].TraceID = p.tracer.TraceViolation(&result.Violations[i])
		}
	}

	if p.config.ExportLogs {
		if logPath, exportErr := ExportLog(result, path); exportErr != nil {
			p.logger.Warn("validation log export failed", "error", exportErr)
		} else {
			p.logger.Info("validation log exported", "path", logPath)
		}
	}

	if p.recorder != nil {
		p.recorder.RecordValidation(result.Duration, len(files), len(result.Violations), result.IsValid())
	}

	p.setState(StateDone)
	p.logger.Info("validation completed",
		"target", path,
		"files", result.TotalFilesAnalyzed,
		"rules", result.TotalRulesExecuted,
		"violations", len(result.Violations),
		"valid", result.IsValid(),
		"duration", result.Duration.String(),
	)
	return result, nil
}

// runPhase executes one phase. Only compliance invokes the bridge; the
// remaining phases forward the file list unchanged.
func (p *Pipeline) runPhase(ctx context.Context, phase rule.Phase, target string, files []string, result *ValidationResult) {
	rules := p.repo.ByPhase(phase)

	if phase != rule.PhaseCompliance {
		p.logger.Debug("phase pass-through", "phase", string(phase), "rules", len(rules))
		return
	}

	rules = p.resolveRules(rules)

	p.logger.Debug("compliance phase starting", "rules", len(rules), "files", len(files))

	for i := 0; i < len(files); i += p.config.BatchSize {
		end := min(i+p.config.BatchSize, len(files))
		batch := files[i:end]

		if p.config.Parallel {
			p.runBatchParallel(ctx, rules, target, batch, result)
		} else {
			for _, file := range batch {
				result.AddViolations(p.evaluateFile(ctx, rules, target, file))
			}
		}

		p.logger.Debug("batch processed",
			"from", i,
			"to", end,
			"violations_so_far", len(result.Violations),
		)
		if p.config.Progress != nil {
			p.config.Progress(end, len(files))
		}
	}
}

// resolveRules swaps each rule for the resolver's current definition
// when one is available, keeping the scanned definition otherwise.
func (p *Pipeline) resolveRules(rules []*rule.Config) []*rule.Config {
	if p.resolver == nil {
		return rules
	}
	resolved := make([]*rule.Config, len(rules))
	for i, cfg := range rules {
		if fresh, ok := p.resolver.ResolveRule(cfg.ID); ok {
			resolved[i] = fresh
		} else {
			resolved[i] = cfg
		}
	}
	return resolved
}

// runBatchParallel fans the batch's files out over a bounded worker
// group, serializing result mutation on one mutex.
func (p *Pipeline) runBatchParallel(ctx context.Context, rules []*rule.Config, target string, batch []string, result *ValidationResult) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, p.config.MaxWorkers)
	)

	for _, file := range batch {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(file string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			violations := p.evaluateFile(ctx, rules, target, file)

			mu.Lock()
			result.AddViolations(violations)
			mu.Unlock()
		}(file)
	}

	wg.Wait()
}

// evaluateFile applies every phase rule to one file.
func (p *Pipeline) evaluateFile(ctx context.Context, rules []*rule.Config, target, file string) []Violation {
	var violations []Violation
	for _, cfg := range rules {
		violations = append(violations, p.bridge.Apply(ctx, cfg, target, file)...)
	}
	return violations
}

// countApplicableRules counts the enabled rules whose applicability
// globs match at least one discovered file.
func (p *Pipeline) countApplicableRules(files []string) int {
	count := 0
	for _, cfg := range p.repo.Enabled() {
		for _, file := range files {
			if p.bridge.Applies(cfg, file) {
				count++
				break
			}
		}
	}
	return count
}
