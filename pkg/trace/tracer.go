package trace

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"akao-hq/akao/pkg/validator"
)

// rootCauses is the fixed lookup from normalized violation category to a
// canned explanation.
var rootCauses = map[string]string{
	"structural": "Project structure does not follow Akao conventions",
	"interface":  "Interface design violates consistency rules",
	"language":   "Language usage violates isolation principles",
}

const unknownRootCause = "Unknown root cause"

// Tracer enriches violations with diagnostic provenance and groups them
// into session-scoped collections. At most one collection is active at a
// time; traces recorded outside a collection are still stored and
// queryable.
type Tracer struct {
	mu sync.Mutex

	config Config

	traces    map[string]*ViolationTrace
	current   *Collection
	completed []*Collection

	ruleChain   []string
	contextVars map[string]string

	stats  Stats
	logger *slog.Logger
}

// NewTracer creates a tracer with the given configuration.
func NewTracer(config Config, logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{
		config:      config,
		traces:      make(map[string]*ViolationTrace),
		contextVars: make(map[string]string),
		stats:       Stats{TracesBySession: make(map[string]int)},
		logger:      logger.With("component", "trace.tracer"),
	}
}

// StartCollection opens a new collection for the project, replacing any
// active one. An empty sessionID gets a generated id. Returns the
// collection id.
func (t *Tracer) StartCollection(projectPath, sessionID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	t.current = &Collection{
		CollectionID: "collection:" + sanitizeForPath(projectPath) + ":" + shortID(),
		ProjectPath:  projectPath,
		SessionID:    sessionID,
		ByRule:       make(map[string]int),
		ByPhilosophy: make(map[string]int),
		ByFile:       make(map[string]int),
		ByCategory:   make(map[string]int),
		StartedAt:    time.Now(),
	}

	t.ruleChain = nil
	t.contextVars = make(map[string]string)

	t.stats.TotalCollections++
	if _, ok := t.stats.TracesBySession[sessionID]; !ok {
		t.stats.TracesBySession[sessionID] = 0
	}

	t.logger.Debug("trace collection started",
		"collection", t.current.CollectionID,
		"session", sessionID,
	)
	return t.current.CollectionID
}

// EndCollection finalizes the active collection and returns it. Nil when
// no collection is active.
func (t *Tracer) EndCollection() *Collection {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}

	c := t.current
	c.EndedAt = time.Now()
	c.Duration = c.EndedAt.Sub(c.StartedAt)
	c.DurationSeconds = c.Duration.Seconds()

	if t.config.PersistTraces {
		if err := persistCollection(t.config.OutputDirectory, c); err != nil {
			t.logger.Warn("collection persistence failed",
				"collection", c.CollectionID,
				"error", err,
			)
		}
	}

	t.completed = append(t.completed, c)
	t.current = nil

	t.logger.Debug("trace collection ended",
		"collection", c.CollectionID,
		"violations", c.TotalViolations,
	)
	return c
}

// TraceViolation records one violation, returning its trace id. A no-op
// returning "" when tracing is disabled. Implements validator.Tracer.
func (t *Tracer) TraceViolation(v *validator.Violation) string {
	if !t.config.Enabled {
		return ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	trace := t.buildTrace(v)
	t.traces[trace.TraceID] = trace
	t.stats.TotalTraces++

	if t.current != nil {
		t.current.Traces = append(t.current.Traces, *trace)
		t.current.TotalViolations++
		t.current.ByRule[v.RuleID]++
		t.current.ByPhilosophy[v.PhilosophyID]++
		t.current.ByFile[v.FilePath]++
		t.current.ByCategory[trace.ViolationCategory]++

		switch v.Severity {
		case "error", "critical":
			t.current.CriticalViolations++
		case "warning":
			t.current.WarningViolations++
		default:
			t.current.InfoViolations++
		}

		t.stats.TracesBySession[t.current.SessionID]++
	}

	if t.config.PersistTraces {
		if err := persistTrace(t.config.OutputDirectory, trace); err != nil {
			t.logger.Warn("trace persistence failed",
				"trace", trace.TraceID,
				"error", err,
			)
		}
	}

	return trace.TraceID
}

// TraceViolations records a batch, returning the trace ids in order.
func (t *Tracer) TraceViolations(violations []validator.Violation) []string {
	ids := make([]string, 0, len(violations))
	for i := range violations {
		ids = append(ids, t.TraceViolation(&violations[i]))
	}
	return ids
}

// AddContextVariable records a variable captured onto subsequent traces,
// bounded by MaxContextVariables.
func (t *Tracer) AddContextVariable(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.config.CaptureContextVariables && len(t.contextVars) < t.config.MaxContextVariables {
		t.contextVars[name] = value
	}
}

// PushRule pushes a rule onto the evaluation chain snapshot, bounded by
// MaxStackDepth.
func (t *Tracer) PushRule(ruleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.ruleChain) < t.config.MaxStackDepth {
		t.ruleChain = append(t.ruleChain, ruleID)
	}
}

// PopRule pops the evaluation chain.
func (t *Tracer) PopRule() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.ruleChain) > 0 {
		t.ruleChain = t.ruleChain[:len(t.ruleChain)-1]
	}
}

// Trace returns the stored trace for id.
func (t *Tracer) Trace(id string) (*ViolationTrace, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, ok := t.traces[id]
	return tr, ok
}

// TracesByRule returns every stored trace for the rule.
func (t *Tracer) TracesByRule(ruleID string) []*ViolationTrace {
	return t.filter(func(tr *ViolationTrace) bool { return tr.RuleID == ruleID })
}

// TracesByPhilosophy returns every stored trace for the philosophy.
func (t *Tracer) TracesByPhilosophy(philosophyID string) []*ViolationTrace {
	return t.filter(func(tr *ViolationTrace) bool { return tr.PhilosophyID == philosophyID })
}

// TracesByFile returns every stored trace for the file.
func (t *Tracer) TracesByFile(path string) []*ViolationTrace {
	return t.filter(func(tr *ViolationTrace) bool { return tr.FilePath == path })
}

// FindRelatedViolations returns the ids of every other stored trace
// sharing the target's file, rule, philosophy, or root cause. The
// relation is symmetric and non-transitive.
func (t *Tracer) FindRelatedViolations(traceID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, ok := t.traces[traceID]
	if !ok {
		return nil
	}

	var related []string
	for id, other := range t.traces {
		if id == traceID {
			continue
		}
		if related1(target, other) {
			related = append(related, id)
		}
	}
	sort.Strings(related)
	return related
}

// Summary aggregates every stored trace.
func (t *Tracer) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		TotalTraces:  len(t.traces),
		BySeverity:   make(map[string]int),
		ByRule:       make(map[string]int),
		ByPhilosophy: make(map[string]int),
		ByFile:       make(map[string]int),
	}

	frequency := make(map[string]int)
	for _, tr := range t.traces {
		s.BySeverity[tr.ViolationSeverity]++
		s.ByRule[tr.RuleID]++
		s.ByPhilosophy[tr.PhilosophyID]++
		s.ByFile[tr.FilePath]++
		frequency[tr.RuleID+":"+tr.ViolationCategory]++

		if tr.ViolationSeverity == "error" || tr.ViolationSeverity == "critical" {
			s.CriticalIssues = append(s.CriticalIssues, tr.TraceID)
		}
	}

	if len(s.ByFile) > 0 {
		s.AverageViolationsPerFile = float64(len(t.traces)) / float64(len(s.ByFile))
	}

	keys := make([]string, 0, len(frequency))
	for k := range frequency {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if frequency[keys[i]] != frequency[keys[j]] {
			return frequency[keys[i]] > frequency[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 10 {
		keys = keys[:10]
	}
	s.MostCommonViolations = keys

	sort.Strings(s.CriticalIssues)
	return s
}

// Stats returns a snapshot of the tracer counters.
func (t *Tracer) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := Stats{
		TotalCollections: t.stats.TotalCollections,
		TotalTraces:      t.stats.TotalTraces,
		TracesExported:   t.stats.TracesExported,
		TracesBySession:  make(map[string]int, len(t.stats.TracesBySession)),
	}
	for k, v := range t.stats.TracesBySession {
		snapshot.TracesBySession[k] = v
	}
	return snapshot
}

// ClearTraces drops every stored trace.
func (t *Tracer) ClearTraces() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.traces = make(map[string]*ViolationTrace)
}

// buildTrace assembles the enrichment record for one violation. Caller
// holds t.mu.
func (t *Tracer) buildTrace(v *validator.Violation) *ViolationTrace {
	category := normalizeCategory(v.RuleCategory)

	trace := &ViolationTrace{
		TraceID:           generateTraceID(v),
		ViolationID:       v.ID,
		RuleID:            v.RuleID,
		PhilosophyID:      v.PhilosophyID,
		FilePath:          v.FilePath,
		Line:              v.Line,
		ViolationCategory: category,
		ViolationSeverity: v.Severity,
		Message:           v.Message,
		TracedAt:          time.Now(),
	}

	if t.current != nil {
		trace.ProjectPath = t.current.ProjectPath
	}

	if t.config.CaptureStackTrace {
		trace.CallStack = captureCallStack()
	}
	trace.RuleChain = append([]string(nil), t.ruleChain...)

	if t.config.CaptureContextVariables {
		vars := make(map[string]string, len(t.contextVars)+3)
		for k, val := range t.contextVars {
			vars[k] = val
		}
		vars["validation_time"] = trace.TracedAt.Format(time.RFC3339)
		if t.current != nil {
			vars["project_path"] = t.current.ProjectPath
			vars["session_id"] = t.current.SessionID
			vars["collection_id"] = t.current.CollectionID
		}
		trace.ContextVariables = vars
	}

	if cause, ok := rootCauses[category]; ok {
		trace.RootCause = cause
	} else {
		trace.RootCause = unknownRootCause
	}

	// Seed relations with the same-file traces known at creation time.
	for id, other := range t.traces {
		if other.FilePath == trace.FilePath {
			trace.RelatedViolations = append(trace.RelatedViolations, id)
		}
	}
	sort.Strings(trace.RelatedViolations)

	return trace
}

// filter returns the stored traces matching keep, sorted by trace id.
func (t *Tracer) filter(keep func(*ViolationTrace) bool) []*ViolationTrace {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*ViolationTrace
	for _, tr := range t.traces {
		if keep(tr) {
			out = append(out, tr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TraceID < out[j].TraceID })
	return out
}

// related1 is the pairwise relation predicate: same file, rule,
// philosophy, or root cause.
func related1(a, b *ViolationTrace) bool {
	if a.FilePath != "" && a.FilePath == b.FilePath {
		return true
	}
	if a.RuleID != "" && a.RuleID == b.RuleID {
		return true
	}
	if a.PhilosophyID != "" && a.PhilosophyID == b.PhilosophyID {
		return true
	}
	if a.RootCause != "" && a.RootCause == b.RootCause {
		return true
	}
	return false
}

// normalizeCategory maps a rule category to the trace category taxonomy.
func normalizeCategory(category string) string {
	switch category {
	case "structure":
		return "structural"
	case "interface", "language", "security", "testing":
		return category
	}
	return "general"
}

// generateTraceID builds the trace id from the rule, file base name,
// line, and a random suffix.
func generateTraceID(v *validator.Violation) string {
	return fmt.Sprintf("trace:%s:%s:%d:%s",
		v.RuleID, filepath.Base(v.FilePath), v.Line, shortID())
}

// captureCallStack returns the fixed logical call chain recorded on each
// trace.
func captureCallStack() []string {
	return []string{
		"Tracer.TraceViolation",
		"Pipeline.Validate",
		"Bridge.Apply",
	}
}

// shortID returns an 8-character random suffix.
func shortID() string {
	return uuid.NewString()[:8]
}

// sanitizeForPath replaces every character unsafe in a file name.
func sanitizeForPath(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		}
		return '_'
	}, s)
}
