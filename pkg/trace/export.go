package trace

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ExportTraces writes every stored trace to path in the given format
// ("yaml" or "csv"). Traces are ordered by trace id.
func (t *Tracer) ExportTraces(path, format string) error {
	t.mu.Lock()
	traces := make([]*ViolationTrace, 0, len(t.traces))
	for _, tr := range t.traces {
		traces = append(traces, tr)
	}
	t.mu.Unlock()

	if err := WriteTraces(path, format, traces); err != nil {
		return err
	}

	t.mu.Lock()
	t.stats.TracesExported += len(traces)
	t.mu.Unlock()

	t.logger.Info("traces exported", "path", path, "format", format, "count", len(traces))
	return nil
}

// WriteTraces writes a trace slice to path in the given format ("yaml"
// or "csv"), ordered by trace id.
func WriteTraces(path, format string, traces []*ViolationTrace) error {
	sorted := make([]*ViolationTrace, len(traces))
	copy(sorted, traces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TraceID < sorted[j].TraceID })

	switch format {
	case "yaml":
		return exportYAML(path, sorted)
	case "csv":
		return exportCSV(path, sorted)
	default:
		return &ExportError{Path: path, Cause: fmt.Errorf("unsupported format %q", format)}
	}
}

func exportYAML(path string, traces []*ViolationTrace) error {
	doc := struct {
		Traces []*ViolationTrace `yaml:"traces"`
	}{Traces: traces}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	return nil
}

func exportCSV(path string, traces []*ViolationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"trace_id", "violation_id", "rule_id", "philosophy_id",
		"file_path", "line_number", "violation_category",
		"violation_severity", "root_cause",
	}
	if err := w.Write(header); err != nil {
		return &ExportError{Path: path, Cause: err}
	}

	for _, tr := range traces {
		record := []string{
			tr.TraceID, tr.ViolationID, tr.RuleID, tr.PhilosophyID,
			tr.FilePath, strconv.Itoa(tr.Line), tr.ViolationCategory,
			tr.ViolationSeverity, tr.RootCause,
		}
		if err := w.Write(record); err != nil {
			return &ExportError{Path: path, Cause: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	return nil
}
