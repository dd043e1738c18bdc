package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportError wraps a failure writing trace data to disk.
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("trace: export to %q failed: %v", e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// LoadDirectory reads every persisted trace file under dir, skipping
// collection summaries. Unreadable or malformed files are skipped.
func LoadDirectory(dir string) ([]*ViolationTrace, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ExportError{Path: dir, Cause: err}
	}

	var traces []*ViolationTrace
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}
		if strings.HasSuffix(name, "_collection.yaml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var tr ViolationTrace
		if err := yaml.Unmarshal(data, &tr); err != nil || tr.TraceID == "" {
			continue
		}
		traces = append(traces, &tr)
	}
	return traces, nil
}

// persistTrace writes one trace as YAML under dir, named by its
// sanitized id.
func persistTrace(dir string, tr *ViolationTrace) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: dir, Cause: err}
	}

	data, err := yaml.Marshal(tr)
	if err != nil {
		return &ExportError{Path: dir, Cause: err}
	}

	path := filepath.Join(dir, sanitizeForPath(tr.TraceID)+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	return nil
}

// persistCollection writes the finalized collection's counters as YAML
// under dir.
func persistCollection(dir string, c *Collection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: dir, Cause: err}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return &ExportError{Path: dir, Cause: err}
	}

	path := filepath.Join(dir, sanitizeForPath(c.CollectionID)+"_collection.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ExportError{Path: path, Cause: err}
	}
	return nil
}
