package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GenerateLogContent renders a result as the plain-text validation log:
// a header block, a VIOLATIONS block when violations exist, and a
// trailing SUMMARY line.
func GenerateLogContent(result *ValidationResult) string {
	status := "FAILED"
	if result.IsValid() {
		status = "PASSED"
	}

	var b strings.Builder
	b.WriteString("=== AKAO VALIDATION LOG ===\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", result.ValidatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target Path: %s\n", result.TargetPath)
	fmt.Fprintf(&b, "Validation Type: %s\n", result.ValidationType)
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Duration: %.2fs\n", result.Duration.Seconds())
	fmt.Fprintf(&b, "Rules Executed: %d\n", result.TotalRulesExecuted)
	fmt.Fprintf(&b, "Files Analyzed: %d\n", result.TotalFilesAnalyzed)
	fmt.Fprintf(&b, "Total Violations: %d\n", len(result.Violations))
	b.WriteString("\n")

	if len(result.Violations) > 0 {
		b.WriteString("=== VIOLATIONS ===\n")
		for _, v := range result.Violations {
			fmt.Fprintf(&b, "Rule: %s\n", v.RuleID)
			fmt.Fprintf(&b, "File: %s\n", v.FilePath)
			fmt.Fprintf(&b, "Message: %s\n", v.Message)
			fmt.Fprintf(&b, "Severity: %s\n", v.Severity)
			b.WriteString("---\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("=== SUMMARY ===\n")
	fmt.Fprintf(&b, "Validation %s\n", status)

	return b.String()
}

// ExportLog writes the rendered log under the target's .akao/logs
// directory with a timestamped name, creating the directory as needed.
// When the target is a single file the log lands under the current
// directory instead. Returns the written path.
func ExportLog(result *ValidationResult, targetPath string) (string, error) {
	logsDir := filepath.Join(".", ".akao", "logs")
	if info, err := os.Stat(targetPath); err == nil && info.IsDir() {
		logsDir = filepath.Join(targetPath, ".akao", "logs")
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return "", &ExportError{Path: logsDir, Cause: err}
	}

	logPath := filepath.Join(logsDir,
		fmt.Sprintf("validation_%s.log", time.Now().Format("20060102_150405")))

	if err := os.WriteFile(logPath, []byte(GenerateLogContent(result)), 0o644); err != nil {
		return "", &ExportError{Path: logPath, Cause: err}
	}
	return logPath, nil
}
