package rule

import (
	"errors"
	"fmt"
)

// ErrRuleNotFound indicates a rule id is not present in the available set.
var ErrRuleNotFound = errors.New("rule not found")

// ParseError indicates a malformed rule definition file. The repository
// treats it as non-fatal: the file is skipped and the scan continues.
type ParseError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse rule file %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ScanError indicates the rules directory itself could not be walked.
type ScanError struct {
	Dir   string
	Cause error
}

// Error returns the error message.
func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan rules directory %q: %v", e.Dir, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ScanError) Unwrap() error {
	return e.Cause
}
