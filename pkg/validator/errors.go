package validator

import "fmt"

// InitializationError reports a validation target that cannot be used.
type InitializationError struct {
	Target string
	Cause  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("validator: invalid target %q: %v", e.Target, e.Cause)
}

func (e *InitializationError) Unwrap() error { return e.Cause }

// DiscoveryError reports a failure while walking the target tree.
type DiscoveryError struct {
	Path  string
	Cause error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("validator: discovery failed at %q: %v", e.Path, e.Cause)
}

func (e *DiscoveryError) Unwrap() error { return e.Cause }

// ExportError reports a failure writing the validation log.
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("validator: log export to %q failed: %v", e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }
