package loader

import "fmt"

// ComponentError wraps a failure while resolving, reading, or parsing a
// lazily loaded component.
type ComponentError struct {
	ID    string
	Op    string
	Cause error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s: %s failed: %v", e.ID, e.Op, e.Cause)
}

func (e *ComponentError) Unwrap() error {
	return e.Cause
}
