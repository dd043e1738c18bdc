package evaluator

import (
	"context"
	"fmt"
	"strings"
)

// Evaluator executes a rule expression against a set of bindings and
// reports whether the check passed.
//
// Implementations signal three outcomes: (true, nil) pass, (false, nil)
// simple failure, and (false, *ForallViolationError) a failure carrying
// the individual values that violated a quantified check. Any other
// error means the expression itself could not be evaluated.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string, bindings map[string]any) (bool, error)
}

// ForallViolationError reports a failed universally quantified check
// together with every value that violated it.
type ForallViolationError struct {
	Expression    string
	FailingValues []string
}

func (e *ForallViolationError) Error() string {
	return fmt.Sprintf("forall violated by %d value(s): %s",
		len(e.FailingValues), strings.Join(e.FailingValues, ", "))
}

// Func adapts a plain function to the Evaluator interface. Useful for
// built-in checks and tests.
type Func func(ctx context.Context, expression string, bindings map[string]any) (bool, error)

func (f Func) Evaluate(ctx context.Context, expression string, bindings map[string]any) (bool, error) {
	return f(ctx, expression, bindings)
}
