package evaluator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const checkFuncName = "Check"

// GoEvaluator interprets rule expressions written as Go source. The
// expression must declare a package clause and a Check function with one
// of two shapes:
//
//	func Check(bindings map[string]any) (bool, error)
//	func Check(bindings map[string]any) ([]string, error)
//
// The first reports pass/fail directly. The second reports the values
// that failed a quantified check; a non-empty slice becomes a
// ForallViolationError and an empty slice means pass.
//
// Each Evaluate call runs in a fresh interpreter so expressions cannot
// leak state into each other.
type GoEvaluator struct{}

// NewGoEvaluator creates an interpreter-backed evaluator.
func NewGoEvaluator() *GoEvaluator {
	return &GoEvaluator{}
}

// Evaluate interprets the expression and invokes its Check function with
// the bindings.
func (g *GoEvaluator) Evaluate(ctx context.Context, expression string, bindings map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return false, fmt.Errorf("evaluator: load stdlib symbols: %w", err)
	}

	if _, err := i.Eval(expression); err != nil {
		return false, fmt.Errorf("evaluator: interpret expression: %w", err)
	}

	fnValue, err := i.Eval(checkFuncName)
	if err != nil {
		return false, fmt.Errorf("evaluator: expression must define %s(map[string]any): %w", checkFuncName, err)
	}

	return invokeCheck(expression, fnValue, bindings)
}

// invokeCheck reflect-calls the interpreted Check function and translates
// its result into the evaluator outcome contract.
func invokeCheck(expression string, fn reflect.Value, bindings map[string]any) (bool, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return false, fmt.Errorf("evaluator: %s is not a function", checkFuncName)
	}

	if bindings == nil {
		bindings = map[string]any{}
	}
	results := fn.Call([]reflect.Value{reflect.ValueOf(bindings)})
	if len(results) != 2 {
		return false, fmt.Errorf("evaluator: %s must return (bool, error) or ([]string, error)", checkFuncName)
	}

	if !results[1].IsNil() {
		e, ok := results[1].Interface().(error)
		if !ok {
			return false, fmt.Errorf("evaluator: %s returned non-error second value", checkFuncName)
		}
		return false, e
	}

	switch v := results[0].Interface().(type) {
	case bool:
		return v, nil
	case []string:
		if len(v) == 0 {
			return true, nil
		}
		return false, &ForallViolationError{Expression: expression, FailingValues: v}
	}
	return false, fmt.Errorf("evaluator: %s returned %s, want bool or []string", checkFuncName, results[0].Type())
}
