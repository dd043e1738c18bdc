// Package evaluator defines the rule expression execution seam.
//
// The validation pipeline is agnostic to how expressions run; it only
// depends on the Evaluator interface and its three-way outcome contract
// (pass, fail, fail-with-values). GoEvaluator interprets expressions
// written as Go source; Func adapts built-in checks.
package evaluator
