// Package trace enriches violations with diagnostic provenance: trace
// ids, call and rule chains, context variables, canned root-cause
// classification, and relation discovery across stored traces.
//
// Traces group into session-scoped collections bracketed by
// StartCollection/EndCollection; at most one collection is active at a
// time. TraceViolation is a no-op returning an empty id when tracing is
// disabled. Traces and finalized collections optionally persist as YAML
// under the configured output directory, and the whole trace store can
// be exported as YAML or CSV.
package trace
