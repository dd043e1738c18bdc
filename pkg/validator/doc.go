// Package validator implements the phased validation pipeline: file
// discovery with gitignore-style filtering, the bridge that turns rule
// evaluation outcomes into violations, and result aggregation.
//
// # Flow
//
// Validate(ctx, path) discovers the file set, runs the fixed phase order
// (sanitization, compliance, enforcement, remediation), and aggregates
// violations into a ValidationResult. Only the compliance phase invokes
// rule evaluation; the other phases forward the file list unchanged.
// Files are processed in fixed-size batches to bound work between
// progress checkpoints. Rule and file local failures become violations;
// Validate only errors for an unusable target.
//
// The expression evaluator sits behind the evaluator.Evaluator seam, and
// tracing and metrics attach through the Tracer and Recorder interfaces.
package validator
