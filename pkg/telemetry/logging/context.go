package logging

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	targetKey    contextKey = "target"
	ruleIDKey    contextKey = "rule_id"
)

// WithSessionID attaches a validation session id to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithTarget attaches the validation target path to the context.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, targetKey, target)
}

// WithRuleID attaches the rule currently being evaluated to the context.
func WithRuleID(ctx context.Context, ruleID string) context.Context {
	return context.WithValue(ctx, ruleIDKey, ruleID)
}

// SessionIDFrom extracts the session id, if present.
func SessionIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}

// extractContextFields collects the known validation fields from the
// context as alternating key/value log args.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		fields = append(fields, "session_id", v)
	}
	if v, ok := ctx.Value(targetKey).(string); ok && v != "" {
		fields = append(fields, "target", v)
	}
	if v, ok := ctx.Value(ruleIDKey).(string); ok && v != "" {
		fields = append(fields, "rule_id", v)
	}
	return fields
}
