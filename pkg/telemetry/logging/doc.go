// Package logging provides structured logging on top of log/slog with
// level and format parsing and validation-scoped context fields
// (session id, target, rule id).
package logging
