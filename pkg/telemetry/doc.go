// Package telemetry groups the engine's observability concerns.
//
// # Components
//
//   - logging: structured logging on log/slog with validation-scoped
//     context fields
//   - metrics: Prometheus metric families for validation passes and the
//     component cache, plus the exposition handler
//
// Components are constructed explicitly and injected where needed; the
// engine packages only depend on *slog.Logger and the small recorder
// seams, never on this package directly.
package telemetry
