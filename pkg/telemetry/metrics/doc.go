// Package metrics provides Prometheus instrumentation for the engine:
// validation pass outcomes and the component loader cache. Metric names
// follow <namespace>_<subsystem>_<name> from the metrics configuration.
package metrics
