// Package loader provides lazy, cached loading of framework components
// (philosophies, rules, rulesets) by component id.
//
// Component ids resolve to files under the component root by naming
// convention: akao:rule::structure:naming:v1 maps to
// rules/structure/naming/v1.yaml. Loaded components are cached with a
// TTL (default 30 minutes); ClearExpiredCache evicts stale entries and
// ScanForChanges reloads components whose backing file changed since
// load. Change detection is pull-based. A ChangeWatcher can drive the
// scan from filesystem events, and a MaintenanceScheduler can run both
// eviction and scanning on a cron schedule.
package loader
