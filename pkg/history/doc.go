// Package history persists validation runs so past passes stay
// queryable: totals, compliance scores, and the violations each run
// found. The SQLite store is the durable implementation; the memory
// store backs tests and disabled-history setups.
package history
