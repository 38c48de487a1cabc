// Package history provides SQLite-backed storage for scatter report runs.
//
// Each successful true-vs-pred report can be appended as a Run so that
// accuracy can be compared across training iterations. The table is
// append-only and ordered by its autoincrement seq column; created_at is
// informational and never used for ordering.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for a concurrent writer instead of failing
package history
