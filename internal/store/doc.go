// Package store provides a SQLite-backed run log for zonedbm evaluations.
//
// The log is append-only and records, per run:
//   - Runs: the run ID and where its script came from
//   - Events: the step trace, one row per engine.Event
//   - Zones: the consistency and fingerprint of every evaluated zone
//
// Zones themselves are never stored. A fingerprint identifies a constraint
// set but cannot be turned back into a zone; rerun the script to get one.
//
// # Ordering
//
// All ordering uses logical values, never timestamps: events by seq, zones
// by evaluation position and runs by ID (run IDs are UUIDv7, so binary
// order follows creation order).
//
// # Connection settings
//
// Set through the go-sqlite3 DSN so they hold on every connection:
//
//   - journal_mode=WAL: trace can read while eval writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait up to 5 seconds for a lock
//   - foreign_keys=1: events and zones must belong to a run
//   - txlock=immediate: write transactions lock on BEGIN
package store
