// Package repositories implements SQLite persistence for generation history.
//
// [RunRepository] stores one row per finished playlist generation, successful or not, and supports
// soft deletes via deleted_at timestamps that exclude deleted rows from queries.
//
// Sequence numbers provide stable, human-readable ordering (run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
