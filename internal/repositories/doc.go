// Package repositories implements SQLite persistence for download history.
//
// [HistoryRepository] implements models.Repository[*models.HistoryEntry] with atomic sequence
// generation for stable ordering and soft deletes via deleted_at timestamps. Deleted rows are
// excluded from queries.
//
// [HistoryRecorder] adapts the repository to the scheduler's recorder interface so each
// terminal task becomes one row.
//
// History is informational. The skip check only looks at the filesystem, so deleting the
// database never causes tracks to be downloaded again.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
