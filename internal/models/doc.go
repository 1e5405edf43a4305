// Package models defines the domain types for the ytgrab download orchestrator.
//
// The package contains two categories of types:
//
// 1. Run-time values: immutable inputs and per-task outcomes
//   - [DownloadRecord] : one (track, artist, album) row from the input list
//   - [ResolvedMedia] : the media identifier produced by a search
//   - [TaskState] : the lifecycle of a single task
//   - [TaskResult] : the terminal outcome of a task
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [HistoryEntry] : a recorded [TaskResult] with run membership and soft delete support
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
