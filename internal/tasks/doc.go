// Package tasks runs a track list through the resolve-then-fetch download pipeline.
//
// # Scheduling
//
// [Scheduler.Run] walks the records in input order. Records without a track or artist are
// ignored, and records the optional [Confirmer] rejects are declined. Neither consumes a permit.
// Every other record becomes a task that runs in its own goroutine.
//
// The permit pool is an [errgroup.Group] limited to the configured job count. Dispatch blocks
// while the pool is full, so at most N tasks are between permit acquisition and their terminal
// state at any moment. Run returns after every dispatched task has finished.
//
// # Task lifecycle
//
//	Pending → Resolving → Fetching → Completed
//	   │           │           └────→ Failed
//	   │           └────────────────→ Failed
//	   └────────────────────────────→ Skipped (destination already exists)
//
// A task error is logged with the record's artist and track and stored in its [models.TaskResult].
// It never reaches sibling tasks or the caller. Completed, Skipped and Failed tasks are all
// finalized on the [Display] as "Done: <artist> - <track>", so logs remain the authoritative
// outcome.
//
// # Progress
//
// The fetch tool reports nothing useful while it runs. [Estimator] advances a heuristic
// position on every poll tick, capped below 100, and snaps to 100 only after a successful exit.
//
// # Collaborators
//
// Searching and downloading are behind [Resolver] and [Fetcher] (implemented by ytdlp.Client),
// destination paths behind [PathPolicy] (library.Layout). [Tagger] and [Recorder] are optional
// post-processing steps; their failures are logged and ignored.
package tasks
