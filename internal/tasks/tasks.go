package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/library"
	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Resolver turns a search query into a media identifier.
type Resolver interface {
	Resolve(ctx context.Context, query string) (models.ResolvedMedia, error)
}

// Fetcher downloads url into outTemplate (a path without extension), calling tick while it runs.
type Fetcher interface {
	Fetch(ctx context.Context, url, outTemplate string, tick func()) error
}

// PathPolicy maps a record to its destination file and ensures the parent directory exists.
type PathPolicy interface {
	TrackPath(artist, album, track string) (string, error)
}

// Confirmer gates each record before dispatch. A false return declines the record.
type Confirmer interface {
	Confirm(record models.DownloadRecord) bool
}

// Tagger writes metadata into a completed download.
type Tagger interface {
	Tag(path string, record models.DownloadRecord) error
}

// Recorder persists terminal task outcomes. It must be safe for concurrent use.
type Recorder interface {
	Record(runID string, result models.TaskResult) error
}

// SchedulerOpts configures a [Scheduler].
type SchedulerOpts struct {
	Jobs     int // Concurrency limit, must be at least 1
	Resolver Resolver
	Fetcher  Fetcher
	Paths    PathPolicy
	Display  Display   // Progress sink (default: NopDisplay)
	Confirm  Confirmer // Optional interactive gate; nil confirms everything
	Tagger   Tagger    // Optional, runs on Completed tasks
	Recorder Recorder  // Optional, runs on every terminal task
	Logger   *log.Logger
	Step     int    // Estimator increment (default: 2)
	Ceiling  int    // Estimator cap (default: 90)
	RunID    string // Run identifier (default: generated)

	// Query builds the search string for a record (default: library.CleanQuery).
	Query func(track, artist string) string
}

// RunResult summarizes a finished run. Results are in dispatch order.
type RunResult struct {
	RunID     string              `json:"run_id"`
	Results   []models.TaskResult `json:"results"`
	Total     int                 `json:"total"`
	Ignored   int                 `json:"ignored"`
	Declined  int                 `json:"declined"`
	Completed int                 `json:"completed"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
}

// Dispatched is the number of records that became tasks.
func (r *RunResult) Dispatched() int {
	return len(r.Results)
}

// Failures returns the failed task results.
func (r *RunResult) Failures() []models.TaskResult {
	var failed []models.TaskResult
	for _, res := range r.Results {
		if res.State == models.TaskFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *RunResult) add(res models.TaskResult) {
	r.Results = append(r.Results, res)
	switch res.State {
	case models.TaskCompleted:
		r.Completed++
	case models.TaskSkipped:
		r.Skipped++
	case models.TaskFailed:
		r.Failed++
	}
}

// Scheduler runs download tasks with bounded concurrency.
type Scheduler struct {
	jobs     int
	resolver Resolver
	fetcher  Fetcher
	paths    PathPolicy
	query    func(track, artist string) string
	display  Display
	confirm  Confirmer
	tagger   Tagger
	recorder Recorder
	logger   *log.Logger
	step     int
	ceiling  int
	runID    string
}

// NewScheduler validates opts and creates a [Scheduler].
func NewScheduler(opts SchedulerOpts) (*Scheduler, error) {
	if opts.Jobs < 1 {
		return nil, fmt.Errorf("%w: jobs must be at least 1, got %d", shared.ErrInvalidArgument, opts.Jobs)
	}
	if opts.Resolver == nil || opts.Fetcher == nil || opts.Paths == nil {
		return nil, fmt.Errorf("%w: resolver, fetcher and path policy are required", shared.ErrMissingArgument)
	}
	if opts.Query == nil {
		opts.Query = library.CleanQuery
	}
	if opts.Display == nil {
		opts.Display = NopDisplay{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RunID == "" {
		opts.RunID = shared.GenerateID()
	}

	return &Scheduler{
		jobs:     opts.Jobs,
		resolver: opts.Resolver,
		fetcher:  opts.Fetcher,
		paths:    opts.Paths,
		query:    opts.Query,
		display:  opts.Display,
		confirm:  opts.Confirm,
		tagger:   opts.Tagger,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		step:     opts.Step,
		ceiling:  opts.Ceiling,
		runID:    opts.RunID,
	}, nil
}

// RunID returns the identifier attached to every result of this scheduler.
func (s *Scheduler) RunID() string {
	return s.runID
}

// Run dispatches every valid, confirmed record and waits for all tasks to finish.
//
// Task failures are reported in the result, never as the returned error. The error is non-nil
// only when ctx ends the run early; the partial result is returned alongside it.
func (s *Scheduler) Run(ctx context.Context, records []models.DownloadRecord) (*RunResult, error) {
	result := &RunResult{RunID: s.runID, Total: len(records)}
	slots := make([]models.TaskResult, len(records))
	dispatched := make([]bool, len(records))

	var g errgroup.Group
	g.SetLimit(s.jobs)

	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		if !rec.Dispatchable() {
			result.Ignored++
			s.logger.Debug("ignoring record without track or artist", "row", i+1)
			continue
		}
		if s.confirm != nil && !s.confirm.Confirm(rec) {
			result.Declined++
			continue
		}

		dispatched[i] = true
		g.Go(func() error {
			slots[i] = s.runTask(ctx, rec)
			return nil
		})
	}

	_ = g.Wait()

	for i, ok := range dispatched {
		if ok {
			result.add(slots[i])
		}
	}

	s.logger.Info("run finished",
		"run", s.runID,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"ignored", result.Ignored,
		"declined", result.Declined,
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// runTask takes one record to a terminal state. It holds a permit for its whole lifetime.
func (s *Scheduler) runTask(ctx context.Context, rec models.DownloadRecord) models.TaskResult {
	res := models.TaskResult{
		ID:        shared.GenerateID(),
		Record:    rec,
		State:     models.TaskPending,
		StartedAt: time.Now(),
	}

	label := rec.Label()
	handle := s.display.Add(label)
	est := NewEstimator(handle, s.step, s.ceiling)

	if err := s.download(ctx, &res, est); err != nil {
		res.State = models.TaskFailed
		res.Err = err
		s.logger.Error("download failed", "artist", rec.Artist, "track", rec.Track, "err", err)
	}
	res.FinishedAt = time.Now()

	handle.Finish("Done: " + label)

	if s.recorder != nil {
		if err := s.recorder.Record(s.runID, res); err != nil {
			s.logger.Warn("failed to record history", "artist", rec.Artist, "track", rec.Track, "err", err)
		}
	}
	return res
}

// download runs the skip check, resolve and fetch phases, updating res as it goes.
func (s *Scheduler) download(ctx context.Context, res *models.TaskResult, est *Estimator) error {
	rec := res.Record

	path, err := s.paths.TrackPath(rec.Artist, rec.Album, rec.Track)
	res.Path = path
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		est.Complete()
		res.State = models.TaskSkipped
		s.logger.Info("skipping, already downloaded", "track", rec.Track, "path", path)
		return nil
	}

	res.State = models.TaskResolving
	media, err := s.resolver.Resolve(ctx, s.query(rec.Track, rec.Artist))
	if err != nil {
		return err
	}
	res.MediaID = media.ID
	s.logger.Info("found", "track", rec.Track, "url", media.URL())

	res.State = models.TaskFetching
	if err := s.fetcher.Fetch(ctx, media.URL(), library.OutputTemplate(path), est.Tick); err != nil {
		return err
	}
	est.Complete()
	res.State = models.TaskCompleted

	if s.tagger != nil {
		if err := s.tagger.Tag(path, rec); err != nil {
			s.logger.Warn("failed to tag download", "path", path, "err", err)
		}
	}
	return nil
}
