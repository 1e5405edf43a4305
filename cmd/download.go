package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/audio"
	"github.com/desertthunder/ytgrab/internal/formatter"
	"github.com/desertthunder/ytgrab/internal/library"
	"github.com/desertthunder/ytgrab/internal/repositories"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/desertthunder/ytgrab/internal/tasks"
	"github.com/desertthunder/ytgrab/internal/ui"
	"github.com/desertthunder/ytgrab/internal/ytdlp"
	"github.com/urfave/cli/v3"
)

// Download loads the CSV named by the first argument and downloads every confirmed track.
//
// Per-track failures end up in the summary and the optional report; the returned error is
// reserved for problems that stop the run from starting, and for interruption.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	dl := r.config.Download

	jobs := dl.Jobs
	if cmd.IsSet("jobs") {
		jobs = int(cmd.Int("jobs"))
	}
	if jobs < 1 {
		return fmt.Errorf("%w: --jobs must be at least 1, got %d", shared.ErrInvalidFlag, jobs)
	}

	reportPath := cmd.String("report")
	reportFormat := cmd.String("report-format")
	if reportPath != "" {
		if _, err := formatter.ReportFormat(reportFormat, reportPath); err != nil {
			return err
		}
	}

	autoConfirm := cmd.Bool("all")
	prompter := ui.NewPrompter(r.input, r.output)

	csvPath, err := r.csvPath(cmd.Args().First(), prompter)
	if err != nil {
		return err
	}

	records, err := formatter.LoadRecords(csvPath, r.logger)
	if err != nil {
		return err
	}
	r.logger.Info("loaded records", "path", csvPath, "count", len(records))

	ext, err := dl.Extension()
	if err != nil {
		return err
	}

	base := dl.BaseDir
	if out := cmd.String("output"); out != "" {
		base = out
	}

	logger := r.logger
	var mp *ui.MultiProgress
	var display tasks.Display = ui.NewPlainDisplay(r.output)
	if term, ok := r.terminal(); ok && ui.UseMultiProgress(term, autoConfirm, cmd.Bool("plain")) {
		mp = ui.NewMultiProgress(r.output)
		display = mp
		if r.config.Log.File == "" {
			logger = progressLogger(r.logger, mp)
		}
	}

	client := ytdlp.NewClient(ytdlp.Options{
		Tool:          dl.Tool,
		SearchResults: dl.SearchResults,
		AudioFormat:   dl.AudioFormat,
		AudioQuality:  dl.AudioQuality,
		PollInterval:  dl.PollInterval(),
		SearchRate:    dl.SearchRate,
		Logger:        logger,
	})
	if v, err := client.Version(ctx); err != nil {
		r.logger.Warn("yt-dlp is not available, downloads will fail", "tool", client.Tool(), "error", err)
	} else {
		r.logger.Debug("using yt-dlp", "tool", client.Tool(), "version", v)
	}

	opts := tasks.SchedulerOpts{
		Jobs:     jobs,
		Resolver: client,
		Fetcher:  client,
		Paths:    library.NewLayout(base, ext),
		Display:  display,
		Logger:   logger,
		Step:     dl.ProgressStep,
		Ceiling:  dl.ProgressCeiling,
	}
	if !autoConfirm {
		opts.Confirm = prompter
	}
	if dl.Tag && !cmd.Bool("no-tag") {
		opts.Tagger = audio.NewTagger()
	}

	if r.config.Database.Path != "" {
		db, err := shared.OpenHistory(r.config.Database)
		if err != nil {
			r.logger.Warn("history disabled", "error", err)
		} else {
			defer db.Close()
			opts.Recorder = repositories.NewHistoryRecorder(repositories.NewHistoryRepository(db))
		}
	}

	scheduler, err := tasks.NewScheduler(opts)
	if err != nil {
		return err
	}

	if mp != nil {
		mp.Start()
	}
	result, runErr := scheduler.Run(ctx, records)
	if mp != nil {
		if err := mp.Stop(); err != nil {
			r.logger.Warn("progress display stopped with an error", "error", err)
		}
	}

	r.writePlain("\n")
	ui.RenderSummary(r.output, result)

	if reportPath != "" {
		format, err := formatter.WriteRunReport(result, reportFormat, reportPath)
		if err != nil {
			return err
		}
		r.logger.Info("wrote run report", "path", reportPath, "format", format)
	}
	return runErr
}

// csvPath returns arg when it names an existing file and otherwise asks for a path once.
func (r *Runner) csvPath(arg string, prompter *ui.Prompter) (string, error) {
	if arg != "" {
		if _, err := os.Stat(arg); err == nil {
			return arg, nil
		}
	}

	answer, err := prompter.Ask("CSV not found. Please enter path to CSV: ")
	if err != nil {
		return "", fmt.Errorf("%w: no CSV path given: %v", shared.ErrMissingArgument, err)
	}
	if answer == "" {
		return "", fmt.Errorf("%w: no CSV path given", shared.ErrMissingArgument)
	}
	return answer, nil
}

// progressLogger mirrors base but prints above the progress bars.
func progressLogger(base *log.Logger, mp *ui.MultiProgress) *log.Logger {
	logger := shared.NewLogger(mp.Writer())
	logger.SetLevel(base.GetLevel())
	return logger
}
