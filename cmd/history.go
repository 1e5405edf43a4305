package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/repositories"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded downloads, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be at least 1, got %d", shared.ErrInvalidFlag, limit)
	}

	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	criteria := map[string]any{"limit": limit}
	if cmd.Bool("failed") {
		criteria["state"] = models.TaskFailed.String()
	}
	if run := cmd.String("run"); run != "" {
		runID, err := resolveRunID(repo, run)
		if err != nil {
			return err
		}
		criteria["run_id"] = runID
	}

	entries, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]models.HistoryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, e.View())
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No downloads recorded.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Download history (%d)", len(entries)))
	for _, e := range entries {
		rec := e.Record()
		r.writePlain("%-9s %s  %s\n", e.State(), e.CreatedAt().Format("2006-01-02 15:04"), rec.Label())
		switch {
		case e.ErrorText() != "":
			r.writePlain("          %s\n", e.ErrorText())
		case e.Path() != "":
			r.writePlain("          %s\n", e.Path())
		}
	}
	return nil
}

// HistoryClear soft-deletes every entry of a run.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	runID, err := resolveRunID(repo, cmd.String("run"))
	if err != nil {
		return err
	}

	n, err := repo.DeleteRun(runID)
	if err != nil {
		return err
	}
	r.logger.Info("cleared run", "run_id", runID, "entries", n)
	return r.writePlain("Removed %d entries from run %s\n", n, runID)
}

func (r *Runner) openHistory() (*repositories.HistoryRepository, func(), error) {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewHistoryRepository(db), func() { db.Close() }, nil
}

// resolveRunID maps "latest" to the most recent run and returns any other value unchanged.
func resolveRunID(repo *repositories.HistoryRepository, run string) (string, error) {
	if run != "latest" {
		return run, nil
	}
	return repo.LatestRunID()
}
