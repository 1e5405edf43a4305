package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Wrote %s\n", r.configPath)
	r.writePlain("Edit [download] base_dir and tool, then run 'ytgrab --config %s <csv>'\n", r.configPath)
	return nil
}

// SetupDatabase initializes the history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty, history is disabled", shared.ErrMissingConfig)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("✓ History database ready at %s\n", r.config.Database.Path)
	return nil
}
