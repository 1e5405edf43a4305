package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/urfave/cli/v3"
)

// Configure loads the file named by --config over the embedded defaults and applies the log
// settings. A missing file is not an error.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	found := false
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		found = true
	}

	if r.config.Log.File != "" {
		logger, err := shared.NewFileLogger(r.config.Log.File)
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if found {
		r.logger.Debug("loaded config", "path", path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}
	return ctx, nil
}
