// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.1.0"

// rootCommand downloads the tracks listed in a CSV file; subcommands manage history and setup.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "ytgrab",
		Usage:     "Download the tracks of a playlist export as audio files",
		Version:   version,
		ArgsUsage: "<csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Download every track without asking for confirmation",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Maximum number of concurrent downloads",
				Value:   4,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base directory for downloads (overrides download.base_dir)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print one line per task instead of animated progress bars",
			},
			&cli.BoolFlag{
				Name:  "no-tag",
				Usage: "Skip writing ID3 tags",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a run report to this path",
			},
			&cli.StringFlag{
				Name:  "report-format",
				Usage: "Report format: json, csv, markdown or txt (default: from the report extension)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Configure,
		Action:   r.Download,
		Commands: r.register(),
	}
}

// historyCommand inspects recorded downloads
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded downloads",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded downloads, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to show",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "failed",
						Usage: "Only show failed downloads",
					},
					&cli.StringFlag{
						Name:  "run",
						Usage: "Only show entries from this run ID (\"latest\" for the most recent run)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "clear",
				Usage: "Remove every entry of a run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "run",
						Usage:    "Run ID to remove (\"latest\" for the most recent run)",
						Required: true,
					},
				},
				Action: r.HistoryClear,
			},
		},
	}
}

// setupCommand writes the example config and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}
