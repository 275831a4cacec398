// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every progress update",
	}
}

// setupCommand prepares the configuration file and the export database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configuration and export database setup",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create config.toml from the embedded example",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the export database and apply migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "db",
						Usage: "SQLite export database (defaults to output.database)",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// playlistsCommand profiles every playlist of a user
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlists",
		Usage:     "Chart the mean audio features of every public playlist of a user",
		ArgsUsage: "[USER]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "user",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Playlists requested per page (1-50)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for charts and CSV files",
			},
			&cli.BoolFlag{
				Name:  "no-chart",
				Usage: "Skip radar chart rendering",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Write the joined dataset of every playlist and profiles.csv",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite export database",
			},
		},
		Action: r.Playlists,
	}
}

// historyCommand joins a streaming history export with the library export
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Join streaming history with the library and export genres",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.StringSliceFlag{
				Name:     "history",
				Usage:    "StreamingHistory*.json file (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "library",
				Usage:    "YourLibrary.json file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory for the CSV files",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite export database",
			},
		},
		Action: r.History,
	}
}

// featuresCommand prints the joined rows of individual tracks
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "features",
		Usage:     "Print metadata and audio features of tracks",
		ArgsUsage: "ID...",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON instead of CSV",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Features,
	}
}
