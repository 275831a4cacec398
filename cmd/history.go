package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/featx/internal/formatter"
	"github.com/desertthunder/featx/internal/repositories"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/desertthunder/featx/internal/tasks"
	"github.com/desertthunder/featx/internal/ui"
	"github.com/urfave/cli/v3"
)

// History joins streaming history exports with the library export and writes the event and genre tables.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("verbose") {
		shared.SetVerbose(r.logger, true)
	}

	dir := cfg.Output.Dir
	if cmd.IsSet("out") {
		dir = cmd.String("out")
	}
	if dir == "" {
		return fmt.Errorf("%w: output directory is required", shared.ErrMissingArgument)
	}
	database := cfg.Output.Database
	if cmd.IsSet("db") {
		database = cmd.String("db")
	}

	libraryPath := cmd.String("library")
	events, err := formatter.ReadStreamingHistory(cmd.StringSlice("history")...)
	if err != nil {
		return err
	}
	library, err := formatter.ReadLibrary(libraryPath)
	if err != nil {
		return err
	}
	r.logger.Info("loaded account export", "events", len(events), "library", len(library))

	catalog, err := r.catalogFor(ctx, cfg)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	stop := r.watch(progress)

	result, err := tasks.NewAnalyzer(catalog).AnalyzeHistory(ctx, progress, events, library)
	stop()
	if err != nil {
		return err
	}

	logger := shared.RunLogger(r.logger, result.ID)
	for _, f := range result.Failures {
		logger.Debug("genres unavailable", "track", f.TrackID, "error", f.Err)
	}

	files, err := formatter.WriteHistoryExport(dir, result)
	if err != nil {
		return err
	}
	logger.Info("wrote history export", "events", files.HistoryFile, "genres", files.GenresFile)

	if database != "" {
		if err := r.saveHistory(result, libraryPath, database, cfg.Database); err != nil {
			return err
		}
		logger.Info("saved run", "database", database)
	}

	return r.writePlainln("%s", ui.RenderHistorySummary(result))
}

func (r *Runner) saveHistory(result *tasks.HistoryResult, libraryPath, path string, cfg shared.DatabaseConfig) error {
	db, err := shared.OpenExportDatabase(path, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store := repositories.NewExportStore(db)
	if err := store.CreateRun(result.ID, repositories.VariantHistory, libraryPath, r.now()); err != nil {
		return err
	}
	return store.SaveHistory(result.ID, result)
}
