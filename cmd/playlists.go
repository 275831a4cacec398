package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/featx/internal/formatter"
	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/repositories"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/desertthunder/featx/internal/tasks"
	"github.com/desertthunder/featx/internal/ui"
	"github.com/urfave/cli/v3"
)

// playlistRun holds the resolved options of a playlists invocation.
type playlistRun struct {
	user     string
	pageSize int
	dir      string
	chart    bool
	csv      bool
	database string
}

func (r *Runner) playlistRunFor(cmd *cli.Command, cfg *shared.Config) (*playlistRun, error) {
	run := &playlistRun{
		user:     cfg.API.User,
		pageSize: cfg.API.PageSize,
		dir:      cfg.Output.Dir,
		chart:    cfg.Output.Chart && !cmd.Bool("no-chart"),
		csv:      cfg.Output.CSV || cmd.Bool("csv"),
		database: cfg.Output.Database,
	}

	if user := cmd.StringArg("user"); user != "" {
		run.user = user
	}
	if cmd.IsSet("page-size") {
		run.pageSize = cmd.Int("page-size")
	}
	if cmd.IsSet("out") {
		run.dir = cmd.String("out")
	}
	if cmd.IsSet("db") {
		run.database = cmd.String("db")
	}

	if run.user == "" {
		return nil, fmt.Errorf("%w: pass a user id or set api.user", shared.ErrMissingArgument)
	}
	if run.pageSize < 1 || run.pageSize > 50 {
		return nil, fmt.Errorf("%w: page size must be within 1..50, got %d", shared.ErrInvalidArgument, run.pageSize)
	}
	if run.dir == "" && (run.chart || run.csv) {
		return nil, fmt.Errorf("%w: output directory is required", shared.ErrMissingArgument)
	}
	return run, nil
}

// Playlists charts the aggregate audio features of every playlist of a user.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("verbose") {
		shared.SetVerbose(r.logger, true)
	}

	run, err := r.playlistRunFor(cmd, cfg)
	if err != nil {
		return err
	}

	catalog, err := r.catalogFor(ctx, cfg)
	if err != nil {
		return err
	}

	runID := shared.GenerateID()
	logger := shared.RunLogger(r.logger, runID)

	if run.chart || run.csv {
		if err := os.MkdirAll(run.dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	sink := &profileWriter{runner: r, run: run, logger: logger}
	if run.database != "" {
		db, err := shared.OpenExportDatabase(run.database, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := sink.attach(db, runID); err != nil {
			return err
		}
	}

	logger.Info("analyzing playlists", "user", run.user, "page_size", run.pageSize)

	progress := make(chan tasks.ProgressUpdate, 64)
	stop := r.watch(progress)

	opts := tasks.PlaylistOpts{RunID: runID, User: run.user, PageSize: run.pageSize}
	result, err := tasks.NewAnalyzer(catalog).AnalyzePlaylists(ctx, progress, opts, sink)
	stop()

	if err != nil {
		if result != nil && len(result.Playlists) > 0 {
			r.writePlainln("%s", ui.RenderRunSummary(result))
		}
		return err
	}

	if run.csv {
		path := filepath.Join(run.dir, formatter.ProfilesFile)
		if err := formatter.WriteProfilesCSV(path, result.Playlists); err != nil {
			return err
		}
		logger.Info("wrote profiles", "path", path)
	}

	for _, pl := range result.Playlists {
		for _, f := range pl.Failures {
			logger.Debug("track skipped", "playlist", pl.Playlist.Name, "track", f.TrackID, "error", f.Err)
		}
	}

	return r.writePlainln("%s", ui.RenderRunSummary(result))
}

// profileWriter presents each profiled playlist: chart, dataset, export rows, then a terminal summary.
type profileWriter struct {
	runner *Runner
	run    *playlistRun
	logger *log.Logger
	store  *repositories.ExportStore
	runID  string
}

func (w *profileWriter) attach(db *sql.DB, runID string) error {
	store := repositories.NewExportStore(db)
	if err := store.CreateRun(runID, repositories.VariantPlaylists, w.run.user, w.runner.now()); err != nil {
		return err
	}
	w.store = store
	w.runID = runID
	return nil
}

func (w *profileWriter) Profile(ctx context.Context, result *tasks.PlaylistResult) error {
	pl := result.Playlist
	title := fmt.Sprintf("%s (%d tracks)", pl.Name, len(result.Rows))

	if w.run.chart {
		path := formatter.ChartPath(w.run.dir, result.Position, pl.Name)
		if err := formatter.RenderRadarChart(path, title, models.FeatureNames[:], result.Mean.Slice()); err != nil {
			return err
		}
		w.logger.Debug("wrote chart", "path", path)
	}

	if w.run.csv {
		path := formatter.DatasetPath(w.run.dir, result.Position, pl.Name)
		if err := formatter.WritePlaylistCSV(path, result.Rows); err != nil {
			return err
		}
		w.logger.Debug("wrote dataset", "path", path)
	}

	if w.store != nil {
		if err := w.store.SavePlaylist(w.runID, result); err != nil {
			return err
		}
	}

	return w.runner.writePlainln("%s", ui.RenderProfile(title, models.FeatureNames[:], result.Mean.Slice()))
}
