package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/featx/internal/formatter"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/desertthunder/featx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Features prints the joined metadata and audio features of the given track ids.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one track id is required", shared.ErrMissingArgument)
	}

	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	catalog, err := r.catalogFor(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := tasks.NewAnalyzer(catalog).JoinTracks(ctx, ids)
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		r.logger.Warn("track skipped", "track", f.TrackID, "error", f.Err)
	}
	for _, id := range result.MissingFeatures {
		r.logger.Warn("no audio features", "track", id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Rows, cmd.Bool("pretty"))
	}

	data, err := formatter.PlaylistToCSV(result.Rows)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
