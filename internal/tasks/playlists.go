package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/samber/lo"
)

// AnalyzePlaylists profiles every playlist of opts.User, page by page in cursor order.
//
// Page fetch errors abort the run and return the partial result. Playlists that fail or have
// no joined rows are recorded as skipped; the rest are handed to sink, whose errors also abort.
func (a *Analyzer) AnalyzePlaylists(ctx context.Context, progress chan<- ProgressUpdate, opts PlaylistOpts, sink ProfileSink) (*RunResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	if opts.User == "" {
		return nil, fmt.Errorf("%w: user is required", shared.ErrMissingArgument)
	}

	if opts.RunID == "" {
		opts.RunID = shared.GenerateID()
	}
	result := &RunResult{ID: opts.RunID, User: opts.User}

	for page, err := range Pages(ctx, a.catalog, opts.User, opts.PageSize) {
		if err != nil {
			return result, fmt.Errorf("failed to fetch playlist page %d: %w", result.Pages+1, err)
		}

		result.Pages++
		a.sendProgress(progress, fetchPageUpdate(page))

		for i, pl := range page.Items {
			position := page.Offset + i + 1
			a.sendProgress(progress, playlistUpdate(position, page.Total, pl))

			pr, err := a.analyzePlaylist(ctx, progress, pl)
			if err != nil {
				return result, err
			}
			pr.Position = position

			if !pr.OK() {
				result.Skipped++
				a.sendProgress(progress, skipPlaylistUpdate(position, page.Total, pr))
			} else {
				result.Analyzed++
				if sink != nil {
					if err := sink.Profile(ctx, pr); err != nil {
						return result, fmt.Errorf("failed to present playlist %s: %w", pl.Name, err)
					}
				}
			}

			result.Playlists = append(result.Playlists, *pr)
		}
	}

	return result, nil
}

// AnalyzePlaylist profiles a single playlist.
func (a *Analyzer) AnalyzePlaylist(ctx context.Context, pl models.PlaylistSummary) (*PlaylistResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return a.analyzePlaylist(ctx, nil, pl)
}

// analyzePlaylist only returns an error when ctx is done; every other failure is recorded on the result.
func (a *Analyzer) analyzePlaylist(ctx context.Context, progress chan<- ProgressUpdate, pl models.PlaylistSummary) (*PlaylistResult, error) {
	result := &PlaylistResult{Playlist: pl}

	ids, err := a.catalog.PlaylistTrackIDs(ctx, pl.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.Skipped = fmt.Errorf("%w: %s: %v", shared.ErrPlaylistFetch, pl.ID, err)
		return result, nil
	}

	// Local and unavailable tracks carry no identifier and are left out without a failure.
	resolvable := lo.Compact(ids)
	result.DroppedIDs = len(ids) - len(resolvable)

	tracks, err := a.fetchTracks(ctx, progress, resolvable, result)
	if err != nil {
		return nil, err
	}

	result.Rows, err = a.joinFeatures(ctx, progress, resolvable, tracks, result)
	if err != nil {
		return nil, err
	}
	if result.Skipped != nil {
		return result, nil
	}
	if len(result.Rows) == 0 {
		result.Skipped = fmt.Errorf("%w: playlist %s has no tracks with audio features", shared.ErrEmptyDataset, pl.Name)
		return result, nil
	}

	result.Scaled = MinMaxScale(Vectors(result.Rows))
	result.Mean, err = ColumnMeans(result.Scaled)
	if err != nil {
		result.Skipped = err
	}
	return result, nil
}

// JoinTracks builds the joined dataset of arbitrary track identifiers without scaling it.
func (a *Analyzer) JoinTracks(ctx context.Context, ids []string) (*PlaylistResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	result := &PlaylistResult{}
	resolvable := lo.Compact(ids)
	result.DroppedIDs = len(ids) - len(resolvable)

	tracks, err := a.fetchTracks(ctx, nil, resolvable, result)
	if err != nil {
		return nil, err
	}
	if result.Rows, err = a.joinFeatures(ctx, nil, resolvable, tracks, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) fetchTracks(ctx context.Context, progress chan<- ProgressUpdate, ids []string, result *PlaylistResult) ([]models.TrackRecord, error) {
	tracks := make([]models.TrackRecord, 0, len(ids))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.sendProgress(progress, fetchTrackUpdate(i+1, len(ids), id))

		meta, err := a.catalog.TrackMetadata(ctx, id)
		if err != nil {
			result.Failures = append(result.Failures, TrackFailure{
				TrackID: id,
				Err:     fmt.Errorf("%w: %s: %v", shared.ErrTrackFetch, id, err),
			})
			continue
		}

		record, err := models.NewTrackRecord(*meta)
		if err != nil {
			result.Failures = append(result.Failures, TrackFailure{
				TrackID: id,
				Err:     fmt.Errorf("%w: %w", shared.ErrTrackFetch, err),
			})
			continue
		}
		tracks = append(tracks, record)
	}

	return tracks, nil
}

// joinFeatures requests features for every resolvable identifier, in playlist order, and joins them to tracks.
func (a *Analyzer) joinFeatures(ctx context.Context, progress chan<- ProgressUpdate, ids []string, tracks []models.TrackRecord, result *PlaylistResult) ([]models.JoinedTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	a.sendProgress(progress, fetchFeaturesUpdate(len(ids)))

	features, err := a.catalog.AudioFeatures(ctx, ids)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.Skipped = fmt.Errorf("%w: audio features for %s: %v", shared.ErrPlaylistFetch, result.Playlist.ID, err)
		return nil, nil
	}

	for i, id := range ids {
		if i >= len(features) || features[i] == nil {
			result.MissingFeatures = append(result.MissingFeatures, id)
		}
	}

	return JoinFeatures(tracks, features), nil
}
