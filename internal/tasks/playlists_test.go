package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	tu "github.com/desertthunder/featx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPlaylistCatalog serves three playlists:
//   - p1 "First": t1, t2 and a local track
//   - p2 "Second": t3 (metadata fails) and t4 (no audio features)
//   - p3 "Third": t1 only
func newPlaylistCatalog() *tu.MockCatalog {
	catalog := tu.NewMockCatalog()

	catalog.AddTrack(
		models.TrackMetadata{ID: "t1", Album: "A1", Name: "One", Artists: []string{"Alpha", "Beta"}, Popularity: 50},
		&models.AudioFeatures{Danceability: 0.2, Energy: 0.2, Tempo: 100, DurationMS: 180000},
	)
	catalog.AddTrack(
		models.TrackMetadata{ID: "t2", Album: "A2", Name: "Two", Artists: []string{"Gamma"}, Explicit: true, Popularity: 80},
		&models.AudioFeatures{Danceability: 0.8, Energy: 0.8, Tempo: 200, DurationMS: 240000},
	)
	catalog.AddTrack(
		models.TrackMetadata{ID: "t3", Name: "Three"},
		&models.AudioFeatures{Energy: 0.5},
	)
	catalog.AddTrack(models.TrackMetadata{ID: "t4", Name: "Four", Popularity: 10}, nil)
	catalog.TrackErrs["t3"] = errors.New("boom")

	catalog.AddPlaylist("p1", "First", "t1", "t2", "")
	catalog.AddPlaylist("p2", "Second", "t3", "t4")
	catalog.AddPlaylist("p3", "Third", "t1")

	return catalog
}

func collect(progress chan ProgressUpdate) []ProgressUpdate {
	close(progress)
	var updates []ProgressUpdate
	for u := range progress {
		updates = append(updates, u)
	}
	return updates
}

func TestAnalyzer_AnalyzePlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("Pages Through Every Playlist", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		analyzer := NewAnalyzer(catalog)
		progress := make(chan ProgressUpdate, 100)

		var presented []string
		sink := ProfileSinkFunc(func(ctx context.Context, r *PlaylistResult) error {
			presented = append(presented, r.Playlist.ID)
			return nil
		})

		result, err := analyzer.AnalyzePlaylists(ctx, progress, PlaylistOpts{User: "u1", PageSize: 2}, sink)
		require.NoError(t, err)

		assert.NotEmpty(t, result.ID)
		assert.Equal(t, 2, result.Pages)
		assert.Equal(t, 2, result.Analyzed)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, []string{"p1", "p3"}, presented)
		require.Len(t, result.Playlists, 3)

		positions := []int{result.Playlists[0].Position, result.Playlists[1].Position, result.Playlists[2].Position}
		assert.Equal(t, []int{1, 2, 3}, positions)

		var lines []string
		for _, u := range collect(progress) {
			if u.Phase == ProcessPlaylist {
				lines = append(lines, u.Message)
			}
		}
		assert.Equal(t, []string{
			"   1 spotify:playlist:p1 First",
			"   2 spotify:playlist:p2 Second",
			"   3 spotify:playlist:p3 Third",
		}, lines)
	})

	t.Run("Profile Of A Playlist", func(t *testing.T) {
		result, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 8}, nil)
		require.NoError(t, err)

		first := result.Playlists[0]
		require.True(t, first.OK())
		assert.Equal(t, 1, first.DroppedIDs)
		require.Len(t, first.Rows, 2)
		assert.LessOrEqual(t, len(first.Rows), 2)

		assert.Equal(t, "Alpha, Beta", first.Rows[0].Track.Artist)
		assert.Equal(t, 3.0, first.Rows[0].Features[models.DurationIndex])
		assert.Equal(t, 4.0, first.Rows[1].Features[models.DurationIndex])

		want := models.FeatureVector{0.5, 0.5, 0, 0, 0, 0, 0, 0, 0.5, 0.5}
		for c := range want {
			assert.InDelta(t, want[c], first.Mean[c], 1e-12, "column %s", models.FeatureNames[c])
		}

		third := result.Playlists[2]
		require.True(t, third.OK())
		assert.Equal(t, models.FeatureVector{}, third.Mean)
	})

	t.Run("Track Failures Are Recorded", func(t *testing.T) {
		result, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 8}, nil)
		require.NoError(t, err)

		second := result.Playlists[1]
		assert.False(t, second.OK())
		assert.ErrorIs(t, second.Skipped, shared.ErrEmptyDataset)
		require.Len(t, second.Failures, 1)
		assert.Equal(t, "t3", second.Failures[0].TrackID)
		assert.ErrorIs(t, second.Failures[0].Err, shared.ErrTrackFetch)
		assert.Equal(t, []string{"t4"}, second.MissingFeatures)
	})

	t.Run("Invalid Popularity", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.AddTrack(models.TrackMetadata{ID: "t1", Popularity: 140}, &models.AudioFeatures{})
		catalog.AddPlaylist("p1", "Broken", "t1")

		result, err := NewAnalyzer(catalog).AnalyzePlaylist(ctx, catalog.Playlists[0])
		require.NoError(t, err)
		require.Len(t, result.Failures, 1)
		assert.ErrorIs(t, result.Failures[0].Err, shared.ErrInvalidRecord)
		assert.ErrorIs(t, result.Failures[0].Err, shared.ErrTrackFetch)
	})

	t.Run("Playlist Fetch Failure Skips Playlist", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		catalog.PlaylistErrs["p1"] = errors.New("gone")

		result, err := NewAnalyzer(catalog).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 8}, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, result.Playlists[0].Skipped, shared.ErrPlaylistFetch)
		assert.True(t, result.Playlists[2].OK())
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("Audio Features Failure Skips Playlist", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		catalog.FeaturesErr = errors.New("unavailable")

		result, err := NewAnalyzer(catalog).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 8}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Analyzed)
		for _, pl := range result.Playlists {
			assert.ErrorIs(t, pl.Skipped, shared.ErrPlaylistFetch)
		}
	})

	t.Run("Empty Playlist", func(t *testing.T) {
		catalog := tu.NewMockCatalog()
		catalog.AddPlaylist("p1", "Only Local", "", "")

		result, err := NewAnalyzer(catalog).AnalyzePlaylist(ctx, catalog.Playlists[0])
		require.NoError(t, err)
		assert.ErrorIs(t, result.Skipped, shared.ErrEmptyDataset)
		assert.Equal(t, 2, result.DroppedIDs)
		assert.Empty(t, result.Failures)
		assert.Equal(t, 0, catalog.FeatureCalls)
	})

	t.Run("First Page Failure Is Fatal", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		catalog.ListErr = shared.ErrAuthFailed

		_, err := NewAnalyzer(catalog).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 2}, nil)
		assert.ErrorIs(t, err, shared.ErrAuthFailed)
		assert.Equal(t, 0, catalog.MetadataCalls)
	})

	t.Run("Later Page Failure Aborts", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		catalog.AdvanceErr = shared.ErrAPIRequest

		result, err := NewAnalyzer(catalog).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 2}, nil)
		assert.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.Equal(t, 1, result.Pages)
		assert.Len(t, result.Playlists, 2)
	})

	t.Run("Sink Failure Aborts", func(t *testing.T) {
		sink := ProfileSinkFunc(func(ctx context.Context, r *PlaylistResult) error {
			return errors.New("disk full")
		})

		result, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1", PageSize: 8}, sink)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "First"))
		assert.Empty(t, result.Playlists)
	})

	t.Run("Idempotent", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		analyzer := NewAnalyzer(catalog)
		opts := PlaylistOpts{User: "u1", PageSize: 2}

		first, err := analyzer.AnalyzePlaylists(ctx, nil, opts, nil)
		require.NoError(t, err)
		second, err := analyzer.AnalyzePlaylists(ctx, nil, opts, nil)
		require.NoError(t, err)

		require.Len(t, second.Playlists, len(first.Playlists))
		for i := range first.Playlists {
			assert.Equal(t, first.Playlists[i].Rows, second.Playlists[i].Rows)
			assert.Equal(t, first.Playlists[i].Mean, second.Playlists[i].Mean)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(ctx, nil, PlaylistOpts{}, nil)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)

		_, err = NewAnalyzer(nil).AnalyzePlaylists(ctx, nil, PlaylistOpts{User: "u1"}, nil)
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(cancelled, nil, PlaylistOpts{User: "u1", PageSize: 8}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPages(t *testing.T) {
	ctx := context.Background()

	t.Run("Follows Cursor Until Exhausted", func(t *testing.T) {
		catalog := newPlaylistCatalog()

		var offsets []int
		for page, err := range Pages(ctx, catalog, "u1", 1) {
			require.NoError(t, err)
			offsets = append(offsets, page.Offset)
		}
		assert.Equal(t, []int{0, 1, 2}, offsets)
		assert.Equal(t, 2, catalog.AdvanceCalls)
	})

	t.Run("Stops When Consumer Breaks", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		for range Pages(ctx, catalog, "u1", 1) {
			break
		}
		assert.Equal(t, 0, catalog.AdvanceCalls)
	})

	t.Run("Yields Error Once", func(t *testing.T) {
		catalog := newPlaylistCatalog()
		catalog.ListErr = errors.New("down")

		var errs int
		for page, err := range Pages(ctx, catalog, "u1", 1) {
			assert.Nil(t, page)
			if err != nil {
				errs++
			}
		}
		assert.Equal(t, 1, errs)
	})
}

func TestAnalyzer_JoinTracks(t *testing.T) {
	catalog := newPlaylistCatalog()

	result, err := NewAnalyzer(catalog).JoinTracks(context.Background(), []string{"t2", "", "t3", "t4", "t1"})
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "t2", result.Rows[0].Track.ID)
	assert.Equal(t, "t1", result.Rows[1].Track.ID)
	assert.Equal(t, 1, result.DroppedIDs)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, []string{"t4"}, result.MissingFeatures)
	assert.Nil(t, result.Scaled)
}

func TestAnalyzer_RunID(t *testing.T) {
	result, err := NewAnalyzer(newPlaylistCatalog()).AnalyzePlaylists(context.Background(), nil, PlaylistOpts{RunID: "fixed", User: "u1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", result.ID)
}
