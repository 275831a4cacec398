package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/samber/lo"
)

// AnalyzeHistory joins play events to the library and resolves the genres of every distinct library track.
//
// Lookup failures degrade the affected track to an empty genre list; only context cancellation returns an error.
func (a *Analyzer) AnalyzeHistory(ctx context.Context, progress chan<- ProgressUpdate, events []models.PlayEvent, library []models.LibraryEntry) (*HistoryResult, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	result := &HistoryResult{ID: shared.GenerateID()}
	result.Events = JoinHistory(events, library)
	result.Matched = lo.CountBy(result.Events, func(row models.HistoryRow) bool { return row.InLibrary })
	a.sendProgress(progress, joinHistoryUpdate(len(result.Events), result.Matched))

	result.TrackIDs = LibraryTrackIDs(library)
	genres := make(map[string][]string, len(result.TrackIDs))

	for i, id := range result.TrackIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.sendProgress(progress, fetchGenresUpdate(i+1, len(result.TrackIDs), id))

		list, err := a.trackGenres(ctx, id)
		if err != nil {
			result.Failures = append(result.Failures, GenreFailure{TrackID: id, Err: err})
			continue
		}
		genres[id] = list
	}

	result.Genres = ExplodeGenres(result.TrackIDs, genres)
	return result, nil
}

func (a *Analyzer) trackGenres(ctx context.Context, trackID string) ([]string, error) {
	artistID, err := a.catalog.ArtistForTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("%w: artist of %s: %v", shared.ErrGenreLookup, trackID, err)
	}

	genres, err := a.catalog.ArtistGenres(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("%w: genres of artist %s: %v", shared.ErrGenreLookup, artistID, err)
	}
	return genres, nil
}

// JoinHistory left joins events to library entries on the composite artist/track key.
//
// Every event yields exactly one row. When the library holds the same key more than once the first entry wins.
func JoinHistory(events []models.PlayEvent, library []models.LibraryEntry) []models.HistoryRow {
	index := make(map[string]models.LibraryEntry, len(library))
	for _, entry := range library {
		if _, ok := index[entry.Key()]; !ok {
			index[entry.Key()] = entry
		}
	}

	rows := make([]models.HistoryRow, 0, len(events))
	for _, ev := range events {
		row := models.HistoryRow{PlayEvent: ev, MinPlayed: models.MsToMinutes(ev.MsPlayed)}
		if entry, ok := index[ev.Key()]; ok {
			row.InLibrary = true
			row.Album = sql.NullString{String: entry.Album, Valid: true}
			row.TrackID = entry.TrackID()
		}
		rows = append(rows, row)
	}
	return rows
}

// LibraryTrackIDs returns the distinct track identifiers of the library in first-seen order.
func LibraryTrackIDs(library []models.LibraryEntry) []string {
	ids := lo.FilterMap(library, func(entry models.LibraryEntry, _ int) (string, bool) {
		id := entry.TrackID()
		return id.String, id.Valid
	})
	return lo.Uniq(ids)
}

// ExplodeGenres emits one row per (track, genre) pair, in trackIDs order.
//
// A track without genres yields a single row with a null genre.
func ExplodeGenres(trackIDs []string, genres map[string][]string) []models.GenreRow {
	var rows []models.GenreRow
	for _, id := range trackIDs {
		list := genres[id]
		if len(list) == 0 {
			rows = append(rows, models.GenreRow{TrackID: id})
			continue
		}
		for _, g := range list {
			rows = append(rows, models.GenreRow{TrackID: id, Genre: sql.NullString{String: g, Valid: true}})
		}
	}
	return rows
}
