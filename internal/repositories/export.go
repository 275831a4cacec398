package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/desertthunder/featx/internal/tasks"
)

// Run variants recorded in the runs table
const (
	VariantPlaylists = "playlists"
	VariantHistory   = "history"
)

// exportTables lists the tables that carry a run_id column.
var exportTables = map[string]bool{
	"playlist_tracks":   true,
	"playlist_profiles": true,
	"history_events":    true,
	"history_genres":    true,
}

// ExportStore writes run results into the export database.
type ExportStore struct {
	db *sql.DB
}

// NewExportStore creates a new ExportStore with the given database connection
func NewExportStore(db *sql.DB) *ExportStore {
	return &ExportStore{db: db}
}

// CreateRun records a run. subject is the user id for playlist runs and the library file for history runs.
func (s *ExportStore) CreateRun(runID, variant, subject string, startedAt time.Time) error {
	if runID == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}
	if variant != VariantPlaylists && variant != VariantHistory {
		return fmt.Errorf("%w: unknown run variant %q", shared.ErrInvalidArgument, variant)
	}

	_, err := s.db.Exec(
		"INSERT INTO runs (id, variant, subject, started_at) VALUES (?, ?, ?, ?)",
		runID, variant, subject, startedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// SavePlaylist writes the joined rows and the profile of one playlist in a single transaction.
func (s *ExportStore) SavePlaylist(runID string, result *tasks.PlaylistResult) error {
	if !result.OK() {
		return fmt.Errorf("%w: playlist %s has no profile", shared.ErrEmptyDataset, result.Playlist.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trackStmt, err := tx.Prepare(`
		INSERT INTO playlist_tracks (
			run_id, playlist_id, playlist_name, position, track_id, album, name, artist, explicit, popularity,
			danceability, energy, loudness, speechiness, acousticness, instrumentalness, liveness, valence, tempo, duration_min
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer trackStmt.Close()

	for i, row := range result.Rows {
		args := []any{
			runID, result.Playlist.ID, result.Playlist.Name, i + 1,
			row.Track.ID, row.Track.Album, row.Track.Name, row.Track.Artist, row.Track.Explicit, row.Track.Popularity,
		}
		for _, v := range row.Features {
			args = append(args, v)
		}
		if _, err := trackStmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert track %s: %w", row.Track.ID, err)
		}
	}

	profileStmt, err := tx.Prepare(`
		INSERT INTO playlist_profiles (run_id, playlist_id, playlist_name, tracks, feature, value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare profile insert: %w", err)
	}
	defer profileStmt.Close()

	for c, name := range models.FeatureNames {
		if _, err := profileStmt.Exec(runID, result.Playlist.ID, result.Playlist.Name, len(result.Rows), name, result.Mean[c]); err != nil {
			return fmt.Errorf("failed to insert profile value %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}
	return nil
}

// SaveHistory writes both history tables in a single transaction.
func (s *ExportStore) SaveHistory(runID string, result *tasks.HistoryResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	eventStmt, err := tx.Prepare(`
		INSERT INTO history_events (run_id, end_time, artist_name, track_name, ms_played, album, track_uri, in_library, min_played)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer eventStmt.Close()

	for _, row := range result.Events {
		_, err := eventStmt.Exec(runID, row.EndTime, row.ArtistName, row.TrackName, row.MsPlayed, row.Album, row.TrackID, row.InLibrary, row.MinPlayed)
		if err != nil {
			return fmt.Errorf("failed to insert play event: %w", err)
		}
	}

	genreStmt, err := tx.Prepare("INSERT INTO history_genres (run_id, track_uri, genre) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer genreStmt.Close()

	for _, row := range result.Genres {
		if _, err := genreStmt.Exec(runID, row.TrackID, row.Genre); err != nil {
			return fmt.Errorf("failed to insert genre row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// CountRows returns the number of rows a run wrote to table.
func (s *ExportStore) CountRows(table, runID string) (int, error) {
	if !exportTables[table] {
		return 0, fmt.Errorf("%w: unknown export table %q", shared.ErrInvalidArgument, table)
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE run_id = ?", table)
	if err := s.db.QueryRow(query, runID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// Profile returns the stored profile of a playlist within a run, keyed by feature name.
func (s *ExportStore) Profile(runID, playlistID string) (map[string]float64, error) {
	rows, err := s.db.Query(
		"SELECT feature, value FROM playlist_profiles WHERE run_id = ? AND playlist_id = ?",
		runID, playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	defer rows.Close()

	profile := make(map[string]float64)
	for rows.Next() {
		var feature string
		var value float64
		if err := rows.Scan(&feature, &value); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profile[feature] = value
	}
	return profile, rows.Err()
}
