// package formatter writes analysis results to CSV and HTML charts and reads account data exports
package formatter

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/tasks"
)

// Column headers of the history exports
const (
	ColumnAlbum     = "album"
	ColumnTrackURI  = "track_uri"
	ColumnInLibrary = "In Library"
	ColumnMinPlayed = "minPlayed"
	ColumnGenre     = "genre"
)

// Default file names of the run-level exports
const (
	ProfilesFile = "profiles.csv"
	HistoryFile  = "streaming_history.csv"
	GenresFile   = "track_genres.csv"
)

var trackColumns = []string{"id", "album", "name", "artist", "explicit", "popularity"}

// PlaylistToCSV converts a joined dataset to CSV: track metadata followed by the unscaled features.
//
// The duration_ms column holds minutes.
func PlaylistToCSV(rows []models.JoinedTrack) ([]byte, error) {
	headers := append(append([]string{}, trackColumns...), models.FeatureNames[:]...)

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := []string{
			row.Track.ID,
			row.Track.Album,
			row.Track.Name,
			row.Track.Artist,
			strconv.FormatBool(row.Track.Explicit),
			strconv.Itoa(row.Track.Popularity),
		}
		records = append(records, append(record, formatFloats(row.Features.Slice())...))
	}

	return encodeCSV(headers, records)
}

// ProfilesToCSV converts the playlists that produced a profile to one row per playlist mean vector.
func ProfilesToCSV(results []tasks.PlaylistResult) ([]byte, error) {
	headers := append([]string{"position", "playlist_id", "playlist_uri", "name", "tracks"}, models.FeatureNames[:]...)

	var records [][]string
	for _, r := range results {
		if !r.OK() {
			continue
		}
		record := []string{
			strconv.Itoa(r.Position),
			r.Playlist.ID,
			r.Playlist.URI,
			r.Playlist.Name,
			strconv.Itoa(len(r.Rows)),
		}
		records = append(records, append(record, formatFloats(r.Mean.Slice())...))
	}

	return encodeCSV(headers, records)
}

// HistoryToCSV converts the joined play events. Unmatched events leave album and track_uri empty.
func HistoryToCSV(rows []models.HistoryRow) ([]byte, error) {
	headers := []string{"endTime", "artistName", "trackName", "msPlayed", ColumnAlbum, ColumnTrackURI, ColumnInLibrary, ColumnMinPlayed}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.EndTime,
			row.ArtistName,
			row.TrackName,
			strconv.Itoa(row.MsPlayed),
			nullable(row.Album),
			nullable(row.TrackID),
			flag(row.InLibrary),
			formatFloat(row.MinPlayed),
		})
	}

	return encodeCSV(headers, records)
}

// GenresToCSV converts the exploded genre table. A null genre is written as an empty field.
func GenresToCSV(rows []models.GenreRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.TrackID, nullable(row.Genre)})
	}
	return encodeCSV([]string{ColumnTrackURI, ColumnGenre}, records)
}

// WritePlaylistCSV writes the joined dataset of a playlist to path.
func WritePlaylistCSV(path string, rows []models.JoinedTrack) error {
	data, err := PlaylistToCSV(rows)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(path, data)
}

// WriteProfilesCSV writes the profile of every analyzed playlist to path.
func WriteProfilesCSV(path string, results []tasks.PlaylistResult) error {
	data, err := ProfilesToCSV(results)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(path, data)
}

// WriteHistoryCSV writes the event level history table to path.
func WriteHistoryCSV(path string, rows []models.HistoryRow) error {
	data, err := HistoryToCSV(rows)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(path, data)
}

// WriteGenresCSV writes the exploded genre table to path.
func WriteGenresCSV(path string, rows []models.GenreRow) error {
	data, err := GenresToCSV(rows)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(path, data)
}

// HistoryExportResult contains the paths of files created by WriteHistoryExport
type HistoryExportResult struct {
	HistoryFile string
	GenresFile  string
}

// WriteHistoryExport writes both history tables into dir, creating it when needed.
func WriteHistoryExport(dir string, result *tasks.HistoryResult) (*HistoryExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	out := &HistoryExportResult{
		HistoryFile: filepath.Join(dir, HistoryFile),
		GenresFile:  filepath.Join(dir, GenresFile),
	}
	if err := WriteHistoryCSV(out.HistoryFile, result.Events); err != nil {
		return nil, err
	}
	if err := WriteGenresCSV(out.GenresFile, result.Genres); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloats(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatFloat(v)
	}
	return out
}

func nullable(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
