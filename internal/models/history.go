package models

import (
	"database/sql"
	"strings"
)

const (
	// KeySeparator joins artist and track names into a composite join key.
	KeySeparator = ":"

	// TrackURIPrefix is the scheme of library track URIs.
	TrackURIPrefix = "spotify:track:"
)

// PlayEvent is one entry of the streaming history export.
type PlayEvent struct {
	EndTime    string `json:"endTime"`
	ArtistName string `json:"artistName"`
	TrackName  string `json:"trackName"`
	MsPlayed   int    `json:"msPlayed"`
}

// Key returns the composite join key of the event.
func (e PlayEvent) Key() string {
	return CompositeKey(e.ArtistName, e.TrackName)
}

// LibraryEntry is one saved track of the library export.
type LibraryEntry struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Track  string `json:"track"`
	URI    string `json:"uri"`
}

// Key returns the composite join key of the entry.
func (l LibraryEntry) Key() string {
	return CompositeKey(l.Artist, l.Track)
}

// TrackID returns the bare track identifier derived from the URI.
func (l LibraryEntry) TrackID() sql.NullString {
	return TrackIDFromURI(l.URI)
}

// HistoryRow is a play event left-joined with the library.
//
// Album and TrackID are null when the event has no library match.
type HistoryRow struct {
	PlayEvent
	Album     sql.NullString
	TrackID   sql.NullString
	InLibrary bool
	MinPlayed float64
}

// GenreRow is one (track, genre) pair. Genre is null for a track without genres.
type GenreRow struct {
	TrackID string
	Genre   sql.NullString
}

// CompositeKey joins artist and track names with [KeySeparator].
func CompositeKey(artist, track string) string {
	return artist + KeySeparator + track
}

// TrackIDFromURI splits uri on ":" and returns the third segment.
func TrackIDFromURI(uri string) sql.NullString {
	parts := strings.Split(uri, ":")
	if len(parts) < 3 || parts[2] == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: parts[2], Valid: true}
}
