// package models defines the data model for playlist profiles and listening history
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/featx/internal/shared"
)

// ArtistSeparator joins the artist names of a track into one display string.
const ArtistSeparator = ", "

// MsPerMinute converts millisecond durations to minutes.
const MsPerMinute = 60000.0

// PlaylistSummary is a playlist as listed on a page of a user's playlists.
type PlaylistSummary struct {
	ID         string
	URI        string
	Name       string
	TrackCount int
}

// PlaylistPage is one page of playlists.
//
// Next is an opaque continuation cursor; an empty Next marks the end of the stream.
type PlaylistPage struct {
	Items  []PlaylistSummary
	Offset int
	Total  int
	Next   string
}

// Last reports whether no page follows this one.
func (p *PlaylistPage) Last() bool {
	return p == nil || p.Next == ""
}

// TrackMetadata is the raw metadata returned for a single track by the API client.
type TrackMetadata struct {
	ID         string
	Album      string
	Name       string
	Artists    []string
	Explicit   bool
	Popularity int
}

// TrackRecord is the validated metadata row of one track.
type TrackRecord struct {
	ID         string `json:"id"`
	Album      string `json:"album"`
	Name       string `json:"name"`
	Artist     string `json:"artist"` // Artist names joined with [ArtistSeparator]
	Explicit   bool   `json:"explicit"`
	Popularity int    `json:"popularity"` // 0..100
}

// NewTrackRecord builds a [TrackRecord] from metadata, rejecting empty identifiers and out of range popularity.
func NewTrackRecord(meta TrackMetadata) (TrackRecord, error) {
	if meta.ID == "" {
		return TrackRecord{}, fmt.Errorf("%w: track identifier is empty", shared.ErrInvalidRecord)
	}
	if meta.Popularity < 0 || meta.Popularity > 100 {
		return TrackRecord{}, fmt.Errorf("%w: popularity %d of track %s outside 0..100", shared.ErrInvalidRecord, meta.Popularity, meta.ID)
	}

	return TrackRecord{
		ID:         meta.ID,
		Album:      meta.Album,
		Name:       meta.Name,
		Artist:     strings.Join(meta.Artists, ArtistSeparator),
		Explicit:   meta.Explicit,
		Popularity: meta.Popularity,
	}, nil
}

// AudioFeatures holds the audio descriptors of one track as returned by the API.
type AudioFeatures struct {
	TrackID          string
	Danceability     float64
	Energy           float64
	Loudness         float64
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
	DurationMS       int
}

// FeatureCount is the length of a [FeatureVector].
const FeatureCount = 10

// FeatureVector holds the ten audio features in [FeatureNames] order.
type FeatureVector [FeatureCount]float64

// FeatureNames are the column names of a [FeatureVector].
var FeatureNames = [FeatureCount]string{
	"danceability",
	"energy",
	"loudness",
	"speechiness",
	"acousticness",
	"instrumentalness",
	"liveness",
	"valence",
	"tempo",
	"duration_ms",
}

// DurationIndex is the position of the duration column, which holds minutes after conversion.
const DurationIndex = 9

// Vector returns the features in [FeatureNames] order with the duration converted to minutes.
func (a AudioFeatures) Vector() FeatureVector {
	return FeatureVector{
		a.Danceability,
		a.Energy,
		a.Loudness,
		a.Speechiness,
		a.Acousticness,
		a.Instrumentalness,
		a.Liveness,
		a.Valence,
		a.Tempo,
		MsToMinutes(a.DurationMS),
	}
}

// Slice returns the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	return v[:]
}

// MarshalJSON encodes the vector as an object keyed by [FeatureNames], in column order.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range FeatureNames {
		if i > 0 {
			buf.WriteByte(',')
		}
		value, err := json.Marshal(v[i])
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		fmt.Fprintf(&buf, "%q:", name)
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object produced by [FeatureVector.MarshalJSON]. Every feature must be present.
func (v *FeatureVector) UnmarshalJSON(data []byte) error {
	var values map[string]float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	for i, name := range FeatureNames {
		value, ok := values[name]
		if !ok {
			return fmt.Errorf("%w: feature %s is missing", shared.ErrInvalidRecord, name)
		}
		v[i] = value
	}
	return nil
}

// JoinedTrack is one row of the joined dataset.
type JoinedTrack struct {
	Track    TrackRecord   `json:"track"`
	Features FeatureVector `json:"features"`
}

// MsToMinutes converts milliseconds to minutes.
func MsToMinutes(ms int) float64 {
	return float64(ms) / MsPerMinute
}
