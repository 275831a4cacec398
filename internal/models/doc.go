// Package models defines the typed records that flow through the featx aggregation pipeline.
//
// Playlist variant:
//   - [PlaylistSummary] and [PlaylistPage] : one page of a user's playlists with its continuation cursor
//   - [TrackRecord] : per-track metadata, built with [NewTrackRecord]
//   - [AudioFeatures] : per-track numeric descriptors keyed by track identifier
//   - [FeatureVector] : the ten features in [FeatureNames] order, duration in minutes
//   - [JoinedTrack] : inner join of a [TrackRecord] and its [FeatureVector]
//
// History variant:
//   - [PlayEvent] : one streaming-history entry
//   - [LibraryEntry] : one saved track of the library export
//   - [HistoryRow] : a play event left-joined with the library
//   - [GenreRow] : one (track, genre) pair after genre explosion
//
// Records are immutable once built and never persisted by the pipeline itself.
package models
