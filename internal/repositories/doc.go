// Package repositories writes analysis results into an SQLite export file.
//
// The export database is a flat file for BI tools, not application state: nothing here is read back
// by the pipelines. Every run gets a UUID and all rows of that run carry it, so repeated runs can share one file.
//
// Tables:
//   - runs : one row per invocation (variant, subject, start time)
//   - playlist_tracks : joined dataset rows, unscaled, duration in minutes
//   - playlist_profiles : one (feature, value) row per column of a playlist's mean vector
//   - history_events : play events left joined with the library
//   - history_genres : exploded (track, genre) pairs, genre may be NULL
//
// The schema lives in the embedded migrations of package shared.
package repositories
