// Package tasks turns paginated catalog responses into flat, analysis ready datasets.
//
// # Playlist Profiles
//
// [Analyzer.AnalyzePlaylists] pulls pages of a user's playlists through [Pages] and, for every playlist:
//
//  1. Lists the track identifiers, dropping local or unavailable tracks (empty identifiers)
//  2. Fetches per-track metadata into [models.TrackRecord] values
//  3. Batch-fetches audio features and inner joins them on identifier ([JoinFeatures])
//  4. Min-max scales the ten feature columns of this playlist only ([MinMaxScale])
//  5. Averages the scaled columns into one profile vector ([ColumnMeans])
//  6. Hands the result to a [ProfileSink]
//
// A playlist with no joined rows is skipped, never averaged.
//
// # Listening History
//
// [Analyzer.AnalyzeHistory] left joins play events to library entries on the "artist:track" key
// ([JoinHistory]), then resolves genres once per distinct library track and explodes them into
// one row per (track, genre) pair ([ExplodeGenres]).
//
// # Failure Granularity
//
// Only authentication and page fetch errors abort a run. Playlist contents failures skip the playlist,
// track metadata failures drop the row ([TrackFailure]), and genre lookup failures degrade to an
// empty genre list ([GenreFailure]).
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on a caller supplied channel.
// Updates use select with default so a slow reader never blocks the pipeline.
package tasks
