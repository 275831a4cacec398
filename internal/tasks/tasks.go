// package tasks implements the playlist profile and listening history pipelines.
//
// The core abstraction is Analyzer, which pulls data through a services.Catalog and produces typed results.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/services"
	"github.com/desertthunder/featx/internal/shared"
)

// TrackFailure records a track whose metadata could not be fetched or validated.
type TrackFailure struct {
	TrackID string
	Err     error
}

// GenreFailure records a track whose artist or genre lookup failed.
type GenreFailure struct {
	TrackID string
	Err     error
}

// PlaylistResult contains the joined dataset and aggregate profile of one playlist.
type PlaylistResult struct {
	Playlist        models.PlaylistSummary
	Position        int                    // 1-based position across all pages
	Rows            []models.JoinedTrack   // Joined dataset, unscaled, duration in minutes
	Scaled          []models.FeatureVector // Min-max scaled rows, aligned with Rows
	Mean            models.FeatureVector   // Column means of Scaled
	DroppedIDs      int                    // Entries without a track identifier
	MissingFeatures []string               // Identifiers the features lookup returned nothing for
	Failures        []TrackFailure
	Skipped         error // Non-nil when no profile was produced
}

// OK reports whether the playlist produced a profile.
func (r *PlaylistResult) OK() bool {
	return r.Skipped == nil
}

// RunResult contains every playlist visited by [Analyzer.AnalyzePlaylists].
type RunResult struct {
	ID        string
	User      string
	Pages     int
	Playlists []PlaylistResult
	Analyzed  int
	Skipped   int
}

// HistoryResult contains the two tables of the listening history pipeline.
type HistoryResult struct {
	ID       string
	Events   []models.HistoryRow
	Genres   []models.GenreRow
	TrackIDs []string // Distinct library track identifiers looked up
	Matched  int      // Events found in the library
	Failures []GenreFailure
}

// ProfileSink receives each playlist that produced a profile.
type ProfileSink interface {
	Profile(ctx context.Context, result *PlaylistResult) error
}

// ProfileSinkFunc adapts a function to [ProfileSink].
type ProfileSinkFunc func(ctx context.Context, result *PlaylistResult) error

func (f ProfileSinkFunc) Profile(ctx context.Context, result *PlaylistResult) error {
	return f(ctx, result)
}

// PlaylistOpts selects the playlists visited by [Analyzer.AnalyzePlaylists].
type PlaylistOpts struct {
	RunID    string // Generated when empty
	User     string
	PageSize int
}

// Analyzer runs the aggregation pipelines against a catalog.
type Analyzer struct {
	catalog services.Catalog
}

// NewAnalyzer creates an Analyzer reading from catalog.
func NewAnalyzer(catalog services.Catalog) *Analyzer {
	return &Analyzer{catalog: catalog}
}

func (a *Analyzer) ready() error {
	if a == nil || a.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// sendProgress sends a progress update through the channel without blocking.
func (a *Analyzer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
