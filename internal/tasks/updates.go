package tasks

import (
	"fmt"

	"github.com/desertthunder/featx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	ProcessPlaylist
	FetchTracks
	FetchFeatures
	SkipPlaylist
	JoinEvents
	FetchGenres
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case ProcessPlaylist:
		return "process_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case FetchFeatures:
		return "fetch_features"
	case SkipPlaylist:
		return "skip_playlist"
	case JoinEvents:
		return "join_events"
	case FetchGenres:
		return "fetch_genres"
	default:
		return ""
	}
}

func fetchPageUpdate(page *models.PlaylistPage) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    page.Offset + len(page.Items),
		Total:   page.Total,
		Message: fmt.Sprintf("Fetched playlists %d-%d of %d", page.Offset+1, page.Offset+len(page.Items), page.Total),
		Data:    page,
	}
}

// playlistUpdate carries the per-playlist progress line: position, URI and name.
func playlistUpdate(position, total int, pl models.PlaylistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessPlaylist,
		Step:    position,
		Total:   total,
		Message: fmt.Sprintf("%4d %s %s", position, pl.URI, pl.Name),
		Data:    pl,
	}
}

func fetchTrackUpdate(step, total int, trackID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] track %s", step, total, trackID),
	}
}

func fetchFeaturesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching audio features for %d tracks...", count),
	}
}

func skipPlaylistUpdate(position, total int, result *PlaylistResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipPlaylist,
		Step:    position,
		Total:   total,
		Message: fmt.Sprintf("Skipped %s: %v", result.Playlist.Name, result.Skipped),
		Data:    result,
	}
}

func joinHistoryUpdate(events, matched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   JoinEvents,
		Step:    matched,
		Total:   events,
		Message: fmt.Sprintf("Joined %d play events (%d in library)", events, matched),
	}
}

func fetchGenresUpdate(step, total int, trackID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGenres,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] genres for %s", step, total, trackID),
	}
}
