// package services defines interface Catalog for reading playlists, tracks and audio features from a streaming API
package services

import (
	"context"

	"github.com/desertthunder/featx/internal/models"
)

// Catalog is the API client consumed by the aggregation pipeline.
type Catalog interface {
	// ListPlaylists returns the first page of the user's playlists.
	ListPlaylists(ctx context.Context, user string, pageSize int) (*models.PlaylistPage, error)

	// Advance follows the continuation cursor of page. The page must not be the last one.
	Advance(ctx context.Context, page *models.PlaylistPage) (*models.PlaylistPage, error)

	// PlaylistTrackIDs lists the track identifiers of a playlist in order.
	// Local or unavailable tracks are reported as empty strings.
	PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error)

	// TrackMetadata retrieves album, name, artists, explicit flag and popularity of a track.
	TrackMetadata(ctx context.Context, trackID string) (*models.TrackMetadata, error)

	// AudioFeatures retrieves audio features aligned with trackIDs; missing entries are nil.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]*models.AudioFeatures, error)

	// ArtistForTrack resolves the identifier of the track's first artist.
	ArtistForTrack(ctx context.Context, trackID string) (string, error)

	// ArtistGenres lists the genres of an artist.
	ArtistGenres(ctx context.Context, artistID string) ([]string, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
