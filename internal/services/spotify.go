// Spotify Web API implementation of [Catalog]
//
// Endpoint reference: https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	// maxAudioFeatureIDs is the largest id batch accepted by the audio-features endpoint.
	maxAudioFeatureIDs = 100
	maxPageSize        = 50
	trackPageSize      = 100
)

// SpotifyOpts configures a [SpotifyCatalog].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string       // Web API base URL ending in "/"; empty uses the public API
	TokenURL     string       // Token endpoint; empty uses [spotifyauth.TokenURL]
	RateLimit    float64      // Requests per second; zero disables throttling
	HTTPClient   *http.Client // Base client for API and token requests
}

// SpotifyOptsFromConfig builds [SpotifyOpts] from the application config and resolved credentials.
func SpotifyOptsFromConfig(cfg *shared.Config, clientID, clientSecret string) SpotifyOpts {
	return SpotifyOpts{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      cfg.API.BaseURL,
		TokenURL:     cfg.API.TokenURL,
		RateLimit:    cfg.API.RateLimit,
	}
}

// SpotifyCatalog implements [Catalog] on top of [spotify.Client].
type SpotifyCatalog struct {
	client *spotify.Client
}

// compile-time interface assertion
var _ Catalog = (*SpotifyCatalog)(nil)

// NewSpotifyCatalog exchanges the client credentials for a token and returns a ready catalog.
//
// Any failure here is an authentication failure and must abort the run.
func NewSpotifyCatalog(ctx context.Context, opts SpotifyOpts) (*SpotifyCatalog, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyauth.TokenURL
	}

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	throttled := &http.Client{
		Transport: newThrottledTransport(transport, opts.RateLimit),
		Timeout:   base.Timeout,
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	authCtx := context.WithValue(ctx, oauth2.HTTPClient, throttled)
	token, err := config.Token(authCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)
	}

	httpClient := oauth2.NewClient(authCtx, oauth2.ReuseTokenSource(token, config.TokenSource(authCtx)))

	var clientOpts []spotify.ClientOption
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(opts.BaseURL))
	}

	return &SpotifyCatalog{client: spotify.New(httpClient, clientOpts...)}, nil
}

func (s *SpotifyCatalog) Name() string {
	return "Spotify"
}

// ListPlaylists retrieves the first page of a user's public playlists.
func (s *SpotifyCatalog) ListPlaylists(ctx context.Context, user string, pageSize int) (*models.PlaylistPage, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: user is required", shared.ErrMissingArgument)
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	page, err := s.client.GetPlaylistsForUser(ctx, user, spotify.Limit(pageSize))
	if err != nil {
		return nil, apiError("list playlists", err)
	}

	return toPlaylistPage(page), nil
}

// Advance fetches the page referenced by page.Next.
func (s *SpotifyCatalog) Advance(ctx context.Context, page *models.PlaylistPage) (*models.PlaylistPage, error) {
	if page.Last() {
		return nil, fmt.Errorf("%w: page has no continuation cursor", shared.ErrInvalidArgument)
	}

	var next spotify.SimplePlaylistPage
	next.Next = page.Next
	if err := s.client.NextPage(ctx, &next); err != nil {
		return nil, apiError("advance playlists", err)
	}

	return toPlaylistPage(&next), nil
}

// PlaylistTrackIDs follows every track page of the playlist.
func (s *SpotifyCatalog) PlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	page, err := s.client.GetPlaylistTracks(ctx, spotify.ID(playlistID), spotify.Limit(trackPageSize))
	if err != nil {
		return nil, apiError("playlist tracks", err)
	}

	var ids []string
	for {
		for _, item := range page.Tracks {
			ids = append(ids, item.Track.ID.String())
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, apiError("playlist tracks page", err)
		}
	}

	return ids, nil
}

// TrackMetadata retrieves a single track.
func (s *SpotifyCatalog) TrackMetadata(ctx context.Context, trackID string) (*models.TrackMetadata, error) {
	track, err := s.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, apiError("track "+trackID, err)
	}

	artists := make([]string, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = a.Name
	}

	return &models.TrackMetadata{
		ID:         track.ID.String(),
		Album:      track.Album.Name,
		Name:       track.Name,
		Artists:    artists,
		Explicit:   track.Explicit,
		Popularity: int(track.Popularity),
	}, nil
}

// AudioFeatures fetches features in batches of 100 and returns them aligned with trackIDs.
func (s *SpotifyCatalog) AudioFeatures(ctx context.Context, trackIDs []string) ([]*models.AudioFeatures, error) {
	out := make([]*models.AudioFeatures, len(trackIDs))

	for start := 0; start < len(trackIDs); start += maxAudioFeatureIDs {
		end := min(start+maxAudioFeatureIDs, len(trackIDs))

		batch := make([]spotify.ID, 0, end-start)
		for _, id := range trackIDs[start:end] {
			batch = append(batch, spotify.ID(id))
		}

		features, err := s.client.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return nil, apiError(fmt.Sprintf("audio features %d-%d", start+1, end), err)
		}

		for i, f := range features {
			if f == nil || start+i >= len(out) {
				continue
			}
			out[start+i] = toAudioFeatures(trackIDs[start+i], f)
		}
	}

	return out, nil
}

// ArtistForTrack returns the identifier of the first credited artist.
func (s *SpotifyCatalog) ArtistForTrack(ctx context.Context, trackID string) (string, error) {
	track, err := s.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return "", apiError("track "+trackID, err)
	}
	if len(track.Artists) == 0 {
		return "", fmt.Errorf("%w: track %s has no artists", shared.ErrAPIRequest, trackID)
	}
	return track.Artists[0].ID.String(), nil
}

// ArtistGenres retrieves the genres of an artist.
func (s *SpotifyCatalog) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	artist, err := s.client.GetArtist(ctx, spotify.ID(artistID))
	if err != nil {
		return nil, apiError("artist "+artistID, err)
	}
	return artist.Genres, nil
}

func toPlaylistPage(page *spotify.SimplePlaylistPage) *models.PlaylistPage {
	items := make([]models.PlaylistSummary, len(page.Playlists))
	for i, p := range page.Playlists {
		items[i] = models.PlaylistSummary{
			ID:         p.ID.String(),
			URI:        string(p.URI),
			Name:       p.Name,
			TrackCount: int(p.Tracks.Total),
		}
	}

	return &models.PlaylistPage{
		Items:  items,
		Offset: int(page.Offset),
		Total:  int(page.Total),
		Next:   page.Next,
	}
}

// toAudioFeatures keys the record by the requested id so the join stays aligned even if the API echoes a relinked id.
func toAudioFeatures(trackID string, f *spotify.AudioFeatures) *models.AudioFeatures {
	return &models.AudioFeatures{
		TrackID:          trackID,
		Danceability:     float64(f.Danceability),
		Energy:           float64(f.Energy),
		Loudness:         float64(f.Loudness),
		Speechiness:      float64(f.Speechiness),
		Acousticness:     float64(f.Acousticness),
		Instrumentalness: float64(f.Instrumentalness),
		Liveness:         float64(f.Liveness),
		Valence:          float64(f.Valence),
		Tempo:            float64(f.Tempo),
		DurationMS:       int(f.Duration),
	}
}

func apiError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
}

// throttledTransport waits on a token bucket before each request.
type throttledTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func newThrottledTransport(base http.RoundTripper, perSecond float64) *throttledTransport {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &throttledTransport{limiter: rate.NewLimiter(limit, 1), base: base}
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
