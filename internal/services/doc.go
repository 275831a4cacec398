// Package services defines the [Catalog] interface consumed by the aggregation pipeline and implements it for the Spotify Web API.
//
// # Catalog Interface
//
// The pipeline only needs a narrow slice of the Web API: listing and advancing playlist pages,
// reading the track identifiers of a playlist, per-track metadata, batched audio features,
// and the artist/genre lookups of the history variant.
//
// # Spotify Implementation
//
// [SpotifyCatalog] wraps [spotify.Client] from github.com/zmb3/spotify/v2.
// Authentication uses the OAuth2 client credentials flow; the token exchange happens in
// [NewSpotifyCatalog] so a credential failure aborts before any page is fetched.
// Requests pass through a token bucket limiter from golang.org/x/time/rate.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : token exchange failed
//   - [shared.ErrAPIRequest] : a Web API call failed
//
// Callers decide whether a failure is fatal for the run, the playlist, or a single track.
package services
