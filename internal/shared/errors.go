package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors. These are fatal and abort a run before any data is fetched.
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Per-unit fetch failures, recovered by the pipeline
	ErrPlaylistFetch = fmt.Errorf("playlist fetch failed")
	ErrTrackFetch    = fmt.Errorf("track fetch failed")
	ErrGenreLookup   = fmt.Errorf("genre lookup failed")

	// Data errors
	ErrEmptyDataset  = fmt.Errorf("no rows to aggregate")
	ErrInvalidRecord = fmt.Errorf("invalid record")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
