package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/featx/internal/models"
	"github.com/desertthunder/featx/internal/services"
	"github.com/desertthunder/featx/internal/shared"
	"github.com/desertthunder/featx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Catalog makes every command authenticate against the Web API with the resolved credentials.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistsCommand, historyCommand, featuresCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the --config file when it exists and keeps the runner's config otherwise.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return r.config, nil
	}
	if _, err := os.Stat(path); err != nil {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		return r.config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.config = config
	return config, nil
}

// catalogFor returns the injected catalog or authenticates a Spotify client.
func (r *Runner) catalogFor(ctx context.Context, cfg *shared.Config) (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	clientID, clientSecret, err := shared.ResolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	opts := services.SpotifyOptsFromConfig(cfg, clientID, clientSecret)
	opts.HTTPClient = r.httpClient

	catalog, err := services.NewSpotifyCatalog(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("authenticated", "service", catalog.Name())

	r.catalog = catalog
	return catalog, nil
}

// watch logs progress updates until the returned stop func is called.
//
// Only the logger is touched from the drain goroutine; command output stays on the caller's goroutine.
func (r *Runner) watch(progress chan tasks.ProgressUpdate) (stop func()) {
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			kv := progressFields(update)
			switch update.Phase {
			case tasks.FetchPlaylists, tasks.ProcessPlaylist, tasks.JoinEvents:
				r.logger.Info(update.Message, kv...)
			case tasks.SkipPlaylist:
				r.logger.Warn(update.Message, kv...)
			default:
				r.logger.Debug(update.Message, kv...)
			}
		}
	}()

	return func() {
		close(progress)
		<-done
	}
}

// progressFields returns the log key-values of an update, including those of its payload.
func progressFields(update tasks.ProgressUpdate) []any {
	kv := []any{"phase", update.Phase, "step", update.Step, "total", update.Total}

	switch data := update.Data.(type) {
	case *models.PlaylistPage:
		kv = append(kv, "offset", data.Offset, "last", data.Last())
	case models.PlaylistSummary:
		kv = append(kv, "playlist", data.ID, "tracks", data.TrackCount)
	case *tasks.PlaylistResult:
		kv = append(kv, "playlist", data.Playlist.ID, "dropped", data.DroppedIDs, "failures", len(data.Failures))
	}
	return kv
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
