package main

import (
	"context"
	"os"

	"github.com/desertthunder/featx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := run(context.Background(), os.Args, RunnerOpts{Logger: logger}); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// run builds the command tree and executes args. Command errors are returned unchanged.
func run(ctx context.Context, args []string, opts RunnerOpts) error {
	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "featx",
		Usage:    "Audio-feature profiles of Spotify playlists and listening history exports",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	return app.Run(ctx, args)
}
