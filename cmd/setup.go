package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/featx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("Edit %s and set credentials.spotify or %s/%s\n", configPath, shared.EnvClientID, shared.EnvClientSecret)
}

// SetupDatabase creates the export database and runs migrations, or reverts the latest one with --rollback.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	path := config.Output.Database
	if cmd.IsSet("db") {
		path = cmd.String("db")
	}
	if path == "" {
		return fmt.Errorf("%w: set output.database or --db", shared.ErrMissingArgument)
	}

	r.logger.Info("initializing database", "path", path)

	db, err := shared.OpenExportDatabase(path, config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		r.logger.Info("rolled back latest migration", "path", path)
		return nil
	}

	r.logger.Infof("setup complete for database: %v", path)
	return nil
}
