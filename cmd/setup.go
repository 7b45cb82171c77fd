package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/droplet/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set [history] enabled = true to keep a record of shared files\n")
	r.writePlain("2. Run 'droplet serve --config %s <file>' to start sharing\n", path)
	return nil
}

// SetupDatabase initializes the history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.History
	r.logger.Info("initializing database", "path", cfg.Path, "config", r.configPath)

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", cfg.Path)
	r.writePlain("✓ History database ready at %s (schema version %d)\n", cfg.Path, version)
	if !cfg.Enabled {
		r.writePlain("Recording is off; pass --history to serve or set [history] enabled = true.\n")
	}
	return nil
}
