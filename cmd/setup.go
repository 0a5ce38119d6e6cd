package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ferndazed/chorus/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		if err := r.loadConfig(cmd); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if err := r.loadConfig(cmd); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// SetupConfig writes a config.toml template for the user to fill in.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")

	if err := shared.CreateConfigFile(outputPath); err != nil {
		return err
	}

	r.writePlain("✓ Config template written to %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add Spotify client credentials under [credentials.spotify]\n")
	r.writePlain("2. Add an Apple Music developer token under [credentials.applemusic]\n")
	r.writePlain("3. Run 'chorus setup database' to initialize the local store\n")

	return nil
}
