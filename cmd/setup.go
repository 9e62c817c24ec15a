package main

import (
	"context"
	"fmt"

	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a starter config file and initializes the session database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warnf("config file not created %v", err)
	} else {
		r.writePlain("✓ Config file created at %s\n", configPath)
		r.writePlain("  Edit it to add your Spotify credentials before running 'rewindify serve'.\n")
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		config = r.config
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if _, err := session.NewSQLiteStore(db); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	r.writePlain("✓ Session database initialized at %s\n", config.Database.Path)
	return nil
}
