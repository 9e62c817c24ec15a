package main

import (
	"context"
	"errors"
	"os"

	"github.com/rewindify/rewindify/internal/services"
	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var store session.Store
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if sqlStore, err := session.NewSQLiteStore(db); err == nil {
			store = sqlStore
		} else {
			logger.Warnf("session table unavailable, using in-memory store %v", err)
			store = session.NewMemoryStore()
		}
	} else {
		logger.Warnf("session database unavailable, using in-memory store %v", err)
		store = session.NewMemoryStore()
	}

	service := services.NewRewindService(config.Backend.BaseURL, nil)
	workflow := session.NewWorkflow(store, service, logger)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: service,
		Session: workflow,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "rewindify",
		Usage:    "Turn your Spotify listening history into playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatal("not logged in, run: rewindify auth login")
		}
		logger.Fatalf("application error: %v", err)
	}
}
