package main

import (
	"context"

	"github.com/rewindify/rewindify/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate fetches history for a range and submits it as a playlist.
//
// Tracks are added oldest to newest regardless of how the fetch returned them.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	dateRange, err := parseRange(cmd)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	useJSON := cmd.Bool("json")

	tracks, err := r.engine.Fetch(ctx, dateRange)
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks played in this range, nothing to submit.\n")
	}

	result, err := r.engine.Submit(ctx, tracks, name, dateRange)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlain("✓ Playlist created\n")
	r.writePlain("  Name: %s\n", result.Name)
	r.writePlain("  ID: %s\n", result.ID)
	r.writePlain("  Tracks: %d\n", len(tracks))
	if result.ExternalURLs.Spotify != "" {
		r.writePlain("  URL: %s\n", result.ExternalURLs.Spotify)
	}

	if cmd.Bool("open") && result.ExternalURLs.Spotify != "" {
		if err := shared.OpenBrowser(result.ExternalURLs.Spotify); err != nil {
			r.logger.Warnf("failed to open browser %v", err)
		}
	}

	return nil
}
