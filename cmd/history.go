package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rewindify/rewindify/internal/formatter"
	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/urfave/cli/v3"
)

// parseRange builds a [models.DateRange] from YYYY-MM-DD flags. The end date
// is inclusive, so the range extends to the last second of that day.
func parseRange(cmd *cli.Command) (models.DateRange, error) {
	start, err := time.ParseInLocation("2006-01-02", cmd.String("start"), time.UTC)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: invalid start date: %v", shared.ErrInvalidArgument, err)
	}

	end, err := time.ParseInLocation("2006-01-02", cmd.String("end"), time.UTC)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: invalid end date: %v", shared.ErrInvalidArgument, err)
	}

	end = end.Add(24*time.Hour - time.Second)
	if end.Before(start) {
		return models.DateRange{}, fmt.Errorf("%w: end date is before start date", shared.ErrInvalidArgument)
	}

	return models.DateRange{Start: &start, End: &end}, nil
}

// HistoryFetch fetches listening history for a date range and renders it.
func (r *Runner) HistoryFetch(ctx context.Context, cmd *cli.Command) error {
	dateRange, err := parseRange(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	outputFile := cmd.String("output")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Infof("fetching history from %v to %v", cmd.String("start"), cmd.String("end"))

	tracks, err := r.engine.Fetch(ctx, dateRange)
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return r.writePlain("No tracks played in this range.\n")
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	data, err := formatter.Format(format, tracks, dateRange)
	if err != nil {
		return err
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.writePlain("✓ History written to %s (%d tracks)\n", outputFile, len(tracks))
		return nil
	}

	return r.writePlain("%s", string(data))
}
