package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/rewindify/rewindify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for curating a playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.session.Status() != session.Authenticated {
		return shared.ErrNotAuthenticated
	}

	dateRange, err := parseRange(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/rewindify-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, dateRange)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
