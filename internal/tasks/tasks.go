// package tasks implements the fetch and submission workflows on top of the
// backend service and the authentication session.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/services"
	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/rewindify/rewindify/internal/tracklist"
)

// Engine orchestrates the authenticated request/response cycles of the
// client workflow: history fetch and playlist submission.
//
// Neither operation retries or deduplicates concurrent invocations; when two
// overlap, the later response overwrites whatever shared state the caller
// keeps.
type Engine struct {
	service services.Service
	session *session.Workflow
	logger  *log.Logger
}

// NewEngine creates an Engine with the provided dependencies.
func NewEngine(service services.Service, sess *session.Workflow, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{service: service, session: sess, logger: logger}
}

// Fetch retrieves the play history for the range.
//
// Both range bounds must be present and the session must hold a token;
// either precondition failure means no request is issued. On failure the
// caller's previous collection is left alone, since nothing is returned.
func (e *Engine) Fetch(ctx context.Context, r models.DateRange) ([]models.Track, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	token, ok := e.session.Token()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	tracks, err := e.service.History(ctx, token, r)
	if err != nil {
		e.logger.Error("history fetch failed", "error", err)
		return nil, err
	}

	e.logger.Info("fetched history", "tracks", len(tracks))
	return tracks, nil
}

// Submit creates a playlist from the collection.
//
// The submitted order is always the chronological sort of the collection,
// regardless of any manual reordering. An empty collection is a validation
// error and no request is issued. When name is empty the default
// "Rewindify {start} to {end}" name is used. On failure the caller's state
// is untouched so the user may retry; resubmitting after success creates a
// second playlist.
func (e *Engine) Submit(ctx context.Context, tracks []models.Track, name string, r models.DateRange) (*models.PlaylistResult, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: track collection is empty", shared.ErrValidation)
	}

	token, ok := e.session.Token()
	if !ok {
		return nil, shared.ErrNotAuthenticated
	}

	if name == "" {
		name = tracklist.DefaultName(r)
	}

	uris := tracklist.URIs(tracklist.Chronological(tracks))

	result, err := e.service.CreatePlaylist(ctx, token, name, uris)
	if err != nil {
		e.logger.Error("playlist submission failed", "error", err)
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	e.logger.Info("playlist created", "name", name, "id", result.ID)
	return result, nil
}
