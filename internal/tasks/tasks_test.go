package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	tu "github.com/rewindify/rewindify/internal/testing"
)

func ts(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func fullRange() models.DateRange {
	return models.DateRange{Start: ts("2024-01-01T00:00:00Z"), End: ts("2024-01-31T23:59:59Z")}
}

func authenticatedSession(t *testing.T) *session.Workflow {
	t.Helper()
	store := session.NewMemoryStore()
	if err := store.Write("test_token"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return session.NewWorkflow(store, nil, nil)
}

func TestEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetch", func(t *testing.T) {
		t.Run("returns history for a complete range", func(t *testing.T) {
			mock := &tu.MockService{
				HistoryFunc: func(ctx context.Context, token string, r models.DateRange) ([]models.Track, error) {
					if token != "test_token" {
						t.Errorf("expected session token, got %q", token)
					}
					return []models.Track{{ID: "a"}, {ID: "b"}}, nil
				},
			}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			tracks, err := engine.Fetch(ctx, fullRange())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 2 {
				t.Errorf("expected 2 tracks, got %d", len(tracks))
			}
			if mock.HistoryCalls != 1 {
				t.Errorf("expected 1 history call, got %d", mock.HistoryCalls)
			}
		})

		t.Run("incomplete range issues no request", func(t *testing.T) {
			mock := &tu.MockService{}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			_, err := engine.Fetch(ctx, models.DateRange{Start: ts("2024-01-01T00:00:00Z")})
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if mock.HistoryCalls != 0 {
				t.Errorf("expected no history calls, got %d", mock.HistoryCalls)
			}
		})

		t.Run("inverted range issues no request", func(t *testing.T) {
			mock := &tu.MockService{}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			r := models.DateRange{Start: ts("2024-02-01T00:00:00Z"), End: ts("2024-01-01T00:00:00Z")}
			if _, err := engine.Fetch(ctx, r); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if mock.HistoryCalls != 0 {
				t.Errorf("expected no history calls, got %d", mock.HistoryCalls)
			}
		})

		t.Run("requires authentication", func(t *testing.T) {
			mock := &tu.MockService{}
			sess := session.NewWorkflow(session.NewMemoryStore(), nil, nil)
			engine := NewEngine(mock, sess, nil)

			if _, err := engine.Fetch(ctx, fullRange()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if mock.HistoryCalls != 0 {
				t.Errorf("expected no history calls, got %d", mock.HistoryCalls)
			}
		})

		t.Run("propagates service errors", func(t *testing.T) {
			mock := &tu.MockService{
				HistoryFunc: func(ctx context.Context, token string, r models.DateRange) ([]models.Track, error) {
					return nil, &shared.BackendError{StatusCode: 502, Detail: "upstream down"}
				},
			}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			_, err := engine.Fetch(ctx, fullRange())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Submit", func(t *testing.T) {
		tracks := []models.Track{
			{ID: "late", URI: "spotify:track:late", PlayedAt: ts("2024-01-20T10:00:00Z")},
			{ID: "early", URI: "spotify:track:early", PlayedAt: ts("2024-01-05T10:00:00Z")},
		}

		t.Run("submits chronological URIs regardless of given order", func(t *testing.T) {
			var gotURIs []string
			mock := &tu.MockService{
				CreatePlaylistFunc: func(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
					gotURIs = trackURIs
					return &models.PlaylistResult{ID: "pl1", Name: name}, nil
				},
			}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			result, err := engine.Submit(ctx, tracks, "My Playlist", fullRange())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.ID != "pl1" {
				t.Errorf("expected playlist id pl1, got %q", result.ID)
			}
			if len(gotURIs) != 2 || gotURIs[0] != "spotify:track:early" || gotURIs[1] != "spotify:track:late" {
				t.Errorf("expected chronological URIs, got %v", gotURIs)
			}
		})

		t.Run("empty collection issues no request", func(t *testing.T) {
			mock := &tu.MockService{}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			_, err := engine.Submit(ctx, nil, "name", fullRange())
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if mock.CreatePlaylistCalls != 0 {
				t.Errorf("expected no create calls, got %d", mock.CreatePlaylistCalls)
			}
		})

		t.Run("defaults the playlist name from the range", func(t *testing.T) {
			var gotName string
			mock := &tu.MockService{
				CreatePlaylistFunc: func(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
					gotName = name
					return &models.PlaylistResult{ID: "pl2", Name: name}, nil
				},
			}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			if _, err := engine.Submit(ctx, tracks, "", fullRange()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotName != "Rewindify 1/1/2024 to 1/31/2024" {
				t.Errorf("expected default name, got %q", gotName)
			}
		})

		t.Run("requires authentication", func(t *testing.T) {
			mock := &tu.MockService{}
			sess := session.NewWorkflow(session.NewMemoryStore(), nil, nil)
			engine := NewEngine(mock, sess, nil)

			if _, err := engine.Submit(ctx, tracks, "name", fullRange()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if mock.CreatePlaylistCalls != 0 {
				t.Errorf("expected no create calls, got %d", mock.CreatePlaylistCalls)
			}
		})

		t.Run("wraps service failures", func(t *testing.T) {
			mock := &tu.MockService{
				CreatePlaylistFunc: func(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
					return nil, &shared.BackendError{StatusCode: 400, Detail: "bad request"}
				},
			}
			engine := NewEngine(mock, authenticatedSession(t), nil)

			_, err := engine.Submit(ctx, tracks, "name", fullRange())
			if err == nil {
				t.Fatal("expected error")
			}
			var backendErr *shared.BackendError
			if !errors.As(err, &backendErr) {
				t.Errorf("expected BackendError in chain, got %v", err)
			}
		})
	})
}
