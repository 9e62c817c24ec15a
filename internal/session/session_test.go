package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rewindify/rewindify/internal/shared"
)

// stubAuthClient is a configurable [AuthClient] for workflow tests.
type stubAuthClient struct {
	authURL      string
	authErr      error
	token        string
	exchangeErr  error
	exchangeHits int
}

func (s *stubAuthClient) AuthURL(ctx context.Context, state string) (string, error) {
	if s.authErr != nil {
		return "", s.authErr
	}
	return s.authURL + "?state=" + state, nil
}

func (s *stubAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	s.exchangeHits++
	if s.exchangeErr != nil {
		return "", s.exchangeErr
	}
	return s.token, nil
}

func TestWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("NewWorkflow", func(t *testing.T) {
		t.Run("starts unauthenticated with empty store", func(t *testing.T) {
			w := NewWorkflow(NewMemoryStore(), &stubAuthClient{}, nil)

			if w.Status() != Unauthenticated {
				t.Errorf("expected unauthenticated, got %v", w.Status())
			}
		})

		t.Run("starts authenticated when store holds a token", func(t *testing.T) {
			store := NewMemoryStore()
			if err := store.Write("existing"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			w := NewWorkflow(store, &stubAuthClient{}, nil)

			if w.Status() != Authenticated {
				t.Errorf("expected authenticated, got %v", w.Status())
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("returns the authorization URL", func(t *testing.T) {
			client := &stubAuthClient{authURL: "https://accounts.spotify.com/authorize"}
			w := NewWorkflow(NewMemoryStore(), client, nil)

			url, err := w.Login(ctx, "abc123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(url, "state=abc123") {
				t.Errorf("expected state in URL, got %q", url)
			}
			if w.Status() != Unauthenticated {
				t.Error("expected status to remain unauthenticated until exchange")
			}
		})

		t.Run("rejected while authenticated", func(t *testing.T) {
			store := NewMemoryStore()
			store.Write("token")
			w := NewWorkflow(store, &stubAuthClient{}, nil)

			if _, err := w.Login(ctx, "state"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("wraps backend failures without state change", func(t *testing.T) {
			client := &stubAuthClient{authErr: errors.New("connection refused")}
			w := NewWorkflow(NewMemoryStore(), client, nil)

			_, err := w.Login(ctx, "state")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if w.Status() != Unauthenticated {
				t.Error("expected status to remain unauthenticated")
			}
		})
	})

	t.Run("CompleteLogin", func(t *testing.T) {
		t.Run("persists token and transitions to authenticated", func(t *testing.T) {
			store := NewMemoryStore()
			client := &stubAuthClient{token: "bearer_token"}
			w := NewWorkflow(store, client, nil)

			if err := w.CompleteLogin(ctx, "auth_code"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if w.Status() != Authenticated {
				t.Error("expected authenticated status")
			}
			token, ok := store.Read()
			if !ok || token != "bearer_token" {
				t.Errorf("expected persisted token, got %q", token)
			}
			token, ok = w.Token()
			if !ok || token != "bearer_token" {
				t.Errorf("expected workflow token, got %q", token)
			}
		})

		t.Run("rejects empty code without calling backend", func(t *testing.T) {
			client := &stubAuthClient{}
			w := NewWorkflow(NewMemoryStore(), client, nil)

			if err := w.CompleteLogin(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
			if client.exchangeHits != 0 {
				t.Errorf("expected no exchange attempt, got %d", client.exchangeHits)
			}
		})

		t.Run("failed exchange leaves store and state untouched", func(t *testing.T) {
			store := NewMemoryStore()
			client := &stubAuthClient{exchangeErr: errors.New("invalid code")}
			w := NewWorkflow(store, client, nil)

			err := w.CompleteLogin(ctx, "stale_code")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if w.Status() != Unauthenticated {
				t.Error("expected status to remain unauthenticated")
			}
			if _, ok := store.Read(); ok {
				t.Error("expected store to remain empty")
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("clears store and transitions to unauthenticated", func(t *testing.T) {
			store := NewMemoryStore()
			store.Write("token")
			w := NewWorkflow(store, &stubAuthClient{}, nil)

			if err := w.Logout(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if w.Status() != Unauthenticated {
				t.Error("expected unauthenticated status")
			}
			if _, ok := store.Read(); ok {
				t.Error("expected store to be cleared")
			}
		})

		t.Run("succeeds while already unauthenticated", func(t *testing.T) {
			w := NewWorkflow(NewMemoryStore(), &stubAuthClient{}, nil)

			if err := w.Logout(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Status strings", func(t *testing.T) {
		if Unauthenticated.String() != "unauthenticated" {
			t.Errorf("unexpected string %q", Unauthenticated.String())
		}
		if Authenticated.String() != "authenticated" {
			t.Errorf("unexpected string %q", Authenticated.String())
		}
	})
}
