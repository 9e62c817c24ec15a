package session

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rewindify/rewindify/internal/shared"
)

// Status represents the authentication state of the workflow.
type Status int

const (
	Unauthenticated Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// AuthClient defines the backend calls the auth workflow depends on.
type AuthClient interface {
	// AuthURL requests the authorization URL for browser navigation.
	AuthURL(ctx context.Context, state string) (string, error)

	// ExchangeCode trades a single-use authorization code for a bearer token.
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// Workflow is the two-state authentication machine gating all other
// operations. Transitions are explicit and independent of any rendering
// mechanism so the machine can be exercised directly in tests.
type Workflow struct {
	store  Store
	client AuthClient
	logger *log.Logger
	status Status
}

// NewWorkflow creates a Workflow whose initial status is Authenticated iff
// the store holds a token. This is a precondition check only; the token is
// not validated against the backend.
func NewWorkflow(store Store, client AuthClient, logger *log.Logger) *Workflow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	status := Unauthenticated
	if _, ok := store.Read(); ok {
		status = Authenticated
	}

	return &Workflow{store: store, client: client, logger: logger, status: status}
}

// Status returns the current authentication state.
func (w *Workflow) Status() Status {
	return w.status
}

// Token returns the persisted bearer token, if present.
func (w *Workflow) Token() (string, bool) {
	return w.store.Read()
}

// Login requests an authorization URL from the backend while Unauthenticated.
// The caller performs the browser navigation. Failures are logged and
// returned without retry; state remains Unauthenticated.
func (w *Workflow) Login(ctx context.Context, state string) (string, error) {
	if w.status == Authenticated {
		return "", fmt.Errorf("%w: already authenticated", shared.ErrInvalidArgument)
	}

	url, err := w.client.AuthURL(ctx, state)
	if err != nil {
		w.logger.Error("failed to get auth URL", "error", err)
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return url, nil
}

// CompleteLogin exchanges an authorization code for a bearer token, persists
// it, and transitions to Authenticated. On failure the state machine and the
// store are untouched; the code is single-use and is not retried.
func (w *Workflow) CompleteLogin(ctx context.Context, code string) error {
	if code == "" {
		return fmt.Errorf("%w: authorization code is required", shared.ErrMissingArgument)
	}

	token, err := w.client.ExchangeCode(ctx, code)
	if err != nil {
		w.logger.Error("code exchange failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := w.store.Write(token); err != nil {
		return fmt.Errorf("failed to persist session token: %w", err)
	}

	w.status = Authenticated
	return nil
}

// Logout clears the store and transitions to Unauthenticated unconditionally.
func (w *Workflow) Logout() error {
	w.status = Unauthenticated
	if err := w.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
