package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rewindify/rewindify/internal/server"
	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the browser OAuth flow.
//
// Requests an authorization URL from the backend, starts a local HTTP server
// for the redirect, opens the browser, then exchanges the captured code for a
// bearer token and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session.Status() == session.Authenticated {
		r.writePlain("✓ Already logged in\n")
		r.writePlain("Run 'rewindify auth logout' first to log in again.\n")
		return nil
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL, err := r.session.Login(ctx, state)
	if err != nil {
		if errors.Is(err, shared.ErrAuthFailed) {
			return fmt.Errorf("%w: is the API server running at %s?", shared.ErrServiceUnavailable, r.config.Backend.BaseURL)
		}
		return err
	}

	code, err := r.waitForCallback(ctx, cmd, state, authURL)
	if err != nil {
		return err
	}

	if err := r.session.CompleteLogin(ctx, code); err != nil {
		return err
	}

	r.writePlainln("✓ Logged in to Spotify")
	return nil
}

// waitForCallback runs the local redirect listener and returns the captured
// authorization code.
func (r *Runner) waitForCallback(ctx context.Context, cmd *cli.Command, state, authURL string) (string, error) {
	handler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Callback.Host, r.config.Callback.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	return result.Code, nil
}

// AuthLogout clears the stored session token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return err
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus shows the current authentication state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session.Status() == session.Authenticated {
		return r.writePlain("Authentication: ✓ Authenticated\n")
	}
	return r.writePlain("Authentication: ✗ Not authenticated\n")
}
