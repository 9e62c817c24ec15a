package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/rewindify/rewindify/internal/session"
	"github.com/rewindify/rewindify/internal/shared"
	tu "github.com/rewindify/rewindify/internal/testing"
	"github.com/urfave/cli/v3"
)

func testRunner(output *bytes.Buffer, store session.Store) *Runner {
	service := &tu.MockService{}
	workflow := session.NewWorkflow(store, service, nil)

	return NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Service: service,
		Session: workflow,
		Output:  output,
	})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			service := &tu.MockService{}
			workflow := session.NewWorkflow(session.NewMemoryStore(), service, nil)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    service,
				Session:    workflow,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.session != workflow {
				t.Error("expected session to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("SetLogger rebuilds the engine", func(t *testing.T) {
		runner := testRunner(&bytes.Buffer{}, session.NewMemoryStore())
		before := runner.engine

		runner.SetLogger(shared.NewLogger(&bytes.Buffer{}))

		if runner.engine == before {
			t.Error("expected engine to be rebuilt")
		}
	})
}

func TestAuthActions(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthStatus reports unauthenticated", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := testRunner(output, session.NewMemoryStore())

		if err := runner.AuthStatus(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("expected unauthenticated message, got %q", output.String())
		}
	})

	t.Run("AuthStatus reports authenticated", func(t *testing.T) {
		store := session.NewMemoryStore()
		store.Write("token")

		output := &bytes.Buffer{}
		runner := testRunner(output, store)

		if err := runner.AuthStatus(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Authenticated") {
			t.Errorf("expected authenticated message, got %q", output.String())
		}
	})

	t.Run("AuthLogout clears the session", func(t *testing.T) {
		store := session.NewMemoryStore()
		store.Write("token")

		output := &bytes.Buffer{}
		runner := testRunner(output, store)

		if err := runner.AuthLogout(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.Read(); ok {
			t.Error("expected token to be cleared")
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("expected logout message, got %q", output.String())
		}
	})
}
