package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rewindify/rewindify/internal/shared"
)

type contextKey string

// tokenContextKey carries the bearer token extracted by [RequireBearer].
const tokenContextKey contextKey = "bearer_token"

// requestIDHeader carries the id assigned by [Logging] so responses can be
// correlated with server log lines.
const requestIDHeader = "X-Request-ID"

// Logging assigns each request an id and logs method, path, and duration.
// The id is echoed in the response headers.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := shared.GenerateID()
			w.Header().Set(requestIDHeader, requestID)

			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "id", requestID, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// CORS allows the configured web origin to call the API from a browser.
func CORS(origin string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireBearer rejects requests without an Authorization bearer token and
// stores the token in the request context for handlers.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken returns the token stored by [RequireBearer], if any.
func BearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}
