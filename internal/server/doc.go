// Package server provides HTTP routing, middleware, and the Rewindify API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] with method-qualified patterns.
//
// # API Handlers
//
// [API] serves the four endpoints the client workflow drives:
//
//	GET  /api/auth/url    → {"url": ...}
//	POST /api/auth/token  → Spotify token JSON
//	GET  /api/history     → array of tracks with played_at
//	POST /api/playlist    → created playlist with external URLs
//
// History and playlist routes sit behind [RequireBearer]; error bodies are
// shaped {"detail": "..."} so clients can surface the message directly.
//
// # OAuth Callback Handler
//
// [CallbackHandler] backs the CLI login flow: a temporary HTTP server on the
// configured callback address receives the authorization redirect, validates
// the state parameter, and hands the single-use code to the auth workflow.
// It only processes one callback to prevent replay attacks.
package server
