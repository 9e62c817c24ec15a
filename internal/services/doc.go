// Package services implements the HTTP clients on both sides of the
// Rewindify API boundary.
//
// # Service Interface
//
// [Service] is the client workflow's view of the backend: authorization URL
// retrieval, code exchange, history fetch, and playlist creation. The CLI,
// TUI, and task engine depend only on this interface so the backend can be
// replaced with a test double.
//
// # Rewindify Client
//
// [RewindService] implements [Service] over the four API endpoints. Failure
// responses are surfaced as [shared.BackendError] values carrying the
// backend's detail string when one is present. Nothing is retried; a second
// in-flight call is not deduplicated and the later response wins.
//
// # Spotify Client
//
// [SpotifyClient] is the server side: a typed client for the Spotify Web
// API using [oauth2] for the authorize/token endpoints. History retrieval
// pages the recently-played cursor backwards from the end of the window and
// playlist creation batches track additions; both are throttled with
// [rate.Limiter] to stay inside Spotify's rate limits.
package services
