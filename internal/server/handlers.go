package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
	"golang.org/x/oauth2"
)

// SpotifyAPI is the server's view of the Spotify client, abstracted for tests.
type SpotifyAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	RecentlyPlayed(ctx context.Context, token string, start, end time.Time) ([]models.Track, error)
	CreatePlaylist(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error)
}

// API serves the Rewindify endpoints, proxying the Spotify Web API.
type API struct {
	spotify SpotifyAPI
	logger  *log.Logger
}

// NewAPI creates the API handler set.
func NewAPI(spotify SpotifyAPI, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &API{spotify: spotify, logger: logger}
}

// Register wires the API routes into the router. The history and playlist
// endpoints require a bearer token.
func (a *API) Register(router Router) {
	router.Handle("GET /api/auth/url", http.HandlerFunc(a.GetAuthURL))
	router.Handle("POST /api/auth/token", http.HandlerFunc(a.ExchangeToken))
	router.Handle("GET /api/history", RequireBearer(http.HandlerFunc(a.GetHistory)))
	router.Handle("POST /api/playlist", RequireBearer(http.HandlerFunc(a.CreatePlaylist)))
}

// GetAuthURL returns the Spotify authorization URL, passing through an
// optional state parameter for CSRF protection on the caller's side.
func (a *API) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	writeJSON(w, http.StatusOK, map[string]string{"url": a.spotify.AuthCodeURL(state)})
}

// ExchangeToken trades an authorization code for Spotify tokens.
func (a *API) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Code == "" {
		writeDetail(w, http.StatusBadRequest, "authorization code is required")
		return
	}

	token, err := a.spotify.Exchange(r.Context(), request.Code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("token exchange failed: %v", err))
		return
	}

	response := map[string]any{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
	}
	if token.RefreshToken != "" {
		response["refresh_token"] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		response["expires_in"] = int(time.Until(token.Expiry).Seconds())
	}

	writeJSON(w, http.StatusOK, response)
}

// GetHistory returns the tracks played inside the requested window.
func (a *API) GetHistory(w http.ResponseWriter, r *http.Request) {
	token, _ := BearerToken(r.Context())

	start, err := parseTimestamp(r.URL.Query().Get("start_date"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid start_date: %v", err))
		return
	}

	end, err := parseTimestamp(r.URL.Query().Get("end_date"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid end_date: %v", err))
		return
	}

	tracks, err := a.spotify.RecentlyPlayed(r.Context(), token, start, end)
	if err != nil {
		a.logger.Error("history fetch failed", "error", err)
		writeDetail(w, http.StatusBadGateway, "failed to fetch listening history")
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

// CreatePlaylist creates a playlist from the submitted ordered track URIs.
func (a *API) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	token, _ := BearerToken(r.Context())

	var request struct {
		Name      string   `json:"name"`
		TrackURIs []string `json:"track_uris"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" || len(request.TrackURIs) == 0 {
		writeDetail(w, http.StatusBadRequest, "name and track_uris are required")
		return
	}

	playlist, err := a.spotify.CreatePlaylist(r.Context(), token, request.Name, request.TrackURIs)
	if err != nil {
		a.logger.Error("playlist creation failed", "error", err)
		writeDetail(w, http.StatusBadGateway, "failed to create playlist")
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing")
	}
	return time.Parse(time.RFC3339, value)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDetail writes an error body shaped like {"detail": "..."} so clients
// can surface the message directly.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
