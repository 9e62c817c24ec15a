// Spotify Web API client used by the Rewindify API server
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// historyPageLimit is the page size for recently-played requests.
	historyPageLimit = 50
	// historyMaxTracks caps how many history entries a single fetch returns.
	historyMaxTracks = 100
	// playlistBatchSize is Spotify's per-request limit when adding tracks.
	playlistBatchSize = 100
)

// playlistDescription tags playlists created through the API server.
const playlistDescription = "Created with Rewindify"

// spotifyUser is the subset of the user profile the server needs.
type spotifyUser struct {
	ID string `json:"id"`
}

// playHistoryItem is one entry of a recently-played page. The embedded track
// decodes directly into the domain model; played_at lives on the item.
type playHistoryItem struct {
	Track    models.Track `json:"track"`
	PlayedAt time.Time    `json:"played_at"`
}

// recentlyPlayedPage is a cursor-paginated recently-played response.
type recentlyPlayedPage struct {
	Items []playHistoryItem `json:"items"`
	Next  string            `json:"next"`
}

// SpotifyClient talks to the Spotify Web API on behalf of the API server.
//
// Bearer tokens are passed per call rather than held on the client: the
// server acts for whichever user the incoming request authenticates.
// Paginated and batched operations are throttled with a shared limiter.
type SpotifyClient struct {
	config     *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyClient creates a Spotify client from OAuth2 credentials.
func NewSpotifyClient(credentials map[string]string) (*SpotifyClient, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-recently-played",
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyClient{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

// AuthCodeURL returns the Spotify authorization URL for user login.
func (c *SpotifyClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an OAuth2 token.
func (c *SpotifyClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// doRequest performs an authenticated request against the Spotify API.
func (c *SpotifyClient) doRequest(ctx context.Context, method, apiURL, token string, body, result any) (int, error) {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// RecentlyPlayed pages backwards through the user's recently-played history
// from end and returns the entries whose played_at falls inside [start, end],
// newest page first, capped at historyMaxTracks.
//
// Paging stops as soon as an entry predates start; page fetches are
// throttled by the client limiter.
func (c *SpotifyClient) RecentlyPlayed(ctx context.Context, token string, start, end time.Time) ([]models.Track, error) {
	tracks := []models.Track{}
	nextURL := fmt.Sprintf("%s/me/player/recently-played?limit=%d&before=%d", c.baseURL, historyPageLimit, end.UnixMilli())

	for nextURL != "" && len(tracks) < historyMaxTracks {
		var page recentlyPlayedPage
		if _, err := c.doRequest(ctx, http.MethodGet, nextURL, token, nil, &page); err != nil {
			return nil, err
		}

		nextURL = page.Next
		for _, item := range page.Items {
			if item.PlayedAt.Before(start) {
				nextURL = ""
				break
			}
			if !item.PlayedAt.After(end) {
				track := item.Track
				playedAt := item.PlayedAt
				track.PlayedAt = &playedAt
				tracks = append(tracks, track)
			}
		}

		if nextURL != "" {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
			}
		}
	}

	return tracks, nil
}

// CreatePlaylist creates a playlist for the authenticated user and adds the
// given track URIs in order, batched per Spotify's per-request limit.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
	var user spotifyUser
	if _, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/me", token, nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	createBody := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}{Name: name, Description: playlistDescription}

	var playlist models.PlaylistResult
	createURL := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, user.ID)
	if _, err := c.doRequest(ctx, http.MethodPost, createURL, token, createBody, &playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	addURL := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, playlist.ID)
	for i := 0; i < len(trackURIs); i += playlistBatchSize {
		if i > 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
			}
		}

		batch := trackURIs[i:min(i+playlistBatchSize, len(trackURIs))]
		addBody := struct {
			URIs []string `json:"uris"`
		}{URIs: batch}

		if _, err := c.doRequest(ctx, http.MethodPost, addURL, token, addBody, nil); err != nil {
			return nil, fmt.Errorf("failed to add tracks to playlist: %w", err)
		}
	}

	return &playlist, nil
}
