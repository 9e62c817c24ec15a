// HTTP client for the Rewindify API server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
)

// RewindService implements [Service] against a Rewindify API server.
//
// All four endpoints are discrete request/response cycles. Requests are not
// retried and concurrent invocations are not deduplicated; the caller's flow
// is the only safeguard against overlapping calls.
type RewindService struct {
	baseURL    string
	httpClient *http.Client
}

// NewRewindService creates a client for the Rewindify API at baseURL.
func NewRewindService(baseURL string, client *http.Client) *RewindService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RewindService{baseURL: baseURL, httpClient: client}
}

func (s *RewindService) Name() string {
	return "Rewindify"
}

// do issues a request and decodes a JSON success body into result.
// Non-2xx responses become a [shared.BackendError] carrying the backend's
// detail message when one is present.
func (s *RewindService) do(ctx context.Context, method, path, token string, body, result any) error {
	endpoint := s.baseURL + path

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &shared.BackendError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// AuthURL requests the authorization URL from GET /api/auth/url.
func (s *RewindService) AuthURL(ctx context.Context, state string) (string, error) {
	path := "/api/auth/url"
	if state != "" {
		path += "?state=" + url.QueryEscape(state)
	}

	var response struct {
		URL string `json:"url"`
	}
	if err := s.do(ctx, http.MethodGet, path, "", nil, &response); err != nil {
		return "", err
	}

	if response.URL == "" {
		return "", fmt.Errorf("%w: empty authorization URL in response", shared.ErrAPIRequest)
	}

	return response.URL, nil
}

// ExchangeCode trades an authorization code for a bearer token via POST /api/auth/token.
func (s *RewindService) ExchangeCode(ctx context.Context, code string) (string, error) {
	request := struct {
		Code string `json:"code"`
	}{Code: code}

	var response struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/auth/token", "", request, &response); err != nil {
		return "", err
	}

	if response.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", shared.ErrAuthFailed)
	}

	return response.AccessToken, nil
}

// History retrieves play history for the range via GET /api/history.
//
// Both bounds are serialized as UTC RFC3339. An incomplete range is a
// validation error and no request is issued.
func (s *RewindService) History(ctx context.Context, token string, r models.DateRange) ([]models.Track, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := url.Values{}
	query.Set("start_date", r.Start.UTC().Format(time.RFC3339))
	query.Set("end_date", r.End.UTC().Format(time.RFC3339))

	var tracks []models.Track
	if err := s.do(ctx, http.MethodGet, "/api/history?"+query.Encode(), token, nil, &tracks); err != nil {
		return nil, err
	}

	return tracks, nil
}

// CreatePlaylist submits the ordered URIs via POST /api/playlist.
func (s *RewindService) CreatePlaylist(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
	request := struct {
		Name      string   `json:"name"`
		TrackURIs []string `json:"track_uris"`
	}{Name: name, TrackURIs: trackURIs}

	var result models.PlaylistResult
	if err := s.do(ctx, http.MethodPost, "/api/playlist", token, request, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
