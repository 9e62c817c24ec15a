// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"

	"github.com/rewindify/rewindify/internal/models"
)

// MockService is a configurable test double for [services.Service].
//
// Each operation counts its invocations so tests can assert that validation
// failures never reach the backend.
type MockService struct {
	AuthURLFunc        func(ctx context.Context, state string) (string, error)
	ExchangeCodeFunc   func(ctx context.Context, code string) (string, error)
	HistoryFunc        func(ctx context.Context, token string, r models.DateRange) ([]models.Track, error)
	CreatePlaylistFunc func(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error)

	AuthURLCalls        int
	ExchangeCodeCalls   int
	HistoryCalls        int
	CreatePlaylistCalls int
}

func (m *MockService) AuthURL(ctx context.Context, state string) (string, error) {
	m.AuthURLCalls++
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(ctx, state)
	}
	return "https://accounts.spotify.com/authorize?state=" + state, nil
}

func (m *MockService) ExchangeCode(ctx context.Context, code string) (string, error) {
	m.ExchangeCodeCalls++
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return "mock_access_token", nil
}

func (m *MockService) History(ctx context.Context, token string, r models.DateRange) ([]models.Track, error) {
	m.HistoryCalls++
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, token, r)
	}
	return []models.Track{}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error) {
	m.CreatePlaylistCalls++
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, token, name, trackURIs)
	}
	return &models.PlaylistResult{ID: "mock_playlist"}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
