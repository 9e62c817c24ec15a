// package services defines interface Service for interacting with the Rewindify HTTP API
package services

import (
	"context"

	"github.com/rewindify/rewindify/internal/models"
)

// Service defines the backend operations the client workflow drives:
// authentication, history retrieval, and playlist creation.
type Service interface {
	// AuthURL requests the authorization URL for browser navigation.
	AuthURL(ctx context.Context, state string) (string, error)

	// ExchangeCode trades an authorization code for a bearer token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// History retrieves the play history inside the given range.
	// Both range bounds must be present; no request is issued otherwise.
	History(ctx context.Context, token string, r models.DateRange) ([]models.Track, error)

	// CreatePlaylist submits an ordered list of track URIs as a new playlist.
	CreatePlaylist(ctx context.Context, token, name string, trackURIs []string) (*models.PlaylistResult, error)

	// Name returns the name of the service.
	Name() string
}
