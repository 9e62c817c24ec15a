// package models defines the data model for the Rewindify playlist service
package models

import (
	"fmt"
	"time"
)

// Image represents an album artwork descriptor.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a track artist.
type Artist struct {
	Name string `json:"name"`
}

// Album represents track album metadata with its ordered artwork descriptors.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track represents a single playback history entry.
//
// PlayedAt is absent for tracks not tied to a specific play event.
// Tracks are immutable once fetched and are never persisted.
type Track struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Artists  []Artist   `json:"artists"`
	Album    Album      `json:"album"`
	URI      string     `json:"uri"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
}

// ArtistNames returns the track's artist names in order.
func (t Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// DateRange is a pair of optional timestamps bounding a listening history query.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Complete reports whether both bounds are present.
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Validate checks that both bounds are present and ordered.
func (r DateRange) Validate() error {
	if !r.Complete() {
		return fmt.Errorf("both start and end dates are required")
	}
	if r.End.Before(*r.Start) {
		return fmt.Errorf("start date must not be after end date")
	}
	return nil
}

// ExternalURLs holds per-provider browsing URLs for a created playlist.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// PlaylistResult is the backend's response to a create-playlist request.
//
// Received opaquely and not retained once the user has been offered the URL.
type PlaylistResult struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}
