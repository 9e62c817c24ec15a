// package tracklist implements the in-memory track collection the user
// curates between fetch and submission.
package tracklist

import (
	"fmt"
	"sort"

	"github.com/rewindify/rewindify/internal/models"
)

// Editor holds the current track collection as ordered, mutable state.
//
// Reorder and Remove mutate the stored order, which is what drag-style
// curation operates on. Rendering and submission always go through the
// chronological view instead, so manual reordering is cosmetic; see
// [Chronological].
type Editor struct {
	tracks []models.Track
}

// NewEditor creates an Editor over a copy of the given collection.
func NewEditor(tracks []models.Track) *Editor {
	e := &Editor{}
	e.SetTracks(tracks)
	return e
}

// SetTracks replaces the collection.
func (e *Editor) SetTracks(tracks []models.Track) {
	e.tracks = make([]models.Track, len(tracks))
	copy(e.tracks, tracks)
}

// Tracks returns a copy of the stored collection in its current order.
func (e *Editor) Tracks() []models.Track {
	out := make([]models.Track, len(e.tracks))
	copy(out, e.tracks)
	return out
}

// Len returns the number of tracks in the collection.
func (e *Editor) Len() int {
	return len(e.tracks)
}

// Reorder removes the element at from and reinserts it at to.
// Valid indices are the caller's precondition.
func (e *Editor) Reorder(from, to int) error {
	if from < 0 || from >= len(e.tracks) || to < 0 || to >= len(e.tracks) {
		return fmt.Errorf("reorder indices out of range: %d -> %d (len %d)", from, to, len(e.tracks))
	}
	if from == to {
		return nil
	}

	track := e.tracks[from]
	e.tracks = append(e.tracks[:from], e.tracks[from+1:]...)

	e.tracks = append(e.tracks, models.Track{})
	copy(e.tracks[to+1:], e.tracks[to:])
	e.tracks[to] = track
	return nil
}

// Remove deletes the element at index i.
func (e *Editor) Remove(i int) error {
	if i < 0 || i >= len(e.tracks) {
		return fmt.Errorf("remove index out of range: %d (len %d)", i, len(e.tracks))
	}
	e.tracks = append(e.tracks[:i], e.tracks[i+1:]...)
	return nil
}

// DisplayOrder returns the collection sorted ascending by played_at.
// This is a view; the stored order is untouched.
func (e *Editor) DisplayOrder() []models.Track {
	return Chronological(e.tracks)
}

// Chronological returns a stable, ascending played_at sort of tracks.
//
// Any pair involving a track without a timestamp compares equal, so the
// stable sort preserves their relative position.
func Chronological(tracks []models.Track) []models.Track {
	sorted := make([]models.Track, len(tracks))
	copy(sorted, tracks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PlayedAt, sorted[j].PlayedAt
		if a == nil || b == nil {
			return false
		}
		return a.Before(*b)
	})

	return sorted
}

// URIs extracts the playback URI of each track in the given order.
func URIs(tracks []models.Track) []string {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris
}

// DefaultName builds the fallback playlist name from the range's calendar
// dates, e.g. "Rewindify 1/1/2024 to 1/31/2024".
func DefaultName(r models.DateRange) string {
	if !r.Complete() {
		return "Rewindify"
	}
	return fmt.Sprintf("Rewindify %s to %s", r.Start.Format("1/2/2006"), r.End.Format("1/2/2006"))
}
