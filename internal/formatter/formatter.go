// package formatter provides functions to render fetched listening history in various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/rewindify/rewindify/internal/models"
	"github.com/rewindify/rewindify/internal/shared"
)

// playedAtString renders a track timestamp, or an empty string when the
// track is not tied to a specific play event.
func playedAtString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// HistoryToCSV converts tracks to CSV with columns: ID, Name, Artists, Album, URI, PlayedAt
func HistoryToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Album", "URI", "PlayedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Name,
			strings.Join(track.ArtistNames(), "; "),
			track.Album.Name,
			track.URI,
			playedAtString(track.PlayedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts tracks to a Markdown listing titled with the range.
func HistoryToMarkdown(tracks []models.Track, r models.DateRange) ([]byte, error) {
	var buf bytes.Buffer

	title := "Listening History"
	if r.Complete() {
		title = fmt.Sprintf("Listening History %s to %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, track := range tracks {
		played := ""
		if ts := playedAtString(track.PlayedAt); ts != "" {
			played = fmt.Sprintf(" [%s]", ts)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)%s\n", i+1, strings.Join(track.ArtistNames(), ", "), track.Name, track.Album.Name, played))
	}

	return buf.Bytes(), nil
}

// HistoryToText converts tracks to a plain text listing.
func HistoryToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, strings.Join(track.ArtistNames(), ", "), track.Name))
		if ts := playedAtString(track.PlayedAt); ts != "" {
			buf.WriteString(fmt.Sprintf("   Played: %s\n", ts))
		}
	}

	return buf.Bytes(), nil
}

// HistoryToJSON generates a JSON representation of the track collection.
func HistoryToJSON(tracks []models.Track, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(tracks, pretty)
}

// Format renders tracks in the named format: json, csv, markdown, or text.
func Format(format string, tracks []models.Track, r models.DateRange) ([]byte, error) {
	switch format {
	case "json":
		return HistoryToJSON(tracks, true)
	case "csv":
		return HistoryToCSV(tracks)
	case "markdown", "md":
		return HistoryToMarkdown(tracks, r)
	case "text", "txt", "":
		return HistoryToText(tracks)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}
