// Package search implements the interactive lookup over stored lyrics:
// three query modes and column-aligned display rows that keep hold of the
// (artist, song) pair they came from.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sukalov/versuri/internal/db"
)

// Store is the read side of the lyrics cache.
type Store interface {
	All(ctx context.Context) ([]db.Entry, error)
	SearchLyrics(ctx context.Context, substr string) ([]db.Entry, error)
	SearchArtist(ctx context.Context, substr string) ([]db.Entry, error)
}

// Row is one display line. Display is padded so that artist and song
// columns line up across the whole result set; Artist and Song identify
// the entry the row came from.
type Row struct {
	Display string
	Artist  string
	Song    string
}

// Query dispatches on the shape of query:
//
//   - blank: every stored entry, one row each, first lyrics line shown
//   - leading space: entries whose artist contains the trimmed query
//   - anything else: entries whose lyrics contain the query, one row per
//     distinct matching lyrics line
//
// In lyrics mode the query is compiled as a case-insensitive regular
// expression without escaping, so metacharacters keep their meaning.
func Query(ctx context.Context, store Store, query string) ([]Row, error) {
	trimmed := strings.TrimSpace(query)

	switch {
	case trimmed == "":
		entries, err := store.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries: %w", err)
		}
		return firstLineRows(entries), nil

	case strings.HasPrefix(query, " "):
		entries, err := store.SearchArtist(ctx, trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to search by artist: %w", err)
		}
		return firstLineRows(entries), nil

	default:
		entries, err := store.SearchLyrics(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to search lyrics: %w", err)
		}
		pattern, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, fmt.Errorf("invalid search pattern %q: %w", query, err)
		}
		return matchingLineRows(entries, pattern), nil
	}
}

// firstLineRows emits one row per entry, showing the first lyrics line.
func firstLineRows(entries []db.Entry) []Row {
	artistWidth, songWidth := columnWidths(entries)

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row(e, firstLine(e.Lyrics), artistWidth, songWidth))
	}
	return rows
}

// matchingLineRows emits one row per distinct lyrics line matching the
// pattern, so a single entry can contribute several rows.
func matchingLineRows(entries []db.Entry, pattern *regexp.Regexp) []Row {
	artistWidth, songWidth := columnWidths(entries)

	var rows []Row
	for _, e := range entries {
		seen := make(map[string]bool)
		for _, line := range strings.Split(e.Lyrics, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || seen[line] || !pattern.MatchString(line) {
				continue
			}
			seen[line] = true
			rows = append(rows, row(e, line, artistWidth, songWidth))
		}
	}
	return rows
}

func row(e db.Entry, line string, artistWidth, songWidth int) Row {
	return Row{
		Display: fmt.Sprintf("%s  %s  %s", pad(e.Artist, artistWidth), pad(e.Song, songWidth), line),
		Artist:  e.Artist,
		Song:    e.Song,
	}
}

// columnWidths returns the maximum artist and song name widths across the
// fetched entry set.
func columnWidths(entries []db.Entry) (artistWidth, songWidth int) {
	for _, e := range entries {
		if w := utf8.RuneCountInString(e.Artist); w > artistWidth {
			artistWidth = w
		}
		if w := utf8.RuneCountInString(e.Song); w > songWidth {
			songWidth = w
		}
	}
	return artistWidth, songWidth
}

// pad left-aligns s in a field of width runes. Widths are counted in
// runes so multi-byte names line up.
func pad(s string, width int) string {
	if gap := width - utf8.RuneCountInString(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func firstLine(lyrics string) string {
	if i := strings.IndexByte(lyrics, '\n'); i >= 0 {
		return lyrics[:i]
	}
	return lyrics
}
