package search

import (
	"context"
	"strings"
	"testing"

	"github.com/sukalov/versuri/internal/db"
)

// fakeStore records which query mode was used.
type fakeStore struct {
	entries    []db.Entry
	lastMethod string
	lastArg    string
}

func (s *fakeStore) All(_ context.Context) ([]db.Entry, error) {
	s.lastMethod = "all"
	return s.entries, nil
}

func (s *fakeStore) SearchLyrics(_ context.Context, substr string) ([]db.Entry, error) {
	s.lastMethod = "lyrics"
	s.lastArg = substr
	return s.entries, nil
}

func (s *fakeStore) SearchArtist(_ context.Context, substr string) ([]db.Entry, error) {
	s.lastMethod = "artist"
	s.lastArg = substr
	return s.entries, nil
}

func TestQueryModeDispatch(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMethod string
		wantArg    string
	}{
		{name: "empty is ALL", query: "", wantMethod: "all"},
		{name: "blank is ALL", query: "   ", wantMethod: "all"},
		{name: "leading space is ARTIST", query: " beatles", wantMethod: "artist", wantArg: "beatles"},
		{name: "plain text is LYRICS", query: "love", wantMethod: "lyrics", wantArg: "love"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			if _, err := Query(context.Background(), store, tt.query); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.lastMethod != tt.wantMethod {
				t.Errorf("method = %q, want %q", store.lastMethod, tt.wantMethod)
			}
			if tt.wantArg != "" && store.lastArg != tt.wantArg {
				t.Errorf("arg = %q, want %q", store.lastArg, tt.wantArg)
			}
		})
	}
}

func TestQueryAllShowsFirstLine(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{
		{Artist: "Queen", Song: "39", Lyrics: "in the year of 39\nassembled here the volunteers"},
	}}

	rows, err := Query(context.Background(), store, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !strings.HasSuffix(rows[0].Display, "in the year of 39") {
		t.Errorf("display %q should end with the first lyrics line", rows[0].Display)
	}
}

func TestQueryLyricsMultiRowExpansion(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{
		{
			Artist: "The Beatles",
			Song:   "All You Need Is Love",
			Lyrics: "love love love\nnothing you can do\nlove love love\nall you need is love\nlove is all you need",
		},
	}}

	rows, err := Query(context.Background(), store, "love")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// four lines match but "love love love" appears twice and collapses
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %v", len(rows), rows)
	}
	for _, r := range rows {
		if r.Artist != "The Beatles" || r.Song != "All You Need Is Love" {
			t.Errorf("row lost its identity: %+v", r)
		}
	}
}

func TestQueryLyricsMatchIsCaseInsensitive(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{
		{Artist: "a", Song: "b", Lyrics: "LOVE is loud\nno match here"},
	}}

	rows, err := Query(context.Background(), store, "love")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestQueryLyricsPatternIsRegexp(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{
		{Artist: "a", Song: "b", Lyrics: "cat\ncot\ncut\ncart"},
	}}

	rows, err := Query(context.Background(), store, "c.t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 rows for pattern match, got %d", len(rows))
	}
}

func TestQueryInvalidPattern(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{{Artist: "a", Song: "b", Lyrics: "x["}}}

	if _, err := Query(context.Background(), store, "x["); err == nil {
		t.Error("expected an error for an unparseable pattern")
	}
}

func TestQueryAlignment(t *testing.T) {
	store := &fakeStore{entries: []db.Entry{
		{Artist: "Ъ", Song: "Короткая", Lyrics: "строка раз"},
		{Artist: "Some Long Artist Name", Song: "S", Lyrics: "another line"},
	}}

	rows, err := Query(context.Background(), store, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// artist column width 21, song column width 8, counted in runes
	want := []string{
		"Ъ" + strings.Repeat(" ", 20) + "  Короткая  строка раз",
		"Some Long Artist Name  S" + strings.Repeat(" ", 7) + "  another line",
	}
	for i, r := range rows {
		if r.Display != want[i] {
			t.Errorf("row %d display = %q, want %q", i, r.Display, want[i])
		}
	}
}

func TestQueryEmptyResultSet(t *testing.T) {
	store := &fakeStore{}

	rows, err := Query(context.Background(), store, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
