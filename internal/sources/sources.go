package sources

import (
	"strings"
	"sync"
)

// Source describes one lyrics website: where to ask for a song and how to
// pull the text out of the response.
type Source struct {
	Name string
	// URLTemplate contains {artist} and {song} placeholders. A template
	// without placeholders yields a constant URL.
	URLTemplate string
	// Separator replaces spaces in artist and song names before they are
	// substituted into the template.
	Separator string
	// Selector is the CSS selector for the elements holding the lyrics.
	// Empty means the whole response body is the lyrics text.
	Selector string
	// Sentinel is a substring the site puts in the body when it has no
	// lyrics for the song, instead of answering with an HTTP error.
	Sentinel string
}

// URL renders the concrete request URL for an (artist, song) pair.
func (s Source) URL(artist, song string) string {
	artist = strings.ReplaceAll(artist, " ", s.Separator)
	song = strings.ReplaceAll(song, " ", s.Separator)
	url := strings.ReplaceAll(s.URLTemplate, "{artist}", artist)
	return strings.ReplaceAll(url, "{song}", song)
}

// Registry holds the known sources in a stable order.
type Registry struct {
	mu   sync.RWMutex
	list []Source
}

func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefault returns a registry seeded with the stock sources.
func NewDefault() *Registry {
	r := NewRegistry()
	r.Register(Source{
		Name:        "makeitpersonal",
		URLTemplate: "https://makeitpersonal.co/lyrics?artist={artist}&title={song}",
		Separator:   "-",
		Sentinel:    "Sorry, We don't have lyrics for this song yet",
	})
	r.Register(Source{
		Name:        "genius",
		URLTemplate: "https://genius.com/{artist}-{song}-lyrics",
		Separator:   "-",
		Selector:    "div.lyrics",
	})
	r.Register(Source{
		Name:        "songlyrics",
		URLTemplate: "http://www.songlyrics.com/{artist}/{song}-lyrics/",
		Separator:   "-",
		Selector:    "p#songLyricsDiv",
	})
	r.Register(Source{
		// metrolyrics puts the song before the artist in its URLs
		Name:        "metrolyrics",
		URLTemplate: "http://www.metrolyrics.com/{song}-lyrics-{artist}.html",
		Separator:   "-",
		Selector:    "p.verse",
	})
	r.Register(Source{
		Name:        "musixmatch",
		URLTemplate: "https://www.musixmatch.com/lyrics/{artist}/{song}",
		Separator:   "-",
		Selector:    "p.mxm-lyrics__content",
	})
	return r
}

// Register adds a source. A source with the same name replaces the old one
// in place, keeping its position in the list.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.list {
		if existing.Name == s.Name {
			r.list[i] = s
			return
		}
	}
	r.list = append(r.list, s)
}

// All returns a copy of the current source list, in registration order.
func (r *Registry) All() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, len(r.list))
	copy(out, r.list)
	return out
}
