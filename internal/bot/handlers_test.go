package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestPickHandlerNilMessage(t *testing.T) {
	h := NewHandlers(nil, nil, nil)
	// callbacks from inaccessible or old messages carry no message
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "pick:0"}}

	if err := h.pickHandler(nil, update); err != nil {
		t.Errorf("expected a nil-message callback to be ignored, got %v", err)
	}
}

func TestSplitPair(t *testing.T) {
	tests := []struct {
		args       string
		wantArtist string
		wantSong   string
		wantOK     bool
	}{
		{args: "pink floyd - comfortably numb", wantArtist: "pink floyd", wantSong: "comfortably numb", wantOK: true},
		{args: "  queen -  under pressure ", wantArtist: "queen", wantSong: "under pressure", wantOK: true},
		{args: "no separator here", wantOK: false},
		{args: " - song only", wantOK: false},
		{args: "artist only - ", wantOK: false},
		{args: "", wantOK: false},
	}

	for _, tt := range tests {
		artist, song, ok := splitPair(tt.args)
		if ok != tt.wantOK {
			t.Errorf("splitPair(%q) ok = %v, want %v", tt.args, ok, tt.wantOK)
			continue
		}
		if artist != tt.wantArtist || song != tt.wantSong {
			t.Errorf("splitPair(%q) = (%q, %q), want (%q, %q)", tt.args, artist, song, tt.wantArtist, tt.wantSong)
		}
	}
}
