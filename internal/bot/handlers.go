package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/versuri/internal/logger"
	"github.com/sukalov/versuri/internal/resolver"
	"github.com/sukalov/versuri/internal/search"
	"github.com/sukalov/versuri/internal/stats"
)

const queryTimeout = 10 * time.Second

// maxPickRows caps the inline keyboard; Telegram rejects oversized markup.
const maxPickRows = 25

// Handlers serves the lyrics commands. stats may be nil.
type Handlers struct {
	res   *resolver.Resolver
	store search.Store
	stats *stats.Manager

	mu      sync.Mutex
	pending map[int64][]search.Row
}

func NewHandlers(res *resolver.Resolver, store search.Store, statsManager *stats.Manager) *Handlers {
	return &Handlers{
		res:     res,
		store:   store,
		stats:   statsManager,
		pending: make(map[int64][]search.Row),
	}
}

// Commands maps command names to handlers for Bot.Start.
func (h *Handlers) Commands() map[string]Handler {
	return map[string]Handler{
		"lyrics": h.lyricsHandler,
		"find":   h.findHandler,
		"top":    h.topHandler,
	}
}

// Callbacks maps callback prefixes to handlers for Bot.Start.
func (h *Handlers) Callbacks() map[string]Handler {
	return map[string]Handler{
		"pick": h.pickHandler,
	}
}

// lyricsHandler serves "/lyrics artist - song".
func (h *Handlers) lyricsHandler(b *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	artist, song, ok := splitPair(update.Message.CommandArguments())
	if !ok {
		return b.SendMessage(chatID, "usage: /lyrics artist - song")
	}

	h.deliver(b, chatID, artist, song)
	return nil
}

// findHandler serves "/find query": it lists matching rows as an inline
// keyboard and remembers them so pickHandler can recover the pair.
func (h *Handlers) findHandler(b *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := search.Query(ctx, h.store, update.Message.CommandArguments())
	if err != nil {
		logger.Error(fmt.Sprintf("search failed: %v", err))
		return b.SendMessage(chatID, "search failed, try another query")
	}
	if len(rows) == 0 {
		return b.SendMessage(chatID, "nothing found")
	}
	if len(rows) > maxPickRows {
		rows = rows[:maxPickRows]
	}

	h.mu.Lock()
	h.pending[chatID] = rows
	h.mu.Unlock()

	var keyboard [][]tgbotapi.InlineKeyboardButton
	for i, row := range rows {
		button := tgbotapi.NewInlineKeyboardButtonData(row.Display, fmt.Sprintf("pick:%d", i))
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{button})
	}
	return b.SendMessageWithButtons(chatID, "pick a song:", tgbotapi.NewInlineKeyboardMarkup(keyboard...))
}

// pickHandler resolves the row chosen from a /find keyboard.
func (h *Handlers) pickHandler(b *Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if query.Message == nil {
		// callbacks from inaccessible or old messages carry no message
		return nil
	}
	chatID := query.Message.Chat.ID

	_, indexStr, _ := strings.Cut(query.Data, ":")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return fmt.Errorf("bad pick callback data %q: %w", query.Data, err)
	}

	h.mu.Lock()
	rows := h.pending[chatID]
	h.mu.Unlock()
	if index < 0 || index >= len(rows) {
		return b.SendMessage(chatID, "that list has expired, run /find again")
	}

	if _, err := b.Client.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Debug(fmt.Sprintf("failed to ack callback: %v", err))
	}

	row := rows[index]
	h.deliver(b, chatID, row.Artist, row.Song)
	return nil
}

// topHandler serves "/top": the most requested songs.
func (h *Handlers) topHandler(b *Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.stats == nil {
		return b.SendMessage(chatID, "lookup stats are not enabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	counts, err := h.stats.Top(ctx, 10)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to read lookup stats: %v", err))
		return b.SendMessage(chatID, "stats are unavailable right now")
	}
	if len(counts) == 0 {
		return b.SendMessage(chatID, "no lookups yet")
	}

	var sb strings.Builder
	sb.WriteString("most requested:\n\n")
	for i, c := range counts {
		sb.WriteString(fmt.Sprintf("%d. %s - %s (%d)\n", i+1, c.Artist, c.Song, c.Count))
	}
	return b.SendMessage(chatID, sb.String())
}

func (h *Handlers) deliver(b *Bot, chatID int64, artist, song string) {
	lyrics, found := h.res.ResolveSync(artist, song)
	if !found {
		if err := b.SendMessage(chatID, fmt.Sprintf("no lyrics found for %s - %s", artist, song)); err != nil {
			logger.Error(fmt.Sprintf("failed to send reply: %v", err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := h.stats.IncrementLookup(ctx, artist, song); err != nil {
		logger.Debug(fmt.Sprintf("failed to count lookup: %v", err))
	}

	if err := b.SendMessage(chatID, fmt.Sprintf("%s - %s\n\n%s", artist, song, lyrics)); err != nil {
		logger.Error(fmt.Sprintf("failed to send lyrics: %v", err))
	}
}

// splitPair parses "artist - song".
func splitPair(args string) (artist, song string, ok bool) {
	artist, song, found := strings.Cut(args, " - ")
	artist = strings.TrimSpace(artist)
	song = strings.TrimSpace(song)
	if !found || artist == "" || song == "" {
		return "", "", false
	}
	return artist, song, true
}
