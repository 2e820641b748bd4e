package bot

import (
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram client with pluggable command and callback
// handlers. Callback data is matched on the part before the first ":",
// so one handler can serve "pick:0", "pick:1", ...
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

type Handler func(b *Bot, update tgbotapi.Update) error

func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// Start begins processing updates and blocks until Stop is called.
func (b *Bot) Start(commandHandlers map[string]Handler, callbackHandlers map[string]Handler) {
	log.Printf("[%s] authorized on account %s", b.name, b.Client.Self.UserName)

	for {
		select {
		case update := <-b.updateChan:
			go b.processUpdate(update, commandHandlers, callbackHandlers)
		case <-b.stopChan:
			return
		}
	}
}

func (b *Bot) processUpdate(update tgbotapi.Update, commandHandlers, callbackHandlers map[string]Handler) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] command handler error: %v", b.name, err)
			}
		}
		return
	}

	if update.CallbackQuery != nil {
		key, _, _ := strings.Cut(update.CallbackQuery.Data, ":")
		if handler, exists := callbackHandlers[key]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] callback handler error: %v", b.name, err)
			}
		}
	}
}

// Stop halts the bot.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChan <- struct{}{}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.Client.Send(msg)
	return err
}

// ChannelSink forwards log lines to a Telegram channel so the bot can act
// as a logger sink.
type ChannelSink struct {
	Bot       *Bot
	ChannelID int64
}

func (s ChannelSink) Write(message string) error {
	return s.Bot.SendMessage(s.ChannelID, message)
}
