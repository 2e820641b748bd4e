package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/sukalov/versuri/internal/bot"
	"github.com/sukalov/versuri/internal/db"
	"github.com/sukalov/versuri/internal/fetcher"
	"github.com/sukalov/versuri/internal/logger"
	"github.com/sukalov/versuri/internal/resolver"
	"github.com/sukalov/versuri/internal/sources"
	"github.com/sukalov/versuri/internal/stats"
	"github.com/sukalov/versuri/internal/utils"
)

func main() {
	env, err := utils.LoadEnv([]string{"BOT_TOKEN"})
	if err != nil {
		log.Fatalf("required env missing: %v", err)
	}

	database, err := db.NewManager()
	if err != nil {
		log.Fatalf("failed to open lyrics database: %v", err)
	}
	defer database.Close()

	res := resolver.New(database, fetcher.New(), sources.NewDefault())
	statsManager, err := stats.NewManager()
	if err != nil {
		log.Printf("lookup stats disabled: %v", err)
		statsManager = nil
	}

	b, err := bot.New("versuri", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to start bot: %v", err)
	}

	if channel := utils.OptionalEnv("LOG_CHANNEL_ID", ""); channel != "" {
		channelID, err := strconv.ParseInt(channel, 10, 64)
		if err != nil {
			log.Fatalf("failed to parse LOG_CHANNEL_ID: %v", err)
		}
		logger.SetSink(bot.ChannelSink{Bot: b, ChannelID: channelID})
	}

	handlers := bot.NewHandlers(res, database, statsManager)
	logger.Info(fmt.Sprintf("versuri bot starting as %s", b.Client.Self.UserName))
	b.Start(handlers.Commands(), handlers.Callbacks())
}
