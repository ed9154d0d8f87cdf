// Package notifier announces notable discoveries to a Telegram channel.
package notifier

import (
	"fmt"

	"geohunt_backend/internal/model"
	"geohunt_backend/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Config struct {
	BotToken  string `yaml:"botToken"`
	ChannelID int64  `yaml:"channelId"`
}

// TelegramNotifier posts legendary discoveries to the configured
// channel. Sends are fire-and-forget on a buffered channel so the
// discovery pipeline never waits on Telegram.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	channelID int64
	events    chan model.DiscoveryEvent
}

func NewTelegramNotifier(cfg Config) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	n := &TelegramNotifier{
		bot:       bot,
		channelID: cfg.ChannelID,
		events:    make(chan model.DiscoveryEvent, 32),
	}
	go n.run()

	return n, nil
}

func (n *TelegramNotifier) AnnounceDiscovery(event model.DiscoveryEvent) {
	if event.Rarity != model.RarityLegendary {
		return
	}

	select {
	case n.events <- event:
	default:
		// Announcements are best-effort.
	}
}

func (n *TelegramNotifier) run() {
	log := logger.With("telegram_notifier")

	for event := range n.events {
		text := fmt.Sprintf("A legendary treasure has been found!\n%s (%s)\nReward: %d points",
			event.TreasureName, event.TreasureID, event.RewardPoints)
		if event.Offline {
			text += "\n(recorded offline, pending chain mint)"
		}

		msg := tgbotapi.NewMessage(n.channelID, text)
		if _, err := n.bot.Send(msg); err != nil {
			log.Warn("failed to send announcement",
				zap.String("treasure_id", event.TreasureID),
				zap.Error(err))
		}
	}
}
