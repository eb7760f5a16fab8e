package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink delivers alerts as Telegram messages to a fixed chat.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink authenticates against the Bot API and returns a sink.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Name identifies the sink in logs and metrics.
func (t *TelegramSink) Name() string {
	return "telegram"
}

// Send posts the alert to the configured chat.
func (t *TelegramSink) Send(_ context.Context, alert Alert) error {
	text := fmt.Sprintf("🔔 *%s*\n%s", alert.Title, alert.Description)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram alert: %w", err)
	}
	return nil
}
