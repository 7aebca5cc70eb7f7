package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier tells the lab staff that something needs their attention.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Log writes notifications to the application log; used when no Telegram
// token is configured.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log { return &Log{log: log} }

func (l *Log) Notify(_ context.Context, text string) error {
	l.log.Info("notification", "text", text)
	return nil
}

// Telegram posts notifications to the admin chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram: admin chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// New picks Telegram when a token is set and falls back to Log otherwise,
// including when the bot cannot be reached at startup.
func New(token string, chatID int64, log *slog.Logger) Notifier {
	if token == "" {
		return NewLog(log)
	}
	tg, err := NewTelegram(token, chatID)
	if err != nil {
		log.Warn("telegram notifier unavailable, using log", "err", err)
		return NewLog(log)
	}
	return tg
}
