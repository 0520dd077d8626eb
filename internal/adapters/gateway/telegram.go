package gateway

import (
	"context"
	"fmt"
	"pyfibot/internal/adapters/handler"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Telegram polls for prefix-style commands.
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(token, prefix string, messages *handler.Message) (*Telegram, error) {
	b, err := bot.New(token, bot.WithDefaultHandler(noOpHandler))
	if err != nil {
		return nil, fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, prefix, bot.MatchTypePrefix, messages.Handle)

	return &Telegram{bot: b}, nil
}

// Run polls until ctx is done.
func (t *Telegram) Run(ctx context.Context) {
	log.Info().Msg("telegram bot listening")
	t.bot.Start(ctx)
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
