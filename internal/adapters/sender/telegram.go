package sender

import (
	"context"
	"pyfibot/internal/core/domain"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name TelegramBot

// TelegramBot is the part of *bot.Bot used to answer messages.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

const (
	TelegramMessageLimit = 4096
	placeholderText      = "⏳ Working on it…"
)

// TelegramReply answers one prefix-style command message. Telegram has no
// private replies, so ephemeral replies are sent to the chat.
type TelegramReply struct {
	bot       TelegramBot
	chatID    int64
	messageID int
	sentID    int
	state     replyState
	mutex     sync.Mutex
}

func NewTelegramReply(bot TelegramBot, chatID int64, messageID int) *TelegramReply {
	return &TelegramReply{bot: bot, chatID: chatID, messageID: messageID}
}

func (s *TelegramReply) Defer(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != stateNone {
		return nil
	}

	if err := s.sendMessage(ctx, placeholderText); err != nil {
		return err
	}

	s.state = stateDeferred
	return nil
}

func (s *TelegramReply) Send(ctx context.Context, reply domain.Reply) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != stateNone {
		return s.editMessage(ctx, reply.String())
	}

	if err := s.sendMessage(ctx, reply.String()); err != nil {
		return err
	}

	s.state = stateReplied
	return nil
}

func (s *TelegramReply) Edit(ctx context.Context, reply domain.Reply) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == stateNone {
		return ErrNothingToEdit
	}

	return s.editMessage(ctx, reply.String())
}

func (s *TelegramReply) Replied() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state != stateNone
}

func (s *TelegramReply) sendMessage(ctx context.Context, text string) error {
	msg, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   truncate(text),
		ReplyParameters: &models.ReplyParameters{
			MessageID: s.messageID,
			ChatID:    s.chatID,
		},
	})
	if err != nil {
		log.Error().Err(err).Int64("chatID", s.chatID).Msg("failed to send message")
		return err
	}

	s.sentID = msg.ID
	return nil
}

func (s *TelegramReply) editMessage(ctx context.Context, text string) error {
	_, err := s.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    s.chatID,
		MessageID: s.sentID,
		Text:      truncate(text),
	})
	if err != nil {
		log.Error().Err(err).Int64("chatID", s.chatID).Msg("failed to edit message")
		return err
	}

	s.state = stateReplied
	return nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= TelegramMessageLimit {
		return text
	}

	return string(runes[:TelegramMessageLimit-1]) + "…"
}
