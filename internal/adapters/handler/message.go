package handler

import (
	"context"
	"pyfibot/internal/adapters/sender"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/domain/command"
	"pyfibot/internal/core/port"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Message turns prefix-style Telegram text commands into invocations.
type Message struct {
	dispatcher port.Dispatcher
	prefix     string
}

func NewMessage(dispatcher port.Dispatcher, prefix string) *Message {
	return &Message{dispatcher: dispatcher, prefix: prefix}
}

// Handle is registered with bot.RegisterHandler.
func (h *Message) Handle(_ context.Context, b *bot.Bot, update *models.Update) {
	h.handle(b, update)
}

func (h *Message) handle(b sender.TelegramBot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	msg := update.Message

	name, ok := command.ParseCommand(msg.Text, h.prefix)
	if !ok {
		return
	}

	log.Debug().Str("message", msg.Text).Msg("received command")

	invocation := domain.NewInvocation(name, command.ParseCommandArgs(msg.Text), getUserNameFromMessage(msg.From))
	invocation.ChannelID = strconv.FormatInt(msg.Chat.ID, 10)
	invocation.Prefix = h.prefix
	if msg.From != nil {
		invocation.UserID = strconv.FormatInt(msg.From.ID, 10)
	}

	reply := sender.NewTelegramReply(b, msg.Chat.ID, msg.ID)

	go h.dispatcher.Dispatch(context.Background(), invocation, reply)
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return user.Username
}
