package handler

import (
	"context"
	"fmt"
	"pyfibot/internal/adapters/sender"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const slashPrefix = "/"

// Interaction turns Discord slash command interactions into invocations.
type Interaction struct {
	dispatcher port.Dispatcher
}

func NewInteraction(dispatcher port.Dispatcher) *Interaction {
	return &Interaction{dispatcher: dispatcher}
}

// Handle is registered with discordgo.Session.AddHandler.
func (h *Interaction) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handle(s, i)
}

func (h *Interaction) handle(session sender.InteractionSession, i *discordgo.InteractionCreate) {
	invocation, ok := invocationFromInteraction(i)
	if !ok {
		return
	}

	log.Debug().
		Str("invocation", invocation.ID).
		Str("command", invocation.Command).
		Str("guild", invocation.GuildID).
		Msg("received interaction")

	reply := sender.NewDiscordReply(session, i.Interaction)

	// an invocation runs to completion even if the gateway goes away
	go h.dispatcher.Dispatch(context.Background(), invocation, reply)
}

func invocationFromInteraction(i *discordgo.InteractionCreate) (*domain.Invocation, bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return nil, false
	}

	data := i.ApplicationCommandData()

	user := interactionUser(i.Interaction)

	invocation := domain.NewInvocation(data.Name, nil, "")
	if user != nil {
		invocation.User = user.Username
		invocation.UserID = user.ID
	}
	invocation.Prefix = slashPrefix
	invocation.Options = make(map[string]string)
	invocation.GuildID = i.GuildID
	invocation.ChannelID = i.ChannelID

	collectOptions(invocation, data.Options)

	return invocation, true
}

// collectOptions flattens subcommand options into the invocation in declared order.
func collectOptions(invocation *domain.Invocation, options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			collectOptions(invocation, opt.Options)
			continue
		case discordgo.ApplicationCommandOptionString:
			invocation.Options[opt.Name] = opt.StringValue()
		default:
			invocation.Options[opt.Name] = fmt.Sprint(opt.Value)
		}

		invocation.Args = append(invocation.Args, invocation.Options[opt.Name])
	}
}

// interactionUser returns the guild member's user, or the user of a direct message.
func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}

	return i.User
}
