package sender

import (
	"context"
	"errors"
	"pyfibot/internal/core/domain"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

var ErrNothingToEdit = errors.New("no reply sent yet, nothing to edit")

type replyState int

const (
	stateNone replyState = iota
	stateDeferred
	stateReplied
)

// InteractionSession is the part of *discordgo.Session used to answer interactions.
type InteractionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordReply answers a single slash command interaction. Discord accepts
// only one initial response per interaction, everything after it is an edit.
type DiscordReply struct {
	session     InteractionSession
	interaction *discordgo.Interaction
	mutex       sync.Mutex
	state       replyState
}

func NewDiscordReply(session InteractionSession, interaction *discordgo.Interaction) *DiscordReply {
	return &DiscordReply{session: session, interaction: interaction}
}

func (r *DiscordReply) Defer(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.state != stateNone {
		return nil
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	r.state = stateDeferred
	return nil
}

func (r *DiscordReply) Send(_ context.Context, reply domain.Reply) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.state != stateNone {
		return r.edit(reply)
	}

	data := &discordgo.InteractionResponseData{}
	if reply.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{toMessageEmbed(reply.Embed)}
	} else {
		data.Content = reply.Text
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return err
	}

	r.state = stateReplied
	return nil
}

func (r *DiscordReply) Edit(_ context.Context, reply domain.Reply) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.state == stateNone {
		return ErrNothingToEdit
	}

	return r.edit(reply)
}

func (r *DiscordReply) Replied() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.state != stateNone
}

func (r *DiscordReply) edit(reply domain.Reply) error {
	if reply.Ephemeral && r.state == stateDeferred {
		log.Debug().Str("interaction", r.interaction.ID).Msg("visibility of a deferred reply can't be changed")
	}

	content := reply.Text
	embeds := []*discordgo.MessageEmbed{}
	if reply.Embed != nil {
		content = ""
		embeds = append(embeds, toMessageEmbed(reply.Embed))
	}

	_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	})
	if err != nil {
		return err
	}

	r.state = stateReplied
	return nil
}

func toMessageEmbed(e *domain.Embed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline}
	}

	embed := &discordgo.MessageEmbed{
		Title:  e.Title,
		Color:  e.Color,
		Fields: fields,
	}

	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.Format(time.RFC3339)
	}

	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}

	return embed
}
