package gateway

import (
	"context"
	"fmt"
	"pyfibot/internal/adapters/handler"
	"pyfibot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// CommandRegistrar is the part of *discordgo.Session used to publish slash commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Discord owns the gateway session.
type Discord struct {
	session  *discordgo.Session
	clientID string
	guildID  string
}

func NewDiscord(token, clientID, guildID string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds

	return &Discord{session: session, clientID: clientID, guildID: guildID}, nil
}

// RegisterCommands replaces the guild's slash commands with specs.
func (d *Discord) RegisterCommands(specs []domain.CommandSpec) error {
	return RegisterCommands(d.session, d.clientID, d.guildID, specs)
}

// Run connects and serves interactions until ctx is done.
func (d *Discord) Run(ctx context.Context, interactions *handler.Interaction) error {
	d.session.AddHandler(onReady)
	d.session.AddHandler(interactions.Handle)

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer d.session.Close()

	log.Info().Msg("connected to discord")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing discord session")

	return nil
}

func onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.Info().Str("user", r.User.String()).Int("guilds", len(r.Guilds)).Msg("logged in")
}

// RegisterCommands bulk-overwrites the slash commands of a guild, or the
// global ones when guildID is empty.
func RegisterCommands(r CommandRegistrar, clientID, guildID string, specs []domain.CommandSpec) error {
	log.Info().Str("guild", guildID).Int("commands", len(specs)).Msg("started refreshing slash commands")

	_, err := r.ApplicationCommandBulkOverwrite(clientID, guildID, BuildCommands(specs))
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}

	log.Info().Str("guild", guildID).Msg("successfully reloaded slash commands")

	return nil
}

// BuildCommands converts command declarations into slash command definitions.
func BuildCommands(specs []domain.CommandSpec) []*discordgo.ApplicationCommand {
	commands := make([]*discordgo.ApplicationCommand, len(specs))

	for i, s := range specs {
		options := make([]*discordgo.ApplicationCommandOption, len(s.Options))
		for j, o := range s.Options {
			options[j] = &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        o.Name,
				Description: o.Description,
				Required:    o.Required,
			}
		}

		commands[i] = &discordgo.ApplicationCommand{
			Name:        s.Name,
			Description: s.Description,
			Options:     options,
		}
	}

	return commands
}
