package service

import (
	"context"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// GuildAuthorizer admits invocations from allowlisted guilds only. An empty
// allowlist admits everything, and invocations outside of a guild are always
// admitted.
type GuildAuthorizer struct {
	allowlist map[string]struct{}
}

func NewGuildAuthorizer(guildIDs []string) *GuildAuthorizer {
	allowlist := make(map[string]struct{}, len(guildIDs))
	for _, id := range guildIDs {
		allowlist[id] = struct{}{}
	}

	return &GuildAuthorizer{allowlist: allowlist}
}

func (a *GuildAuthorizer) IsAuthorized(guildID string) bool {
	if len(a.allowlist) == 0 || guildID == "" {
		return true
	}

	_, ok := a.allowlist[guildID]
	return ok
}

func (a *GuildAuthorizer) Admit(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) bool {
	if a.IsAuthorized(invocation.GuildID) {
		return true
	}

	log.Warn().Str("guild", invocation.GuildID).Str("user", invocation.User).Msg("invocation from guild not on allowlist")

	if err := reply.Send(ctx, domain.Private(domain.MsgGuildNotAllowed)); err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
