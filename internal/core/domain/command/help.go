package command

import (
	"context"
	"fmt"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"strings"
)

type Help struct {
	registry port.CommandRegistry
	remote   []domain.CommandSpec
	prefix   string
}

// NewHelp lists the commands of registry plus the remote-only commands in
// remote. It reads the registry when invoked, so it can be registered into
// the registry it describes. prefix is used for invocations that carry none.
func NewHelp(registry port.CommandRegistry, remote []domain.CommandSpec, prefix string) *Help {
	return &Help{registry: registry, remote: remote, prefix: prefix}
}

func (h *Help) GetCommand() string {
	return "help"
}

func (h *Help) Describe() domain.CommandSpec {
	return domain.CommandSpec{Name: h.GetCommand(), Description: "Show this help message"}
}

func (h *Help) Respond(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) error {
	prefix := invocation.Prefix
	if prefix == "" {
		prefix = h.prefix
	}

	return reply.Send(ctx, domain.PlainText(h.Text(prefix)))
}

// Text renders the help listing with usage lines typed after prefix.
func (h *Help) Text(prefix string) string {
	lines := []string{"**Available Commands:**"}
	for _, s := range domain.MergeSpecs(h.remote, h.registry.Specs()) {
		lines = append(lines, fmt.Sprintf("%s - %s", s.Usage(prefix), s.Description))
	}

	return strings.Join(lines, "\n")
}
