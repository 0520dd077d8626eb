package port

import (
	"context"
	"pyfibot/internal/core/domain"
)

type Command interface {
	// Respond handles an invocation and sends its reply through the given channel.
	Respond(ctx context.Context, invocation *domain.Invocation, reply ReplyChannel) error
	// GetCommand retrieves the command identifier associated with a specific command handler.
	GetCommand() string
	// Describe returns the declared shape of the command for help output and platform registration.
	Describe() domain.CommandSpec
}

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command) error
	// Get retrieves a registered Command based on its string identifier or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns a sorted list of all command identifiers currently registered in the command registry.
	ListCommands() []string
	// Specs returns the declared shapes of all registered commands, sorted by name.
	Specs() []domain.CommandSpec
}
