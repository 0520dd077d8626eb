package command

import (
	"context"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
)

// Func adapts a plain function to port.Command.
type Func struct {
	Spec    domain.CommandSpec
	Handler func(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) error
}

func (f *Func) GetCommand() string {
	return f.Spec.Name
}

func (f *Func) Describe() domain.CommandSpec {
	return f.Spec
}

func (f *Func) Respond(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) error {
	return f.Handler(ctx, invocation, reply)
}

// NewPing returns the self-test command.
func NewPing() *Func {
	return &Func{
		Spec: domain.CommandSpec{Name: "ping", Description: "Check that the bot is responding"},
		Handler: func(ctx context.Context, _ *domain.Invocation, reply port.ReplyChannel) error {
			return reply.Send(ctx, domain.PlainText("Pong!"))
		},
	}
}
