package port

import (
	"context"
	"pyfibot/internal/core/domain"
)

// ReplyChannel is bound to a single invocation.
type ReplyChannel interface {
	// Defer acknowledges the invocation with a placeholder that a later Send or Edit replaces.
	Defer(ctx context.Context) error
	// Send sends the initial reply, or edits the existing one if a reply or placeholder was already sent.
	Send(ctx context.Context, reply domain.Reply) error
	// Edit replaces the content of the reply already sent for this invocation.
	Edit(ctx context.Context, reply domain.Reply) error
	// Replied reports whether a reply or placeholder was already sent.
	Replied() bool
}
