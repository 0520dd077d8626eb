package port

import (
	"context"
	"pyfibot/internal/core/domain"
)

type RemoteResolver interface {
	// Enabled reports whether an endpoint and API key are configured.
	Enabled() bool
	// Resolve submits a command to the remote backend. Failures are reported in the result, never as a panic.
	Resolve(ctx context.Context, command, args, user string) domain.RemoteResult
}

type Dispatcher interface {
	// Dispatch resolves an invocation and produces exactly one reply on the channel.
	Dispatch(ctx context.Context, invocation *domain.Invocation, reply ReplyChannel)
}

// Gate decides whether an invocation may proceed. A gate that rejects has already replied.
type Gate interface {
	Admit(ctx context.Context, invocation *domain.Invocation, reply ReplyChannel) bool
}
