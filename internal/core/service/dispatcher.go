package service

import (
	"context"
	"errors"
	"fmt"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dispatcher resolves invocations against the remote backend and the local
// registry and makes sure every invocation gets exactly one reply.
type Dispatcher struct {
	registry  port.CommandRegistry
	resolver  port.RemoteResolver
	formatter *Formatter
	remote    map[string]struct{}
	gates     []port.Gate
}

// NewDispatcher creates a dispatcher. Commands in remoteCommands are always
// tried against resolver before the registry.
func NewDispatcher(registry port.CommandRegistry,
	resolver port.RemoteResolver,
	formatter *Formatter,
	remoteCommands []string,
	gates ...port.Gate) *Dispatcher {
	remote := make(map[string]struct{}, len(remoteCommands))
	for _, c := range remoteCommands {
		remote[c] = struct{}{}
	}

	return &Dispatcher{
		registry:  registry,
		resolver:  resolver,
		formatter: formatter,
		remote:    remote,
		gates:     gates,
	}
}

// IsRemote reports whether command belongs to the designated remote set.
func (d *Dispatcher) IsRemote(command string) bool {
	_, ok := d.remote[command]
	return ok
}

// Dispatch runs invocation to completion and always leaves exactly one reply on the channel.
func (d *Dispatcher) Dispatch(ctx context.Context, invocation *domain.Invocation, channel port.ReplyChannel) {
	reply := &trackedReply{ReplyChannel: channel}

	l := log.With().
		Str("invocation", invocation.ID).
		Str("command", invocation.Command).
		Str("user", invocation.User).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			d.fail(ctx, l, reply, fmt.Errorf("%w: %v", domain.ErrHandlerPanic, r))
		}
	}()

	l.Info().Strs("args", invocation.Args).Msg("dispatching command")

	for _, gate := range d.gates {
		if !gate.Admit(ctx, invocation, reply) {
			l.Info().Msg("invocation rejected by gate")
			return
		}
	}

	if d.IsRemote(invocation.Command) {
		handled, err := d.resolveRemote(ctx, l, invocation, reply)
		if err != nil {
			d.fail(ctx, l, reply, err)
			return
		}

		if handled {
			return
		}
	}

	if err := d.runLocal(ctx, l, invocation, reply); err != nil {
		d.fail(ctx, l, reply, err)
		return
	}

	if !reply.answered() {
		l.Warn().Msg("command finished without replying")

		if err := reply.Send(ctx, domain.PlainText(domain.MsgNoOutput)); err != nil {
			l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		}
	}
}

// resolveRemote returns true when the backend produced the reply. Backend
// failures are not errors here, they only cause a fallback.
func (d *Dispatcher) resolveRemote(ctx context.Context, l zerolog.Logger,
	invocation *domain.Invocation, reply port.ReplyChannel) (bool, error) {
	if d.resolver == nil || !d.resolver.Enabled() {
		l.Debug().Msg("remote backend not configured, falling back to local commands")
		return false, nil
	}

	if err := reply.Defer(ctx); err != nil {
		return false, fmt.Errorf("deferring reply: %w", err)
	}

	args := invocation.ArgString()
	l.Debug().Str("args", args).Msg("calling remote backend")

	res := d.resolver.Resolve(ctx, invocation.Command, args, invocation.User)

	switch {
	case res.Definitive():
	case res.Kind == domain.KindNotConfigured:
		l.Debug().Msg("remote backend not configured, falling back to local commands")
		return false, nil
	case res.Kind == domain.KindNotFound || domain.IsUnknownCommand(res.Result):
		l.Info().Str("result", res.Result).Msg("remote backend does not know command, falling back")
		return false, nil
	default:
		l.Warn().Err(res.Err).Str("kind", string(res.Kind)).Msg("remote backend failed, falling back")
		return false, nil
	}

	out, ok := d.formatter.Format(invocation.Command, res.Result)
	if !ok {
		l.Warn().Msg("remote backend returned no output")
		out = domain.PlainText(domain.MsgNoOutput)
	}

	if err := reply.Send(ctx, out); err != nil {
		return true, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
	}

	return true, nil
}

// trackedReply records whether a reply with content went out. Replied on
// the wrapped channel also counts a bare placeholder.
type trackedReply struct {
	port.ReplyChannel
	mutex sync.Mutex
	sent  bool
}

func (t *trackedReply) Send(ctx context.Context, reply domain.Reply) error {
	return t.track(t.ReplyChannel.Send(ctx, reply))
}

func (t *trackedReply) Edit(ctx context.Context, reply domain.Reply) error {
	return t.track(t.ReplyChannel.Edit(ctx, reply))
}

func (t *trackedReply) track(err error) error {
	if err == nil {
		t.mutex.Lock()
		t.sent = true
		t.mutex.Unlock()
	}

	return err
}

func (t *trackedReply) answered() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.sent
}

func (d *Dispatcher) runLocal(ctx context.Context, l zerolog.Logger,
	invocation *domain.Invocation, reply port.ReplyChannel) error {
	handler, err := d.registry.Get(invocation.Command)
	if err != nil {
		l.Info().Err(err).Msg("no handler for command")

		if err := reply.Send(ctx, domain.Private(domain.MsgUnknownCommand)); err != nil {
			l.Error().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		}

		return nil
	}

	if err := handler.Respond(ctx, invocation, reply); err != nil {
		return fmt.Errorf("executing command %s: %w", invocation.Command, err)
	}

	return nil
}

// fail reports err to the caller with the generic failure text, editing the
// reply already sent if there is one.
func (d *Dispatcher) fail(ctx context.Context, l zerolog.Logger, reply port.ReplyChannel, err error) {
	l.Error().Err(err).Msg("failed to handle command")

	msg := domain.Private(domain.MsgCommandFailed)

	var sendErr error
	if reply.Replied() {
		sendErr = reply.Edit(ctx, msg)
	} else {
		sendErr = reply.Send(ctx, msg)
	}

	if sendErr != nil {
		l.Error().Err(errors.Join(domain.ErrSendingReplyFailed, sendErr)).Msg("failed to report error to user")
	}
}
