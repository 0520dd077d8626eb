package sender

import (
	"context"
	"fmt"
	"io"
	"pyfibot/internal/core/domain"
	"sync"
)

// ConsoleReply prints replies, for running commands from the command line.
type ConsoleReply struct {
	out     io.Writer
	replied bool
	mutex   sync.Mutex
}

func NewConsoleReply(out io.Writer) *ConsoleReply {
	return &ConsoleReply{out: out}
}

func (c *ConsoleReply) Defer(_ context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.replied = true
	return nil
}

func (c *ConsoleReply) Send(_ context.Context, reply domain.Reply) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.replied = true
	_, err := fmt.Fprintln(c.out, reply.String())
	return err
}

func (c *ConsoleReply) Edit(ctx context.Context, reply domain.Reply) error {
	if !c.Replied() {
		return ErrNothingToEdit
	}

	return c.Send(ctx, reply)
}

func (c *ConsoleReply) Replied() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.replied
}
